package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sportshub/sports-community/models"
)

var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrMediaTeamInvalid = errors.New("media team conflict or invalid")
)

type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id int) (*models.Media, error)
	ListByOwner(ctx context.Context, userID int) ([]*models.Media, error)
}

type postgresMediaRepository struct {
	db *sql.DB
}

func NewPostgresMediaRepository(db *sql.DB) MediaRepository {
	return &postgresMediaRepository{db: db}
}

func (r *postgresMediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (filename, original_name, mime_type, size, url, storage_key,
		                   uploaded_by_id, team_id, type, description, tags, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		media.Filename,
		media.OriginalName,
		media.MimeType,
		media.Size,
		media.URL,
		media.StorageKey,
		media.UploadedByID,
		media.TeamID,
		media.Type,
		media.Description,
		pq.Array(media.Tags),
		media.IsPublic,
	).Scan(&media.ID, &media.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "media_team_id_fkey":
				return ErrMediaTeamInvalid
			case "media_uploaded_by_id_fkey":
				return ErrUserNotFound
			}
		}
		return err
	}
	return nil
}

func (r *postgresMediaRepository) GetByID(ctx context.Context, id int) (*models.Media, error) {
	query := `
		SELECT id, filename, original_name, mime_type, size, url, storage_key,
		       uploaded_by_id, team_id, type, description, tags, is_public, created_at
		FROM media
		WHERE id = $1`

	media := &models.Media{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&media.ID,
		&media.Filename,
		&media.OriginalName,
		&media.MimeType,
		&media.Size,
		&media.URL,
		&media.StorageKey,
		&media.UploadedByID,
		&media.TeamID,
		&media.Type,
		&media.Description,
		pq.Array(&media.Tags),
		&media.IsPublic,
		&media.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return media, nil
}

func (r *postgresMediaRepository) ListByOwner(ctx context.Context, userID int) ([]*models.Media, error) {
	query := `
		SELECT id, filename, original_name, mime_type, size, url, storage_key,
		       uploaded_by_id, team_id, type, description, tags, is_public, created_at
		FROM media
		WHERE uploaded_by_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.Media, 0)
	for rows.Next() {
		media := &models.Media{}
		if scanErr := rows.Scan(
			&media.ID,
			&media.Filename,
			&media.OriginalName,
			&media.MimeType,
			&media.Size,
			&media.URL,
			&media.StorageKey,
			&media.UploadedByID,
			&media.TeamID,
			&media.Type,
			&media.Description,
			pq.Array(&media.Tags),
			&media.IsPublic,
			&media.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		items = append(items, media)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
