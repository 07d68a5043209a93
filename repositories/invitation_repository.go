package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sportshub/sports-community/models"
)

var (
	ErrInvitationNotFound        = errors.New("invitation not found")
	ErrInvitationPendingConflict = errors.New("pending invitation already exists for this email")
	ErrInvitationTeamInvalid     = errors.New("invitation team conflict or invalid")
)

type InvitationRepository interface {
	// Create добавляет приглашение со статусом pending. Частичный уникальный
	// индекс по (team_id, lower(email)) WHERE status = 'pending' не допускает
	// второго ожидающего приглашения даже при конкурентных запросах.
	Create(ctx context.Context, invitation *models.Invitation) error

	GetByID(ctx context.Context, id int) (*models.Invitation, error)

	// GetPendingByTeamAndEmail ищет ожидающее приглашение по email без учёта регистра.
	GetPendingByTeamAndEmail(ctx context.Context, teamID int, email string) (*models.Invitation, error)

	// ListByTeamID возвращает приглашения команды всех статусов, новые первыми.
	ListByTeamID(ctx context.Context, teamID int) ([]*models.Invitation, error)

	// ListPendingByEmail - кросс-командный поиск ожидающих приглашений по email
	// вместе с краткой информацией о команде.
	ListPendingByEmail(ctx context.Context, email string) ([]*models.Invitation, error)

	// UpdateStatus переводит pending-приглашение в терминальный статус.
	// Возвращает ErrInvitationNotFound, если приглашение уже не pending.
	UpdateStatus(ctx context.Context, id int, status models.InvitationStatus) error
}

type postgresInvitationRepository struct {
	db *sql.DB
}

func NewPostgresInvitationRepository(db *sql.DB) InvitationRepository {
	return &postgresInvitationRepository{db: db}
}

func (r *postgresInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	query := `
		INSERT INTO team_invitations (team_id, email, invited_by_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invitation.TeamID,
		invitation.Email,
		invitation.InvitedByID,
		invitation.Status,
	).Scan(&invitation.ID, &invitation.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "team_invitations_pending_email_key" {
					return ErrInvitationPendingConflict
				}
			case "23503":
				if pqErr.Constraint == "team_invitations_team_id_fkey" {
					return ErrInvitationTeamInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresInvitationRepository) GetByID(ctx context.Context, id int) (*models.Invitation, error) {
	query := `
		SELECT id, team_id, email, invited_by_id, status, created_at
		FROM team_invitations
		WHERE id = $1`

	invitation := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&invitation.ID,
		&invitation.TeamID,
		&invitation.Email,
		&invitation.InvitedByID,
		&invitation.Status,
		&invitation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return invitation, nil
}

func (r *postgresInvitationRepository) GetPendingByTeamAndEmail(ctx context.Context, teamID int, email string) (*models.Invitation, error) {
	query := `
		SELECT id, team_id, email, invited_by_id, status, created_at
		FROM team_invitations
		WHERE team_id = $1 AND lower(email) = lower($2) AND status = 'pending'`

	invitation := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, teamID, email).Scan(
		&invitation.ID,
		&invitation.TeamID,
		&invitation.Email,
		&invitation.InvitedByID,
		&invitation.Status,
		&invitation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return invitation, nil
}

func (r *postgresInvitationRepository) ListByTeamID(ctx context.Context, teamID int) ([]*models.Invitation, error) {
	query := `
		SELECT i.id, i.team_id, i.email, i.invited_by_id, i.status, i.created_at,
		       u.id, u.name, u.avatar
		FROM team_invitations i
		JOIN users u ON u.id = i.invited_by_id
		WHERE i.team_id = $1
		ORDER BY i.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]*models.Invitation, 0)
	for rows.Next() {
		invitation := &models.Invitation{}
		inviter := &models.User{}
		if scanErr := rows.Scan(
			&invitation.ID,
			&invitation.TeamID,
			&invitation.Email,
			&invitation.InvitedByID,
			&invitation.Status,
			&invitation.CreatedAt,
			&inviter.ID,
			&inviter.Name,
			&inviter.Avatar,
		); scanErr != nil {
			return nil, scanErr
		}
		invitation.InvitedBy = inviter
		invitations = append(invitations, invitation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *postgresInvitationRepository) ListPendingByEmail(ctx context.Context, email string) ([]*models.Invitation, error) {
	query := `
		SELECT i.id, i.team_id, i.email, i.invited_by_id, i.status, i.created_at,
		       t.id, t.name, t.description, t.sport, t.owner_id, t.is_private, t.logo, t.created_at,
		       (SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id),
		       u.id, u.name, u.avatar
		FROM team_invitations i
		JOIN teams t ON t.id = i.team_id
		JOIN users u ON u.id = i.invited_by_id
		WHERE lower(i.email) = lower($1) AND i.status = 'pending'
		ORDER BY i.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]*models.Invitation, 0)
	for rows.Next() {
		invitation := &models.Invitation{}
		team := &models.Team{}
		inviter := &models.User{}
		if scanErr := rows.Scan(
			&invitation.ID,
			&invitation.TeamID,
			&invitation.Email,
			&invitation.InvitedByID,
			&invitation.Status,
			&invitation.CreatedAt,
			&team.ID,
			&team.Name,
			&team.Description,
			&team.Sport,
			&team.OwnerID,
			&team.IsPrivate,
			&team.Logo,
			&team.CreatedAt,
			&team.MemberCount,
			&inviter.ID,
			&inviter.Name,
			&inviter.Avatar,
		); scanErr != nil {
			return nil, scanErr
		}
		invitation.Team = team
		invitation.InvitedBy = inviter
		invitations = append(invitations, invitation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *postgresInvitationRepository) UpdateStatus(ctx context.Context, id int, status models.InvitationStatus) error {
	query := `
		UPDATE team_invitations
		SET status = $1
		WHERE id = $2 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInvitationNotFound)
}
