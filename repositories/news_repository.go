package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sportshub/sports-community/models"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNewsNotFound       = errors.New("news not found")
	ErrNewsAuthorInvalid  = errors.New("news author conflict or invalid")
	ErrCommentUserInvalid = errors.New("comment user conflict or invalid")
)

// NewsFilter описывает фильтры ленты новостей. Лента всегда ограничена
// опубликованными материалами.
type NewsFilter struct {
	Category     models.NewsCategory
	FeaturedOnly bool
}

type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	GetByID(ctx context.Context, id int) (*models.News, error)
	List(ctx context.Context, filter NewsFilter, page models.Pagination) ([]*models.News, int, error)
	IncrementViews(ctx context.Context, id int) error
	// ToggleLike добавляет или снимает отметку пользователя. Возвращает true,
	// если после вызова отметка стоит.
	ToggleLike(ctx context.Context, newsID, userID int) (bool, error)
	AddComment(ctx context.Context, comment *models.NewsComment) error
	ListComments(ctx context.Context, newsID int) ([]models.NewsComment, error)
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

func (r *postgresNewsRepository) Create(ctx context.Context, news *models.News) error {
	query := `
		INSERT INTO news (title, content, summary, author_id, category, tags, featured_image, is_published, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, views, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		news.Title,
		news.Content,
		news.Summary,
		news.AuthorID,
		news.Category,
		pq.Array(news.Tags),
		news.FeaturedImage,
		news.IsPublished,
		news.IsFeatured,
	).Scan(&news.ID, &news.Views, &news.CreatedAt, &news.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "news_author_id_fkey" {
				return ErrNewsAuthorInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id int) (*models.News, error) {
	query := `
		SELECT n.id, n.title, n.content, n.summary, n.author_id, n.category, n.tags,
		       n.featured_image, n.views, n.is_published, n.is_featured, n.created_at, n.updated_at,
		       u.id, u.name, u.avatar,
		       (SELECT COUNT(*) FROM news_likes l WHERE l.news_id = n.id)
		FROM news n
		JOIN users u ON u.id = n.author_id
		WHERE n.id = $1`

	news := &models.News{}
	author := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&news.ID,
		&news.Title,
		&news.Content,
		&news.Summary,
		&news.AuthorID,
		&news.Category,
		pq.Array(&news.Tags),
		&news.FeaturedImage,
		&news.Views,
		&news.IsPublished,
		&news.IsFeatured,
		&news.CreatedAt,
		&news.UpdatedAt,
		&author.ID,
		&author.Name,
		&author.Avatar,
		&news.LikeCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	news.Author = author
	return news, nil
}

// List возвращает страницу опубликованных новостей: закреплённые первыми,
// внутри групп - новые первыми.
func (r *postgresNewsRepository) List(ctx context.Context, filter NewsFilter, page models.Pagination) ([]*models.News, int, error) {
	where := `WHERE n.is_published = TRUE`
	args := make([]interface{}, 0, 3)

	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND n.category = $%d", len(args))
	}
	if filter.FeaturedOnly {
		where += ` AND n.is_featured = TRUE`
	}

	listQuery := `
		SELECT n.id, n.title, n.content, n.summary, n.author_id, n.category, n.tags,
		       n.featured_image, n.views, n.is_published, n.is_featured, n.created_at, n.updated_at,
		       u.id, u.name, u.avatar
		FROM news n
		JOIN users u ON u.id = n.author_id ` + where +
		fmt.Sprintf(" ORDER BY n.is_featured DESC, n.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	countQuery := `SELECT COUNT(*) FROM news n ` + where

	var (
		items []*models.News
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listArgs := append(append([]interface{}{}, args...), page.Limit, page.Offset())
		rows, err := r.db.QueryContext(gctx, listQuery, listArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]*models.News, 0)
		for rows.Next() {
			news := &models.News{}
			author := &models.User{}
			if scanErr := rows.Scan(
				&news.ID,
				&news.Title,
				&news.Content,
				&news.Summary,
				&news.AuthorID,
				&news.Category,
				pq.Array(&news.Tags),
				&news.FeaturedImage,
				&news.Views,
				&news.IsPublished,
				&news.IsFeatured,
				&news.CreatedAt,
				&news.UpdatedAt,
				&author.ID,
				&author.Name,
				&author.Avatar,
			); scanErr != nil {
				return scanErr
			}
			news.Author = author
			items = append(items, news)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx, countQuery, args...).Scan(&total)
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *postgresNewsRepository) IncrementViews(ctx context.Context, id int) error {
	query := `UPDATE news SET views = views + 1 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) ToggleLike(ctx context.Context, newsID, userID int) (bool, error) {
	insert := `
		INSERT INTO news_likes (news_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (news_id, user_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, insert, newsID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "news_likes_news_id_fkey" {
				return false, ErrNewsNotFound
			}
		}
		return false, err
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted > 0 {
		return true, nil
	}

	// Отметка уже стояла - снимаем.
	_, err = r.db.ExecContext(ctx, `DELETE FROM news_likes WHERE news_id = $1 AND user_id = $2`, newsID, userID)
	if err != nil {
		return true, err
	}
	return false, nil
}

func (r *postgresNewsRepository) AddComment(ctx context.Context, comment *models.NewsComment) error {
	query := `
		INSERT INTO news_comments (news_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.NewsID,
		comment.UserID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "news_comments_news_id_fkey":
				return ErrNewsNotFound
			case "news_comments_user_id_fkey":
				return ErrCommentUserInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresNewsRepository) ListComments(ctx context.Context, newsID int) ([]models.NewsComment, error) {
	query := `
		SELECT c.id, c.news_id, c.user_id, c.content, c.created_at, u.id, u.name, u.avatar
		FROM news_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.news_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, newsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]models.NewsComment, 0)
	for rows.Next() {
		var comment models.NewsComment
		user := &models.User{}
		if scanErr := rows.Scan(
			&comment.ID,
			&comment.NewsID,
			&comment.UserID,
			&comment.Content,
			&comment.CreatedAt,
			&user.ID,
			&user.Name,
			&user.Avatar,
		); scanErr != nil {
			return nil, scanErr
		}
		comment.User = user
		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}
