package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
)

type CreateNewsInput struct {
	Title         string              `json:"title"`
	Content       string              `json:"content"`
	Summary       string              `json:"summary"`
	Category      models.NewsCategory `json:"category"`
	Tags          []string            `json:"tags"`
	FeaturedImage string              `json:"featured_image"`
	IsFeatured    bool                `json:"is_featured"`
}

type ListNewsInput struct {
	Category     models.NewsCategory
	FeaturedOnly bool
	Page         models.Pagination
}

type NewsService interface {
	Create(ctx context.Context, authorID int, input CreateNewsInput) (*models.News, error)
	// List возвращает только опубликованные материалы: закреплённые первыми,
	// далее по убыванию даты.
	List(ctx context.Context, input ListNewsInput) ([]*models.News, models.PageInfo, error)
	// Get отдаёт опубликованную новость с комментариями и увеличивает счётчик
	// просмотров.
	Get(ctx context.Context, newsID int) (*models.News, error)
	ToggleLike(ctx context.Context, actorID, newsID int) (bool, error)
	AddComment(ctx context.Context, actorID, newsID int, content string) (*models.NewsComment, error)
}

type newsService struct {
	newsRepo repositories.NewsRepository
	userRepo repositories.UserRepository
}

func NewNewsService(newsRepo repositories.NewsRepository, userRepo repositories.UserRepository) NewsService {
	return &newsService{newsRepo: newsRepo, userRepo: userRepo}
}

func (s *newsService) Create(ctx context.Context, authorID int, input CreateNewsInput) (*models.News, error) {
	if input.Title == "" || input.Content == "" || input.Summary == "" || input.Category == "" {
		return nil, fmt.Errorf("%w: title, content, summary and category are required", ErrValidationFailed)
	}
	if !input.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNewsCategory, input.Category)
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", authorID, err)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	news := &models.News{
		Title:         input.Title,
		Content:       input.Content,
		Summary:       input.Summary,
		AuthorID:      author.ID,
		Category:      input.Category,
		Tags:          tags,
		FeaturedImage: input.FeaturedImage,
		IsPublished:   true,
		IsFeatured:    input.IsFeatured,
	}

	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, fmt.Errorf("failed to create news: %w", err)
	}
	news.Author = author
	return news, nil
}

func (s *newsService) List(ctx context.Context, input ListNewsInput) ([]*models.News, models.PageInfo, error) {
	if input.Category != "" && !input.Category.Valid() {
		return nil, models.PageInfo{}, fmt.Errorf("%w: %q", ErrInvalidNewsCategory, input.Category)
	}
	page := input.Page.Normalize()

	filter := repositories.NewsFilter{
		Category:     input.Category,
		FeaturedOnly: input.FeaturedOnly,
	}

	items, total, err := s.newsRepo.List(ctx, filter, page)
	if err != nil {
		return nil, models.PageInfo{}, fmt.Errorf("failed to list news: %w", err)
	}
	return items, models.NewPageInfo(page, total), nil
}

func (s *newsService) Get(ctx context.Context, newsID int) (*models.News, error) {
	news, err := s.newsRepo.GetByID(ctx, newsID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to get news %d: %w", newsID, err)
	}
	// Неопубликованные материалы наружу не отдаются.
	if !news.IsPublished {
		return nil, ErrNewsNotFound
	}

	if err := s.newsRepo.IncrementViews(ctx, newsID); err == nil {
		news.Views++
	}

	comments, err := s.newsRepo.ListComments(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of news %d: %w", newsID, err)
	}
	news.Comments = comments
	return news, nil
}

func (s *newsService) ToggleLike(ctx context.Context, actorID, newsID int) (bool, error) {
	liked, err := s.newsRepo.ToggleLike(ctx, newsID, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return false, ErrNewsNotFound
		}
		return false, fmt.Errorf("failed to toggle like on news %d: %w", newsID, err)
	}
	return liked, nil
}

func (s *newsService) AddComment(ctx context.Context, actorID, newsID int, content string) (*models.NewsComment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrValidationFailed)
	}

	comment := &models.NewsComment{
		NewsID:  newsID,
		UserID:  actorID,
		Content: content,
	}
	if err := s.newsRepo.AddComment(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to add comment to news %d: %w", newsID, err)
	}
	return comment, nil
}
