package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
	"github.com/sportshub/sports-community/storage"
)

type UploadMediaInput struct {
	Data         []byte
	OriginalName string
	MimeType     string
	TeamID       *int
	Description  string
	Tags         []string
	IsPublic     bool
}

type MediaService interface {
	// Upload валидирует тип файла, прогоняет изображения через нормализацию,
	// отправляет содержимое во внешнее хранилище и только после успешной
	// загрузки создаёт запись Media.
	Upload(ctx context.Context, actorID int, input UploadMediaInput) (*models.Media, error)
	ListByOwner(ctx context.Context, actorID int) ([]*models.Media, error)
}

type mediaService struct {
	mediaRepo repositories.MediaRepository
	teamRepo  repositories.TeamRepository
	uploader  storage.FileUploader
}

func NewMediaService(
	mediaRepo repositories.MediaRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) MediaService {
	return &mediaService{
		mediaRepo: mediaRepo,
		teamRepo:  teamRepo,
		uploader:  uploader,
	}
}

func (s *mediaService) Upload(ctx context.Context, actorID int, input UploadMediaInput) (*models.Media, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: no file provided", ErrValidationFailed)
	}

	isImage := strings.HasPrefix(input.MimeType, "image/")
	isVideo := strings.HasPrefix(input.MimeType, "video/")
	if !isImage && !isVideo {
		return nil, ErrUnsupportedMediaType
	}

	if input.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *input.TeamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to get team %d: %w", *input.TeamID, err)
		}
	}

	data := input.Data
	contentType := input.MimeType
	mediaType := models.MediaVideo
	if isImage {
		mediaType = models.MediaImage
		// Видео уходит как есть, изображения приводятся к ограниченному
		// размеру и перекодируются.
		normalized, err := storage.NormalizeImage(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		data = normalized.Data
		contentType = normalized.ContentType
	}

	folder := fmt.Sprintf("users/%d", actorID)
	if input.TeamID != nil {
		folder = fmt.Sprintf("teams/%d", *input.TeamID)
	}
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), extensionForContentType(contentType))

	result, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	media := &models.Media{
		Filename:     result.Key,
		OriginalName: input.OriginalName,
		MimeType:     contentType,
		Size:         int64(len(data)),
		URL:          result.Location,
		StorageKey:   result.Key,
		UploadedByID: actorID,
		TeamID:       input.TeamID,
		Type:         mediaType,
		Description:  input.Description,
		Tags:         tags,
		IsPublic:     input.IsPublic,
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		// Запись не создана - убираем осиротевший объект из хранилища.
		_ = s.uploader.Delete(ctx, result.Key)
		return nil, fmt.Errorf("failed to persist media record: %w", err)
	}
	return media, nil
}

func (s *mediaService) ListByOwner(ctx context.Context, actorID int) ([]*models.Media, error) {
	items, err := s.mediaRepo.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media of user %d: %w", actorID, err)
	}
	return items, nil
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0]
		}
		return ""
	}
}
