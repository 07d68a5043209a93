package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
	"github.com/sportshub/sports-community/storage"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	mediaRepo := &fakeMediaRepo{
		createFn: func(_ context.Context, _ *models.Media) error {
			t.Fatal("record must not be created for rejected upload")
			return nil
		},
	}
	svc := NewMediaService(mediaRepo, &fakeTeamRepo{}, &fakeUploader{})

	_, err := svc.Upload(context.Background(), 1, UploadMediaInput{
		Data:         []byte("plain text"),
		OriginalName: "notes.txt",
		MimeType:     "text/plain",
	})
	require.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc := NewMediaService(&fakeMediaRepo{}, &fakeTeamRepo{}, &fakeUploader{})

	_, err := svc.Upload(context.Background(), 1, UploadMediaInput{MimeType: "image/png"})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestUploadUnknownTeam(t *testing.T) {
	teamID := 404
	svc := NewMediaService(&fakeMediaRepo{}, &fakeTeamRepo{}, &fakeUploader{})

	_, err := svc.Upload(context.Background(), 1, UploadMediaInput{
		Data:     pngBytes(t, 8, 8),
		MimeType: "image/png",
		TeamID:   &teamID,
	})
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestUploadStorageFailureLeavesNoRecord(t *testing.T) {
	mediaRepo := &fakeMediaRepo{
		createFn: func(_ context.Context, _ *models.Media) error {
			t.Fatal("record must not be created when storage upload fails")
			return nil
		},
	}
	uploader := &fakeUploader{
		uploadFn: func(_ context.Context, _, _ string, _ io.Reader) (*storage.UploadResult, error) {
			return nil, errors.New("bucket unavailable")
		},
	}
	svc := NewMediaService(mediaRepo, &fakeTeamRepo{}, uploader)

	_, err := svc.Upload(context.Background(), 1, UploadMediaInput{
		Data:         pngBytes(t, 8, 8),
		OriginalName: "logo.png",
		MimeType:     "image/png",
	})
	require.ErrorIs(t, err, ErrUploadFailed)
}

func TestUploadRepoFailureCleansUpObject(t *testing.T) {
	mediaRepo := &fakeMediaRepo{
		createFn: func(_ context.Context, _ *models.Media) error {
			return errors.New("insert failed")
		},
	}
	uploader := &fakeUploader{}
	svc := NewMediaService(mediaRepo, &fakeTeamRepo{}, uploader)

	_, err := svc.Upload(context.Background(), 1, UploadMediaInput{
		Data:         pngBytes(t, 8, 8),
		OriginalName: "logo.png",
		MimeType:     "image/png",
	})
	require.Error(t, err)
	require.Len(t, uploader.deleted, 1)
}

func TestUploadImageNormalizedAndKeyed(t *testing.T) {
	var created *models.Media
	mediaRepo := &fakeMediaRepo{
		createFn: func(_ context.Context, media *models.Media) error {
			media.ID = 9
			created = media
			return nil
		},
	}
	var uploadedKey, uploadedType string
	uploader := &fakeUploader{
		uploadFn: func(_ context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
			uploadedKey = key
			uploadedType = contentType
			if _, err := io.Copy(io.Discard, reader); err != nil {
				return nil, err
			}
			return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
		},
	}
	svc := NewMediaService(mediaRepo, &fakeTeamRepo{}, uploader)

	media, err := svc.Upload(context.Background(), 7, UploadMediaInput{
		Data:         pngBytes(t, 16, 16),
		OriginalName: "avatar.png",
		MimeType:     "image/png",
		Description:  "profile shot",
		Tags:         []string{"profile"},
		IsPublic:     true,
	})
	require.NoError(t, err)
	require.Equal(t, 9, media.ID)
	// Изображения перекодируются в JPEG при нормализации.
	require.Equal(t, "image/jpeg", uploadedType)
	require.True(t, strings.HasPrefix(uploadedKey, "users/7/"))
	require.True(t, strings.HasSuffix(uploadedKey, ".jpg"))
	require.Equal(t, models.MediaImage, created.Type)
	require.Equal(t, "https://cdn.example.com/"+uploadedKey, created.URL)
	require.Equal(t, 7, created.UploadedByID)
}

func TestUploadVideoForTeamPassedThrough(t *testing.T) {
	teamID := 3
	teamRepo := &fakeTeamRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Team, error) {
			if id == teamID {
				return &models.Team{ID: teamID}, nil
			}
			return nil, repositories.ErrTeamNotFound
		},
	}
	payload := []byte{0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70}
	var uploaded []byte
	uploader := &fakeUploader{
		uploadFn: func(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
			data, err := io.ReadAll(reader)
			if err != nil {
				return nil, err
			}
			uploaded = data
			return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
		},
	}
	svc := NewMediaService(&fakeMediaRepo{}, teamRepo, uploader)

	media, err := svc.Upload(context.Background(), 7, UploadMediaInput{
		Data:         payload,
		OriginalName: "highlight.mp4",
		MimeType:     "video/mp4",
		TeamID:       &teamID,
	})
	require.NoError(t, err)
	// Видео не перекодируется.
	require.Equal(t, payload, uploaded)
	require.Equal(t, models.MediaVideo, media.Type)
	require.True(t, strings.HasPrefix(media.StorageKey, "teams/3/"))
	require.NotNil(t, media.Tags)
}

func TestListByOwner(t *testing.T) {
	mediaRepo := &fakeMediaRepo{
		listByOwnerFn: func(_ context.Context, userID int) ([]*models.Media, error) {
			return []*models.Media{{ID: 1, UploadedByID: userID}}, nil
		},
	}
	svc := NewMediaService(mediaRepo, &fakeTeamRepo{}, &fakeUploader{})

	items, err := svc.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
