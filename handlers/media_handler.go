package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sportshub/sports-community/middleware"
	"github.com/sportshub/sports-community/services"
)

// Максимальный размер multipart-запроса при загрузке файла.
const maxUploadBytes = 64 << 20 // 64MB

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(ms services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: ms}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("no file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	input := services.UploadMediaInput{
		Data:         data,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Description:  r.FormValue("description"),
		IsPublic:     r.FormValue("isPublic") == "true",
	}

	if teamIDStr := r.FormValue("teamId"); teamIDStr != "" {
		teamID, convErr := strconv.Atoi(teamIDStr)
		if convErr != nil || teamID <= 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid teamId value: %s", teamIDStr))
			return
		}
		input.TeamID = &teamID
	}

	if tags := r.FormValue("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				input.Tags = append(input.Tags, tag)
			}
		}
	}

	media, err := h.mediaService.Upload(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "file uploaded successfully",
		"media":   media,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MediaHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	items, err := h.mediaService.ListByOwner(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"media": items,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
