package handlers

import (
	"net/http"

	"github.com/sportshub/sports-community/middleware"
	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/services"
)

type NewsHandler struct {
	newsService services.NewsService
}

func NewNewsHandler(ns services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: ns}
}

func (h *NewsHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var input services.CreateNewsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	news, err := h.newsService.Create(r.Context(), currentUserID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"news": news,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := services.ListNewsInput{
		Category:     models.NewsCategory(query.Get("category")),
		FeaturedOnly: query.Get("featured") == "true",
		Page: models.Pagination{
			Page:  queryInt(r, "page", 1),
			Limit: queryInt(r, "limit", 10),
		},
	}
	if input.Category == "all" {
		input.Category = ""
	}

	items, pageInfo, err := h.newsService.List(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"news":       items,
		"pagination": pageInfo,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) GetNewsByID(w http.ResponseWriter, r *http.Request) {
	newsID, err := getIDFromURL(r, "newsID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	news, err := h.newsService.Get(r.Context(), newsID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"news": news,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	newsID, err := getIDFromURL(r, "newsID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	liked, err := h.newsService.ToggleLike(r.Context(), currentUserID, newsID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"liked": liked,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	newsID, err := getIDFromURL(r, "newsID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	comment, err := h.newsService.AddComment(r.Context(), currentUserID, newsID, input.Content)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"comment": comment,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
