package handlers

import (
	"net/http"

	"github.com/sportshub/sports-community/middleware"
	"github.com/sportshub/sports-community/services"
)

type InviteHandler struct {
	invitationService services.InvitationService
}

func NewInviteHandler(is services.InvitationService) *InviteHandler {
	return &InviteHandler{invitationService: is}
}

func (h *InviteHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
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
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	invitation, err := h.invitationService.Invite(r.Context(), currentUserID, teamID, input.Email)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"invitation": invitation,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) ListTeamInvitations(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	invitations, err := h.invitationService.ListTeamInvitations(r.Context(), currentUserID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"invitations": invitations,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	invitations, err := h.invitationService.ListMyInvitations(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"invitations": invitations,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
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
		Action string `json:"action"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.invitationService.Respond(r.Context(), currentUserID, teamID, services.InviteAction(input.Action))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "invitation declined"
	if team != nil {
		message = "successfully joined team"
	}
	response := jsonResponse{
		"message": message,
		"team":    team,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RespondToInvitationByID отвечает на приглашение по его идентификатору.
// Запасной путь для случая, когда email пользователя сменился после выдачи
// приглашения.
func (h *InviteHandler) RespondToInvitationByID(w http.ResponseWriter, r *http.Request) {
	invitationID, err := getIDFromURL(r, "invitationID")
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
		Action string `json:"action"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.invitationService.RespondByID(r.Context(), currentUserID, invitationID, services.InviteAction(input.Action))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "invitation declined"
	if team != nil {
		message = "successfully joined team"
	}
	response := jsonResponse{
		"message": message,
		"team":    team,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
