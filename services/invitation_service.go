package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
	"github.com/sportshub/sports-community/utils"
)

// InviteAction - ответ пользователя на приглашение.
type InviteAction string

const (
	ActionAccept  InviteAction = "accept"
	ActionDecline InviteAction = "decline"
)

// MyInvitation - приглашение текущего пользователя вместе с краткой
// информацией о команде для списка «мои приглашения».
type MyInvitation struct {
	ID        int          `json:"id"`
	Team      TeamSummary  `json:"team"`
	InvitedBy *models.User `json:"invited_by,omitempty"`
	InvitedAt time.Time    `json:"invited_at"`
}

type TeamSummary struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Sport        models.Sport `json:"sport"`
	Logo         string       `json:"logo"`
	OwnerID      int          `json:"owner_id"`
	MembersCount int          `json:"members_count"`
}

type InvitationService interface {
	// Invite выдаёт pending-приглашение. Требует роли owner или admin.
	Invite(ctx context.Context, actorID, teamID int, email string) (*models.Invitation, error)

	// ListTeamInvitations возвращает приглашения команды всех статусов.
	// Требует роли owner или admin.
	ListTeamInvitations(ctx context.Context, actorID, teamID int) ([]*models.Invitation, error)

	// ListMyInvitations - кросс-командный список ожидающих приглашений,
	// адресованных email текущего пользователя.
	ListMyInvitations(ctx context.Context, actorID int) ([]MyInvitation, error)

	// Respond принимает или отклоняет приглашение, найденное по email
	// текущего пользователя.
	Respond(ctx context.Context, actorID, teamID int, action InviteAction) (*models.Team, error)

	// RespondByID - то же, но по идентификатору приглашения. Оставлено как
	// выход для случая смены email после выдачи приглашения.
	RespondByID(ctx context.Context, actorID, invitationID int, action InviteAction) (*models.Team, error)
}

type invitationService struct {
	invitationRepo repositories.InvitationRepository
	teamRepo       repositories.TeamRepository
	userRepo       repositories.UserRepository
}

func NewInvitationService(
	invitationRepo repositories.InvitationRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
	}
}

// requireManager проверяет, что actor состоит в команде с ролью owner или admin.
func (s *invitationService) requireManager(ctx context.Context, teamID, actorID int) error {
	member, err := s.teamRepo.GetMember(ctx, teamID, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return ErrManagerRoleRequired
		}
		return fmt.Errorf("failed to get member %d of team %d: %w", actorID, teamID, err)
	}
	if !member.Role.CanManage() {
		return ErrManagerRoleRequired
	}
	return nil
}

func (s *invitationService) Invite(ctx context.Context, actorID, teamID int, email string) (*models.Invitation, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: malformed email", ErrValidationFailed)
	}

	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	if err := s.requireManager(ctx, teamID, actorID); err != nil {
		return nil, err
	}

	_, err := s.invitationRepo.GetPendingByTeamAndEmail(ctx, teamID, email)
	if err == nil {
		return nil, ErrAlreadyInvited
	}
	if !errors.Is(err, repositories.ErrInvitationNotFound) {
		return nil, fmt.Errorf("failed to check pending invitation: %w", err)
	}

	// Если email уже принадлежит участнику команды - конфликт.
	invited, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if invited != nil {
		_, err = s.teamRepo.GetMember(ctx, teamID, invited.ID)
		if err == nil {
			return nil, ErrAlreadyTeamMember
		}
		if !errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
	}

	invitation := &models.Invitation{
		TeamID:      teamID,
		Email:       email,
		InvitedByID: actorID,
		Status:      models.InvitationPending,
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		// Частичный уникальный индекс закрывает гонку двух одновременных Invite.
		if errors.Is(err, repositories.ErrInvitationPendingConflict) {
			return nil, ErrAlreadyInvited
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return invitation, nil
}

func (s *invitationService) ListTeamInvitations(ctx context.Context, actorID, teamID int) ([]*models.Invitation, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	if err := s.requireManager(ctx, teamID, actorID); err != nil {
		return nil, err
	}

	invitations, err := s.invitationRepo.ListByTeamID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations of team %d: %w", teamID, err)
	}
	return invitations, nil
}

func (s *invitationService) ListMyInvitations(ctx context.Context, actorID int) ([]MyInvitation, error) {
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", actorID, err)
	}

	// Приглашения адресуются email; без него совпадений быть не может.
	if user.Email == nil || *user.Email == "" {
		return []MyInvitation{}, nil
	}

	invitations, err := s.invitationRepo.ListPendingByEmail(ctx, *user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations for %s: %w", *user.Email, err)
	}

	result := make([]MyInvitation, 0, len(invitations))
	for _, invitation := range invitations {
		item := MyInvitation{
			ID:        invitation.ID,
			InvitedBy: invitation.InvitedBy,
			InvitedAt: invitation.CreatedAt,
		}
		if invitation.Team != nil {
			item.Team = TeamSummary{
				ID:           invitation.Team.ID,
				Name:         invitation.Team.Name,
				Description:  invitation.Team.Description,
				Sport:        invitation.Team.Sport,
				Logo:         invitation.Team.Logo,
				OwnerID:      invitation.Team.OwnerID,
				MembersCount: invitation.Team.MemberCount,
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *invitationService) Respond(ctx context.Context, actorID, teamID int, action InviteAction) (*models.Team, error) {
	if action != ActionAccept && action != ActionDecline {
		return nil, ErrInvalidAction
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", actorID, err)
	}

	// Сопоставление строго по текущему email пользователя.
	if user.Email == nil || *user.Email == "" {
		return nil, ErrInvitationNotFound
	}

	invitation, err := s.invitationRepo.GetPendingByTeamAndEmail(ctx, teamID, *user.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find pending invitation: %w", err)
	}

	return s.resolve(ctx, team, user, invitation, action)
}

func (s *invitationService) RespondByID(ctx context.Context, actorID, invitationID int, action InviteAction) (*models.Team, error) {
	if action != ActionAccept && action != ActionDecline {
		return nil, ErrInvalidAction
	}

	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get invitation %d: %w", invitationID, err)
	}
	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationNotFound
	}

	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", actorID, err)
	}

	// Чужое приглашение принять нельзя.
	if user.Email == nil || !strings.EqualFold(*user.Email, invitation.Email) {
		return nil, ErrForbiddenOperation
	}

	team, err := s.teamRepo.GetByID(ctx, invitation.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", invitation.TeamID, err)
	}

	return s.resolve(ctx, team, user, invitation, action)
}

func (s *invitationService) resolve(ctx context.Context, team *models.Team, user *models.User, invitation *models.Invitation, action InviteAction) (*models.Team, error) {
	if action == ActionDecline {
		if err := s.invitationRepo.UpdateStatus(ctx, invitation.ID, models.InvitationDeclined); err != nil {
			if errors.Is(err, repositories.ErrInvitationNotFound) {
				return nil, ErrInvitationNotFound
			}
			return nil, fmt.Errorf("failed to decline invitation %d: %w", invitation.ID, err)
		}
		return nil, nil
	}

	member := &models.TeamMember{
		TeamID: team.ID,
		UserID: user.ID,
		Role:   models.RoleMember,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		// Повтор или гонка: пользователь уже в составе. Статус всё равно
		// переводим в accepted, состав не трогаем.
		if !errors.Is(err, repositories.ErrTeamMemberConflict) {
			return nil, fmt.Errorf("failed to add member to team %d: %w", team.ID, err)
		}
	}

	if err := s.invitationRepo.UpdateStatus(ctx, invitation.ID, models.InvitationAccepted); err != nil {
		if errors.Is(err, repositories.ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to accept invitation %d: %w", invitation.ID, err)
	}

	members, err := s.teamRepo.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", team.ID, err)
	}
	team.Members = members
	team.MemberCount = len(members)
	return team, nil
}
