package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
)

type CreateTeamInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Sport       models.Sport `json:"sport"`
	Logo        string       `json:"logo"`
	IsPrivate   bool         `json:"is_private"`
}

type ListTeamsInput struct {
	Sport        models.Sport
	MemberUserID int
	PublicOnly   bool
	Page         models.Pagination
}

type TeamService interface {
	Create(ctx context.Context, ownerID int, input CreateTeamInput) (*models.Team, error)
	List(ctx context.Context, input ListTeamsInput) ([]*models.Team, models.PageInfo, error)
	GetByID(ctx context.Context, teamID int) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
}

func NewTeamService(teamRepo repositories.TeamRepository, userRepo repositories.UserRepository) TeamService {
	return &teamService{teamRepo: teamRepo, userRepo: userRepo}
}

func (s *teamService) Create(ctx context.Context, ownerID int, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" || input.Description == "" || input.Sport == "" {
		return nil, fmt.Errorf("%w: name, description and sport are required", ErrValidationFailed)
	}
	if !input.Sport.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSport, input.Sport)
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", ownerID, err)
	}

	team := &models.Team{
		Name:        input.Name,
		Description: input.Description,
		Sport:       input.Sport,
		Logo:        input.Logo,
		OwnerID:     owner.ID,
		IsPrivate:   input.IsPrivate,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	team.Owner = owner
	if len(team.Members) > 0 {
		team.Members[0].User = owner
	}
	team.MemberCount = len(team.Members)
	return team, nil
}

func (s *teamService) List(ctx context.Context, input ListTeamsInput) ([]*models.Team, models.PageInfo, error) {
	if input.Sport != "" && !input.Sport.Valid() {
		return nil, models.PageInfo{}, fmt.Errorf("%w: %q", ErrInvalidSport, input.Sport)
	}
	page := input.Page.Normalize()

	filter := repositories.TeamFilter{
		Sport:        input.Sport,
		MemberUserID: input.MemberUserID,
		PublicOnly:   input.PublicOnly,
	}

	teams, total, err := s.teamRepo.List(ctx, filter, page)
	if err != nil {
		return nil, models.PageInfo{}, fmt.Errorf("failed to list teams: %w", err)
	}

	for _, team := range teams {
		members, err := s.teamRepo.ListMembers(ctx, team.ID)
		if err != nil {
			return nil, models.PageInfo{}, fmt.Errorf("failed to list members of team %d: %w", team.ID, err)
		}
		team.Members = members
		team.MemberCount = len(members)
	}

	return teams, models.NewPageInfo(page, total), nil
}

func (s *teamService) GetByID(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	members, err := s.teamRepo.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", team.ID, err)
	}
	team.Members = members
	team.MemberCount = len(members)
	return team, nil
}
