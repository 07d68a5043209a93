package services

import (
	"context"
	"testing"

	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
	"github.com/stretchr/testify/require"
)

func managerTeamRepo(teamID, managerID int, role models.TeamRole) *fakeTeamRepo {
	return &fakeTeamRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Team, error) {
			if id == teamID {
				return &models.Team{ID: teamID, Name: "Thunder", OwnerID: managerID}, nil
			}
			return nil, repositories.ErrTeamNotFound
		},
		getMemberFn: func(_ context.Context, tID, userID int) (*models.TeamMember, error) {
			if tID == teamID && userID == managerID {
				return &models.TeamMember{TeamID: teamID, UserID: managerID, Role: role}, nil
			}
			return nil, repositories.ErrTeamMemberNotFound
		},
	}
}

func TestInviteRequiresManagerRole(t *testing.T) {
	teamRepo := managerTeamRepo(1, 10, models.RoleMember)
	svc := NewInvitationService(&fakeInvitationRepo{}, teamRepo, &fakeUserRepo{})

	// Рядовой участник.
	_, err := svc.Invite(context.Background(), 10, 1, "bob@example.com")
	require.ErrorIs(t, err, ErrManagerRoleRequired)

	// Посторонний пользователь.
	_, err = svc.Invite(context.Background(), 77, 1, "bob@example.com")
	require.ErrorIs(t, err, ErrManagerRoleRequired)
}

func TestInviteDuplicatePending(t *testing.T) {
	teamRepo := managerTeamRepo(1, 10, models.RoleOwner)
	inviteRepo := &fakeInvitationRepo{
		getPendingByTeamAndEmailFn: func(_ context.Context, teamID int, email string) (*models.Invitation, error) {
			return &models.Invitation{ID: 5, TeamID: teamID, Email: email, Status: models.InvitationPending}, nil
		},
	}
	svc := NewInvitationService(inviteRepo, teamRepo, &fakeUserRepo{})

	_, err := svc.Invite(context.Background(), 10, 1, "bob@example.com")
	require.ErrorIs(t, err, ErrAlreadyInvited)
}

func TestInviteRaceMapsToAlreadyInvited(t *testing.T) {
	teamRepo := managerTeamRepo(1, 10, models.RoleOwner)
	inviteRepo := &fakeInvitationRepo{
		createFn: func(_ context.Context, _ *models.Invitation) error {
			return repositories.ErrInvitationPendingConflict
		},
	}
	svc := NewInvitationService(inviteRepo, teamRepo, &fakeUserRepo{})

	_, err := svc.Invite(context.Background(), 10, 1, "bob@example.com")
	require.ErrorIs(t, err, ErrAlreadyInvited)
}

func TestInviteExistingMember(t *testing.T) {
	bob := &models.User{ID: 20, Name: "Bob", Email: strPtr("bob@example.com")}
	teamRepo := managerTeamRepo(1, 10, models.RoleAdmin)
	baseGetMember := teamRepo.getMemberFn
	teamRepo.getMemberFn = func(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
		if teamID == 1 && userID == bob.ID {
			return &models.TeamMember{TeamID: 1, UserID: bob.ID, Role: models.RoleMember}, nil
		}
		return baseGetMember(ctx, teamID, userID)
	}
	userRepo := &fakeUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if email == "bob@example.com" {
				return bob, nil
			}
			return nil, repositories.ErrUserNotFound
		},
	}
	svc := NewInvitationService(&fakeInvitationRepo{}, teamRepo, userRepo)

	_, err := svc.Invite(context.Background(), 10, 1, "bob@example.com")
	require.ErrorIs(t, err, ErrAlreadyTeamMember)
}

func TestInviteSuccess(t *testing.T) {
	teamRepo := managerTeamRepo(1, 10, models.RoleOwner)
	var created *models.Invitation
	inviteRepo := &fakeInvitationRepo{
		createFn: func(_ context.Context, invitation *models.Invitation) error {
			invitation.ID = 33
			created = invitation
			return nil
		},
	}
	svc := NewInvitationService(inviteRepo, teamRepo, &fakeUserRepo{})

	invitation, err := svc.Invite(context.Background(), 10, 1, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, 33, invitation.ID)
	require.Equal(t, models.InvitationPending, created.Status)
	require.Equal(t, 10, created.InvitedByID)
	require.Equal(t, "bob@example.com", created.Email)
}

func TestListMyInvitationsWithoutEmail(t *testing.T) {
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Name: "WX", WechatOpenID: strPtr("openid-1")}, nil
		},
	}
	svc := NewInvitationService(&fakeInvitationRepo{}, &fakeTeamRepo{}, userRepo)

	items, err := svc.ListMyInvitations(context.Background(), 4)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestListMyInvitationsBuildsTeamSummary(t *testing.T) {
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Email: strPtr("bob@example.com")}, nil
		},
	}
	inviteRepo := &fakeInvitationRepo{
		listPendingByEmailFn: func(_ context.Context, email string) ([]*models.Invitation, error) {
			require.Equal(t, "bob@example.com", email)
			return []*models.Invitation{
				{
					ID:     1,
					TeamID: 9,
					Email:  email,
					Status: models.InvitationPending,
					Team:   &models.Team{ID: 9, Name: "Thunder", Sport: models.SportFootball, OwnerID: 10, MemberCount: 3},
				},
			}, nil
		},
	}
	svc := NewInvitationService(inviteRepo, &fakeTeamRepo{}, userRepo)

	items, err := svc.ListMyInvitations(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Thunder", items[0].Team.Name)
	require.Equal(t, 3, items[0].Team.MembersCount)
}

func TestRespondAcceptAddsMemberOnce(t *testing.T) {
	bob := &models.User{ID: 20, Name: "Bob", Email: strPtr("bob@example.com")}
	var added []*models.TeamMember
	var statuses []models.InvitationStatus

	teamRepo := &fakeTeamRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, Name: "Thunder", OwnerID: 10}, nil
		},
		addMemberFn: func(_ context.Context, member *models.TeamMember) error {
			added = append(added, member)
			return nil
		},
		listMembersFn: func(_ context.Context, teamID int) ([]models.TeamMember, error) {
			return []models.TeamMember{
				{TeamID: teamID, UserID: 10, Role: models.RoleOwner},
				{TeamID: teamID, UserID: 20, Role: models.RoleMember},
			}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id int) (*models.User, error) {
			if id == bob.ID {
				return bob, nil
			}
			return nil, repositories.ErrUserNotFound
		},
	}
	inviteRepo := &fakeInvitationRepo{
		getPendingByTeamAndEmailFn: func(_ context.Context, teamID int, email string) (*models.Invitation, error) {
			return &models.Invitation{ID: 6, TeamID: teamID, Email: email, Status: models.InvitationPending}, nil
		},
		updateStatusFn: func(_ context.Context, _ int, status models.InvitationStatus) error {
			statuses = append(statuses, status)
			return nil
		},
	}
	svc := NewInvitationService(inviteRepo, teamRepo, userRepo)

	team, err := svc.Respond(context.Background(), bob.ID, 9, ActionAccept)
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Equal(t, models.RoleMember, added[0].Role)
	require.Equal(t, []models.InvitationStatus{models.InvitationAccepted}, statuses)
	require.Equal(t, 2, team.MemberCount)
}

func TestRespondAcceptIdempotentWhenAlreadyMember(t *testing.T) {
	bob := &models.User{ID: 20, Email: strPtr("bob@example.com")}
	teamRepo := &fakeTeamRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, OwnerID: 10}, nil
		},
		addMemberFn: func(_ context.Context, _ *models.TeamMember) error {
			return repositories.ErrTeamMemberConflict
		},
		listMembersFn: func(_ context.Context, teamID int) ([]models.TeamMember, error) {
			return []models.TeamMember{
				{TeamID: teamID, UserID: 10, Role: models.RoleOwner},
				{TeamID: teamID, UserID: 20, Role: models.RoleMember},
			}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, _ int) (*models.User, error) { return bob, nil },
	}
	var accepted bool
	inviteRepo := &fakeInvitationRepo{
		getPendingByTeamAndEmailFn: func(_ context.Context, teamID int, email string) (*models.Invitation, error) {
			return &models.Invitation{ID: 6, TeamID: teamID, Email: email, Status: models.InvitationPending}, nil
		},
		updateStatusFn: func(_ context.Context, _ int, status models.InvitationStatus) error {
			accepted = status == models.InvitationAccepted
			return nil
		},
	}
	svc := NewInvitationService(inviteRepo, teamRepo, userRepo)

	team, err := svc.Respond(context.Background(), bob.ID, 9, ActionAccept)
	require.NoError(t, err)
	require.True(t, accepted)
	require.Equal(t, 2, team.MemberCount)
}

func TestRespondDeclineDoesNotTouchRoster(t *testing.T) {
	bob := &models.User{ID: 20, Email: strPtr("bob@example.com")}
	teamRepo := &fakeTeamRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, OwnerID: 10}, nil
		},
		addMemberFn: func(_ context.Context, _ *models.TeamMember) error {
			t.Fatal("decline must not add members")
			return nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, _ int) (*models.User, error) { return bob, nil },
	}
	var status models.InvitationStatus
	inviteRepo := &fakeInvitationRepo{
		getPendingByTeamAndEmailFn: func(_ context.Context, teamID int, email string) (*models.Invitation, error) {
			return &models.Invitation{ID: 6, TeamID: teamID, Email: email, Status: models.InvitationPending}, nil
		},
		updateStatusFn: func(_ context.Context, _ int, s models.InvitationStatus) error {
			status = s
			return nil
		},
	}
	svc := NewInvitationService(inviteRepo, teamRepo, userRepo)

	team, err := svc.Respond(context.Background(), bob.ID, 9, ActionDecline)
	require.NoError(t, err)
	require.Nil(t, team)
	require.Equal(t, models.InvitationDeclined, status)
}

func TestRespondWithoutMatchingInvitation(t *testing.T) {
	teamRepo := &fakeTeamRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, OwnerID: 10}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Email: strPtr("nobody@example.com")}, nil
		},
	}
	svc := NewInvitationService(&fakeInvitationRepo{}, teamRepo, userRepo)

	_, err := svc.Respond(context.Background(), 20, 9, ActionAccept)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestRespondInvalidAction(t *testing.T) {
	svc := NewInvitationService(&fakeInvitationRepo{}, &fakeTeamRepo{}, &fakeUserRepo{})

	_, err := svc.Respond(context.Background(), 20, 9, "maybe")
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestRespondByIDForeignInvitation(t *testing.T) {
	inviteRepo := &fakeInvitationRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Invitation, error) {
			return &models.Invitation{ID: id, TeamID: 9, Email: "carol@example.com", Status: models.InvitationPending}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Email: strPtr("bob@example.com")}, nil
		},
	}
	svc := NewInvitationService(inviteRepo, &fakeTeamRepo{}, userRepo)

	_, err := svc.RespondByID(context.Background(), 20, 6, ActionAccept)
	require.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestRespondByIDCaseInsensitiveEmailMatch(t *testing.T) {
	teamRepo := &fakeTeamRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, OwnerID: 10}, nil
		},
		listMembersFn: func(_ context.Context, teamID int) ([]models.TeamMember, error) {
			return []models.TeamMember{{TeamID: teamID, UserID: 20, Role: models.RoleMember}}, nil
		},
	}
	inviteRepo := &fakeInvitationRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Invitation, error) {
			return &models.Invitation{ID: id, TeamID: 9, Email: "Bob@Example.com", Status: models.InvitationPending}, nil
		},
	}
	userRepo := &fakeUserRepo{
		getByIDFn: func(_ context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, Email: strPtr("bob@example.com")}, nil
		},
	}
	svc := NewInvitationService(inviteRepo, teamRepo, userRepo)

	team, err := svc.RespondByID(context.Background(), 20, 6, ActionAccept)
	require.NoError(t, err)
	require.Equal(t, 9, team.ID)
}

func TestRespondByIDAlreadyResolved(t *testing.T) {
	inviteRepo := &fakeInvitationRepo{
		getByIDFn: func(_ context.Context, id int) (*models.Invitation, error) {
			return &models.Invitation{ID: id, TeamID: 9, Email: "bob@example.com", Status: models.InvitationDeclined}, nil
		},
	}
	svc := NewInvitationService(inviteRepo, &fakeTeamRepo{}, &fakeUserRepo{})

	_, err := svc.RespondByID(context.Background(), 20, 6, ActionAccept)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}
