package services

import (
	"context"
	"io"

	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
	"github.com/sportshub/sports-community/storage"
)

// Фейковые репозитории: каждый метод делегирует настраиваемой функции,
// невызываемые в тесте методы возвращают "not found".

type fakeUserRepo struct {
	createFn            func(ctx context.Context, user *models.User) error
	getByIDFn           func(ctx context.Context, id int) (*models.User, error)
	getByEmailFn        func(ctx context.Context, email string) (*models.User, error)
	getByWechatOpenIDFn func(ctx context.Context, openID string) (*models.User, error)
	updateFn            func(ctx context.Context, user *models.User) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByWechatOpenID(ctx context.Context, openID string) (*models.User, error) {
	if f.getByWechatOpenIDFn != nil {
		return f.getByWechatOpenIDFn(ctx, openID)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, user)
	}
	return nil
}

type fakeTeamRepo struct {
	createFn      func(ctx context.Context, team *models.Team) error
	getByIDFn     func(ctx context.Context, id int) (*models.Team, error)
	listFn        func(ctx context.Context, filter repositories.TeamFilter, page models.Pagination) ([]*models.Team, int, error)
	listMembersFn func(ctx context.Context, teamID int) ([]models.TeamMember, error)
	getMemberFn   func(ctx context.Context, teamID, userID int) (*models.TeamMember, error)
	addMemberFn   func(ctx context.Context, member *models.TeamMember) error
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	if f.createFn != nil {
		return f.createFn(ctx, team)
	}
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) List(ctx context.Context, filter repositories.TeamFilter, page models.Pagination) ([]*models.Team, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter, page)
	}
	return nil, 0, nil
}

func (f *fakeTeamRepo) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	if f.listMembersFn != nil {
		return f.listMembersFn(ctx, teamID)
	}
	return nil, nil
}

func (f *fakeTeamRepo) GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	if f.getMemberFn != nil {
		return f.getMemberFn(ctx, teamID, userID)
	}
	return nil, repositories.ErrTeamMemberNotFound
}

func (f *fakeTeamRepo) AddMember(ctx context.Context, member *models.TeamMember) error {
	if f.addMemberFn != nil {
		return f.addMemberFn(ctx, member)
	}
	return nil
}

type fakeInvitationRepo struct {
	createFn                   func(ctx context.Context, invitation *models.Invitation) error
	getByIDFn                  func(ctx context.Context, id int) (*models.Invitation, error)
	getPendingByTeamAndEmailFn func(ctx context.Context, teamID int, email string) (*models.Invitation, error)
	listByTeamIDFn             func(ctx context.Context, teamID int) ([]*models.Invitation, error)
	listPendingByEmailFn       func(ctx context.Context, email string) ([]*models.Invitation, error)
	updateStatusFn             func(ctx context.Context, id int, status models.InvitationStatus) error
}

func (f *fakeInvitationRepo) Create(ctx context.Context, invitation *models.Invitation) error {
	if f.createFn != nil {
		return f.createFn(ctx, invitation)
	}
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id int) (*models.Invitation, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrInvitationNotFound
}

func (f *fakeInvitationRepo) GetPendingByTeamAndEmail(ctx context.Context, teamID int, email string) (*models.Invitation, error) {
	if f.getPendingByTeamAndEmailFn != nil {
		return f.getPendingByTeamAndEmailFn(ctx, teamID, email)
	}
	return nil, repositories.ErrInvitationNotFound
}

func (f *fakeInvitationRepo) ListByTeamID(ctx context.Context, teamID int) ([]*models.Invitation, error) {
	if f.listByTeamIDFn != nil {
		return f.listByTeamIDFn(ctx, teamID)
	}
	return nil, nil
}

func (f *fakeInvitationRepo) ListPendingByEmail(ctx context.Context, email string) ([]*models.Invitation, error) {
	if f.listPendingByEmailFn != nil {
		return f.listPendingByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, id int, status models.InvitationStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

type fakeNewsRepo struct {
	createFn         func(ctx context.Context, news *models.News) error
	getByIDFn        func(ctx context.Context, id int) (*models.News, error)
	listFn           func(ctx context.Context, filter repositories.NewsFilter, page models.Pagination) ([]*models.News, int, error)
	incrementViewsFn func(ctx context.Context, id int) error
	toggleLikeFn     func(ctx context.Context, newsID, userID int) (bool, error)
	addCommentFn     func(ctx context.Context, comment *models.NewsComment) error
	listCommentsFn   func(ctx context.Context, newsID int) ([]models.NewsComment, error)
}

func (f *fakeNewsRepo) Create(ctx context.Context, news *models.News) error {
	if f.createFn != nil {
		return f.createFn(ctx, news)
	}
	return nil
}

func (f *fakeNewsRepo) GetByID(ctx context.Context, id int) (*models.News, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrNewsNotFound
}

func (f *fakeNewsRepo) List(ctx context.Context, filter repositories.NewsFilter, page models.Pagination) ([]*models.News, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter, page)
	}
	return nil, 0, nil
}

func (f *fakeNewsRepo) IncrementViews(ctx context.Context, id int) error {
	if f.incrementViewsFn != nil {
		return f.incrementViewsFn(ctx, id)
	}
	return nil
}

func (f *fakeNewsRepo) ToggleLike(ctx context.Context, newsID, userID int) (bool, error) {
	if f.toggleLikeFn != nil {
		return f.toggleLikeFn(ctx, newsID, userID)
	}
	return false, nil
}

func (f *fakeNewsRepo) AddComment(ctx context.Context, comment *models.NewsComment) error {
	if f.addCommentFn != nil {
		return f.addCommentFn(ctx, comment)
	}
	return nil
}

func (f *fakeNewsRepo) ListComments(ctx context.Context, newsID int) ([]models.NewsComment, error) {
	if f.listCommentsFn != nil {
		return f.listCommentsFn(ctx, newsID)
	}
	return nil, nil
}

type fakeMediaRepo struct {
	createFn      func(ctx context.Context, media *models.Media) error
	getByIDFn     func(ctx context.Context, id int) (*models.Media, error)
	listByOwnerFn func(ctx context.Context, userID int) ([]*models.Media, error)
}

func (f *fakeMediaRepo) Create(ctx context.Context, media *models.Media) error {
	if f.createFn != nil {
		return f.createFn(ctx, media)
	}
	return nil
}

func (f *fakeMediaRepo) GetByID(ctx context.Context, id int) (*models.Media, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrMediaNotFound
}

func (f *fakeMediaRepo) ListByOwner(ctx context.Context, userID int) ([]*models.Media, error) {
	if f.listByOwnerFn != nil {
		return f.listByOwnerFn(ctx, userID)
	}
	return nil, nil
}

type fakeUploader struct {
	uploadFn func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
	deleted  []string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, key, contentType, reader)
	}
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
