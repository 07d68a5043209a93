package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sportshub/sports-community/models"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamMemberConflict = errors.New("user is already a member of the team")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrTeamOwnerInvalid   = errors.New("team owner conflict or invalid")
)

// TeamFilter описывает фильтры списка команд. Нулевые значения игнорируются.
type TeamFilter struct {
	Sport        models.Sport
	MemberUserID int // владелец или участник
	PublicOnly   bool
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter TeamFilter, page models.Pagination) ([]*models.Team, int, error)
	ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error)
	GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error)
	AddMember(ctx context.Context, member *models.TeamMember) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

// Create вставляет команду и владельца как участника с ролью owner одной транзакцией.
func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (name, description, sport, owner_id, is_private, logo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		team.Name,
		team.Description,
		team.Sport,
		team.OwnerID,
		team.IsPrivate,
		team.Logo,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "teams_owner_id_fkey" {
				return ErrTeamOwnerInvalid
			}
		}
		return err
	}

	memberQuery := `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at`

	var owner models.TeamMember
	owner.TeamID = team.ID
	owner.UserID = team.OwnerID
	owner.Role = models.RoleOwner
	if err = tx.QueryRowContext(ctx, memberQuery, team.ID, team.OwnerID, models.RoleOwner).Scan(&owner.JoinedAt); err != nil {
		return err
	}
	team.Members = []models.TeamMember{owner}

	return tx.Commit()
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.sport, t.owner_id, t.is_private, t.logo, t.created_at,
		       u.id, u.name, u.avatar
		FROM teams t
		JOIN users u ON u.id = t.owner_id
		WHERE t.id = $1`

	team := &models.Team{}
	owner := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.Sport,
		&team.OwnerID,
		&team.IsPrivate,
		&team.Logo,
		&team.CreatedAt,
		&owner.ID,
		&owner.Name,
		&owner.Avatar,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	team.Owner = owner
	return team, nil
}

// List возвращает страницу команд и общее количество. Запросы страницы и
// количества выполняются параллельно.
func (r *postgresTeamRepository) List(ctx context.Context, filter TeamFilter, page models.Pagination) ([]*models.Team, int, error) {
	where := `WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.Sport != "" {
		args = append(args, filter.Sport)
		where += fmt.Sprintf(" AND t.sport = $%d", len(args))
	}
	if filter.MemberUserID != 0 {
		args = append(args, filter.MemberUserID)
		where += fmt.Sprintf(` AND (t.owner_id = $%d OR EXISTS (
			SELECT 1 FROM team_members m WHERE m.team_id = t.id AND m.user_id = $%d))`, len(args), len(args))
	}
	if filter.PublicOnly {
		where += ` AND t.is_private = FALSE`
	}

	listQuery := `
		SELECT t.id, t.name, t.description, t.sport, t.owner_id, t.is_private, t.logo, t.created_at,
		       u.id, u.name, u.avatar
		FROM teams t
		JOIN users u ON u.id = t.owner_id ` + where +
		fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	countQuery := `SELECT COUNT(*) FROM teams t ` + where

	var (
		teams []*models.Team
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listArgs := append(append([]interface{}{}, args...), page.Limit, page.Offset())
		rows, err := r.db.QueryContext(gctx, listQuery, listArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		teams = make([]*models.Team, 0)
		for rows.Next() {
			team := &models.Team{}
			owner := &models.User{}
			if scanErr := rows.Scan(
				&team.ID,
				&team.Name,
				&team.Description,
				&team.Sport,
				&team.OwnerID,
				&team.IsPrivate,
				&team.Logo,
				&team.CreatedAt,
				&owner.ID,
				&owner.Name,
				&owner.Avatar,
			); scanErr != nil {
				return scanErr
			}
			team.Owner = owner
			teams = append(teams, team)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.db.QueryRowContext(gctx, countQuery, args...).Scan(&total)
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// ListMembers возвращает состав команды вместе с отображаемыми полями пользователя.
func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT m.team_id, m.user_id, m.role, m.joined_at, u.id, u.name, u.avatar
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var member models.TeamMember
		user := &models.User{}
		if scanErr := rows.Scan(
			&member.TeamID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
			&user.ID,
			&user.Name,
			&user.Avatar,
		); scanErr != nil {
			return nil, scanErr
		}
		member.User = user
		members = append(members, member)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *postgresTeamRepository) GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	query := `
		SELECT team_id, user_id, role, joined_at
		FROM team_members
		WHERE team_id = $1 AND user_id = $2`

	member := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(
		&member.TeamID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// AddMember вставляет участника. Первичный ключ (team_id, user_id) гарантирует,
// что пользователь не появится в составе дважды даже при гонке.
func (r *postgresTeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at`

	err := r.db.QueryRowContext(ctx, query,
		member.TeamID,
		member.UserID,
		member.Role,
	).Scan(&member.JoinedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrTeamMemberConflict
			case "23503":
				if pqErr.Constraint == "team_members_team_id_fkey" {
					return ErrTeamNotFound
				}
				if pqErr.Constraint == "team_members_user_id_fkey" {
					return ErrUserNotFound
				}
			}
		}
		return err
	}
	return nil
}
