package models

import "time"

// Sport перечисляет поддерживаемые виды спорта для команд.
type Sport string

const (
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "football"
	SportSoccer     Sport = "soccer"
	SportVolleyball Sport = "volleyball"
	SportTennis     Sport = "tennis"
	SportOther      Sport = "other"
)

func (s Sport) Valid() bool {
	switch s {
	case SportBasketball, SportFootball, SportSoccer, SportVolleyball, SportTennis, SportOther:
		return true
	}
	return false
}

// TeamRole - роль участника внутри команды (owner > admin > member).
type TeamRole string

const (
	RoleOwner  TeamRole = "owner"
	RoleAdmin  TeamRole = "admin"
	RoleMember TeamRole = "member"
)

func (r TeamRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManage сообщает, может ли роль приглашать и управлять составом.
func (r TeamRole) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

type Team struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Sport       Sport     `json:"sport" db:"sport"`
	OwnerID     int       `json:"owner_id" db:"owner_id"`
	Logo        string    `json:"logo" db:"logo"`
	IsPrivate   bool      `json:"is_private" db:"is_private"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Owner       *User        `json:"owner,omitempty" db:"-"`
	Members     []TeamMember `json:"members,omitempty" db:"-"`
	Invitations []Invitation `json:"invitations,omitempty" db:"-"`
	MemberCount int          `json:"member_count,omitempty" db:"-"`
}

type TeamMember struct {
	TeamID   int       `json:"team_id" db:"team_id"`
	UserID   int       `json:"user_id" db:"user_id"`
	Role     TeamRole  `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`

	User *User `json:"user,omitempty" db:"-"`
}
