package models

import "time"

// InvitationStatus - статус приглашения; pending единственный нетерминальный.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

type Invitation struct {
	ID          int              `json:"id" db:"id"`
	TeamID      int              `json:"team_id" db:"team_id"`
	Email       string           `json:"email" db:"email"`
	InvitedByID int              `json:"invited_by_id" db:"invited_by_id"`
	Status      InvitationStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"invited_at" db:"created_at"`

	InvitedBy *User `json:"invited_by,omitempty" db:"-"`
	Team      *Team `json:"team,omitempty" db:"-"`
}
