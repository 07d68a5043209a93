package models

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        *string   `json:"email,omitempty" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	WechatOpenID *string   `json:"-" db:"wechat_open_id"`
	Avatar       string    `json:"avatar" db:"avatar"`
	Bio          string    `json:"bio" db:"bio"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
