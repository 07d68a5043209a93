package models

import "time"

// NewsCategory расширяет семейство Sport категорией general.
type NewsCategory string

const (
	CategoryBasketball NewsCategory = "basketball"
	CategoryFootball   NewsCategory = "football"
	CategorySoccer     NewsCategory = "soccer"
	CategoryVolleyball NewsCategory = "volleyball"
	CategoryTennis     NewsCategory = "tennis"
	CategoryGeneral    NewsCategory = "general"
)

func (c NewsCategory) Valid() bool {
	switch c {
	case CategoryBasketball, CategoryFootball, CategorySoccer, CategoryVolleyball, CategoryTennis, CategoryGeneral:
		return true
	}
	return false
}

type News struct {
	ID            int          `json:"id" db:"id"`
	Title         string       `json:"title" db:"title"`
	Content       string       `json:"content" db:"content"`
	Summary       string       `json:"summary" db:"summary"`
	AuthorID      int          `json:"author_id" db:"author_id"`
	Category      NewsCategory `json:"category" db:"category"`
	Tags          []string     `json:"tags" db:"tags"`
	FeaturedImage string       `json:"featured_image,omitempty" db:"featured_image"`
	Views         int          `json:"views" db:"views"`
	LikeCount     int          `json:"like_count" db:"-"`
	IsPublished   bool         `json:"is_published" db:"is_published"`
	IsFeatured    bool         `json:"is_featured" db:"is_featured"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`

	Author   *User         `json:"author,omitempty" db:"-"`
	Comments []NewsComment `json:"comments,omitempty" db:"-"`
}

type NewsComment struct {
	ID        int       `json:"id" db:"id"`
	NewsID    int       `json:"news_id" db:"news_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
