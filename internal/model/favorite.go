package model

import (
	"time"
)

// Favorite 收藏的电影
// 只持有 UserID，不反向引用 User；(user_id, title) 唯一
type Favorite struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:uq_favorites_user_title"`
	CatalogID string    `json:"catalog_id" db:"catalog_id" gorm:"not null"`
	Title     string    `json:"title" db:"title" gorm:"not null;uniqueIndex:uq_favorites_user_title"`
	Year      string    `json:"year" db:"year"`
	Director  string    `json:"director" db:"director"`
	Poster    string    `json:"poster" db:"poster"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
