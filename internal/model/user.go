package model

import (
	"time"
)

// User 用户模型（身份）
// Salt 在创建时生成一次，修改密码时沿用
type User struct {
	ID           string    `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name         string    `json:"name" db:"name" gorm:"not null"`
	Email        string    `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	Salt         []byte    `json:"-" db:"salt" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
