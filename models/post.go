package models

import (
	"time"
)

// TitleMaxLen is the upper bound on post titles, enforced in the serializer
// and mirrored by the column size.
const TitleMaxLen = 200

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
