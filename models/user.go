// Package models contains the application's domain models and error types.
package models

import (
	"time"
)

// User is owned by the external identity subsystem; this service only reads
// it (to resolve principals and render author names) and deletes it on that
// subsystem's behalf, cascading to the user's posts.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
