// Package repository contains the data-access layer over GORM. Handlers
// never touch *gorm.DB directly; everything goes through these interfaces.
package repository

import (
	"context"
	"quill/models"

	"gorm.io/gorm"
)

// UserRepository reads users on behalf of the auth middleware and deletes
// them on behalf of the external identity subsystem.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// Delete removes the user and every post they authored in a single
	// transaction, so no orphan posts can be observed.
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		// Explicit post cleanup; the FK's ON DELETE CASCADE backstops
		// engines where the constraint is enforced differently.
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}
