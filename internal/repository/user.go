package repository

import (
	"context"

	"github.com/amitkhot2001/blogs/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	SuggestNames(ctx context.Context, term string, limit int) ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err, "failed to find user by email %s", email)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translate(err, "failed to find user by id %d", id)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, translate(err, "failed to check email %s", email)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "failed to create user")
	}
	return nil
}

// SuggestNames returns distinct names of active users containing term.
func (r *userRepository) SuggestNames(ctx context.Context, term string, limit int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Distinct().
		Where("status = ?", models.UserStatusActive).
		Where("LOWER(full_name) LIKE ? ESCAPE '!'", likePattern(term)).
		Order("full_name").
		Limit(limit).
		Pluck("full_name", &names).Error
	if err != nil {
		return nil, translate(err, "failed to suggest author names")
	}
	return names, nil
}
