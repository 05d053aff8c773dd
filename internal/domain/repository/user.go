package repository

import (
	"context"

	"github.com/polkiloo/campusorder/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// CampusCredentials returns the stored upstream credentials for an active
	// user, or domain errors.ErrUserInactive when the user is missing,
	// inactive, or has no credentials stored.
	CampusCredentials(ctx context.Context, userID int64) (*model.CampusCredentials, error)
	SetCampusCredentials(ctx context.Context, userID int64, username, password string) error
}
