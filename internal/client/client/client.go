package client

import (
	"context"

	"github.com/covyhq/covy/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) (*models.User, error)

	GetUserProfile(ctx context.Context, userID int64) (*models.Profile, error)
	CreateProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profileID int64, in models.ProfileInput) (*models.Profile, error)

	GenerateCoverLetter(ctx context.Context, in models.GenerateRequest) (*models.CoverLetter, error)
	GetCoverLetter(ctx context.Context, letterID int64) (*models.CoverLetter, error)
	UpdateCoverLetter(ctx context.Context, letterID int64, in models.CoverLetterUpdate) (*models.CoverLetter, error)
	DeleteCoverLetter(ctx context.Context, letterID int64) error
	ListUserCoverLetters(ctx context.Context, userID int64) (*models.CoverLetterList, error)
}
