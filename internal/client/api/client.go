// Package api implements the client side of the aloria authentication REST
// API: register, login, logout, and profile fetch/update over JSON.
package api

import (
	"context"

	"github.com/aloria-app/aloria-client/internal/client/models"
)

// Client is the remote API surface consumed by the session controller.
// Every method returns one of the sentinel error kinds from errors.go on
// failure.
type Client interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*models.Session, error)
	Login(ctx context.Context, identifier, password string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, token, firstName, lastName string) (*models.Session, error)
	Close() error
}
