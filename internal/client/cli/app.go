// Package cli implements the terminal surface of the aloria client: a small
// REPL over the session controller.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/aloria-app/aloria-client/internal/client/api"
	"github.com/aloria-app/aloria-client/internal/client/config"
	"github.com/aloria-app/aloria-client/internal/client/services"
	"github.com/aloria-app/aloria-client/internal/client/session"
	"github.com/aloria-app/aloria-client/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config     *config.Config
	controller *services.SessionController
	db         *sql.DB
	reader     *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := api.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	apiClient := api.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)
	store := session.NewStore(db)
	controller := services.NewSessionController(apiClient, store, log)

	return &App{
		config:     c,
		controller: controller,
		db:         db,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores any persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	_ = a.db.Close()
}

func (a *App) isLoggedIn() bool {
	s := a.controller.State()
	return s == services.StateAuthenticated || s == services.StateEditing
}
