package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	internalApp "github.com/felixgeelhaar/lumina/internal/app"
	"github.com/felixgeelhaar/lumina/pkg/config"
)

// App holds the CLI application dependencies. The container is built on
// first use so commands like migrate can run against a bare database.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	CurrentUserID uuid.UUID

	mu        sync.Mutex
	container *internalApp.Container
}

var currentApp *App

// NewApp creates the CLI application.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid LUMINA_USER_ID: %w", err)
	}
	return &App{Config: cfg, Logger: logger, CurrentUserID: userID}, nil
}

// Container returns the wired container, building it on first call.
func (a *App) Container(ctx context.Context) (*internalApp.Container, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.container != nil {
		return a.container, nil
	}
	c, err := internalApp.NewContainer(ctx, a.Config, a.Logger)
	if err != nil {
		return nil, err
	}
	a.container = c
	return c, nil
}

// Close releases the container if one was built.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.container == nil {
		return nil
	}
	err := a.container.Close()
	a.container = nil
	return err
}

// SetApp sets the global app instance.
func SetApp(app *App) {
	currentApp = app
}

// GetApp returns the global app instance.
func GetApp() *App {
	return currentApp
}

// requireApp returns the app or an error when main did not set one.
func requireApp() (*App, error) {
	if currentApp == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return currentApp, nil
}
