package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/sebak/authd/internal/client/api"
	"github.com/sebak/authd/internal/client/config"
)

// authAPI is the part of the server API the CLI needs.
type authAPI interface {
	Register(ctx context.Context, email, fullName string, password []byte) (*api.Account, error)
	Login(ctx context.Context, email string, password []byte) (*api.Session, error)
	Me(ctx context.Context, token string) (*api.Identity, error)
	Health(ctx context.Context) error
}

type App struct {
	config   *config.Config
	api      authAPI
	token    string
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerEndpointAddr, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}
