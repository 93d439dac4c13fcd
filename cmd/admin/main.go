// Command admin is the operator CLI for the Roamio API. It authenticates
// against a running server, caches the bearer token on disk, and drives the
// package form for scripted package creation.
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/roamio/backend/internal/auth"
	"github.com/roamio/backend/internal/client"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	app := &cli.Command{
		Name:    "roamio-admin",
		Usage:   "Manage travel packages on a Roamio API server",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Base URL of the API server",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("ROAMIO_API_URL"),
			},
			&cli.StringFlag{
				Name:    "token-file",
				Usage:   "Path of the cached credentials file",
				Value:   defaultTokenPath(),
				Sources: cli.EnvVars("ROAMIO_TOKEN_FILE"),
			},
		},
	}

	runner := NewRunner(RunnerOpts{Logger: logger, Output: os.Stdout})
	app.Commands = runner.register()

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}

// defaultTokenPath places the token cache under the user config directory,
// falling back to the working directory when none is known.
func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".roamio-admin.json"
	}
	return filepath.Join(dir, "roamio", "admin.json")
}

// newClient builds an API client from the global flags, loading any cached
// token from the file store.
func newClient(cmd *cli.Command) (*client.Client, *auth.FileStore) {
	c := client.New(cmd.String("api"))
	store := auth.NewFileStore(cmd.String("token-file"))
	if token, ok, err := store.Get("session"); err == nil && ok {
		c.SetToken(token)
	}
	return c, store
}
