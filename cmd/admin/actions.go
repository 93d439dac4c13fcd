package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/roamio/backend/internal/auth"
	"github.com/roamio/backend/internal/client"
	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/draft"
)

// newSession wires the API-backed auth backend into the same session
// controller the server-side policies share, token cache included.
func newSession(cmd *cli.Command, log *slog.Logger) *auth.Session {
	c, store := newClient(cmd)
	return auth.NewSession(client.NewBackend(c, store), log)
}

// Login authenticates against the API and caches the returned token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	sess := newSession(cmd, slog.New(r.logger))
	if err := sess.Login(ctx, cmd.String("email"), cmd.String("password")); err != nil {
		return fmt.Errorf("login failed: %s", sess.Err())
	}

	user, _ := sess.Current()
	r.logger.Info("logged in", "name", user.Name, "admin", user.IsAdmin)
	if !user.IsAdmin {
		r.logger.Warn("account is not an admin; package commands will be rejected")
	}
	return nil
}

// Logout drops the cached token. The API keeps no server-side session, so
// nothing else needs to happen.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	sess := newSession(cmd, slog.New(r.logger))
	if err := sess.Logout(ctx); err != nil {
		return fmt.Errorf("failed to drop token: %w", err)
	}
	r.logger.Info("logged out")
	return nil
}

// Whoami shows the profile of the cached token's user.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	sess := newSession(cmd, slog.New(r.logger))
	sess.Resolve(ctx)
	user, ok := sess.Current()
	if !ok {
		return fmt.Errorf("not logged in")
	}
	return r.writeJSON(user, true)
}

// DestinationsList prints all destinations.
func (r *Runner) DestinationsList(ctx context.Context, cmd *cli.Command) error {
	c, _ := newClient(cmd)
	destinations, err := c.ListDestinations(ctx)
	if err != nil {
		return err
	}
	return r.writeJSON(destinations, cmd.Bool("pretty"))
}

// DestinationPlaces prints the places of one destination.
func (r *Runner) DestinationPlaces(ctx context.Context, cmd *cli.Command) error {
	id, err := uuid.Parse(cmd.String("id"))
	if err != nil {
		return fmt.Errorf("invalid destination id: %w", err)
	}

	c, _ := newClient(cmd)
	places, err := c.ListPlaces(ctx, id)
	if err != nil {
		return err
	}
	return r.writeJSON(places, cmd.Bool("pretty"))
}

// PackagesList prints one page of packages with the total count.
func (r *Runner) PackagesList(ctx context.Context, cmd *cli.Command) error {
	c, _ := newClient(cmd)
	page, limit := int(cmd.Int("page")), int(cmd.Int("limit"))
	packages, total, err := c.ListPackages(ctx, page, limit)
	if err != nil {
		return err
	}
	r.logger.Info("packages", "page", page, "total", total)
	return r.writeJSON(packages, cmd.Bool("pretty"))
}

// draftFile is the on-disk shape consumed by `packages create`. Duration and
// price are strings to match the form's inputs; days are itinerary
// descriptions in day order.
type draftFile struct {
	DestinationID string   `json:"destination_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Duration      string   `json:"duration"`
	Price         string   `json:"price"`
	MainImageURL  string   `json:"main_image_url"`
	Places        []string `json:"places"`
	Days          []string `json:"days"`
}

// PackagesCreate reads a draft file and drives the package form against the
// API. Form validation failures are reported with the same messages the web
// client would show.
func (r *Runner) PackagesCreate(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read draft file: %w", err)
	}
	var df draftFile
	if err := json.Unmarshal(data, &df); err != nil {
		return fmt.Errorf("failed to parse draft file: %w", err)
	}

	c, _ := newClient(cmd)

	var created domain.Package
	save := func(ctx context.Context, pkg domain.Package) error {
		out, err := c.CreatePackage(ctx, pkg)
		if err != nil {
			return err
		}
		created = out
		return nil
	}

	form := draft.New(c, save, slog.New(r.logger))
	form.SetTitle(df.Title)
	form.SetDescription(df.Description)
	form.SetMainImageURL(df.MainImageURL)
	form.SetPrice(df.Price)

	if df.DestinationID != "" {
		destID, err := uuid.Parse(df.DestinationID)
		if err != nil {
			return fmt.Errorf("invalid destination_id: %w", err)
		}
		done := form.SelectDestination(ctx, destID)
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	duration := df.Duration
	if duration == "" {
		duration = strconv.Itoa(len(df.Days))
	}
	form.SetDuration(duration)
	for i, desc := range df.Days {
		form.SetDayDescription(i+1, desc)
	}

	for _, raw := range df.Places {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid place id %q: %w", raw, err)
		}
		form.TogglePlace(id)
	}

	if err := form.Submit(ctx); err != nil {
		if msg := form.Err(); msg != "" {
			return fmt.Errorf("draft rejected: %s", msg)
		}
		return err
	}

	r.logger.Info("package created", "id", created.ID, "title", created.Title)
	return r.writeJSON(created, cmd.Bool("pretty"))
}
