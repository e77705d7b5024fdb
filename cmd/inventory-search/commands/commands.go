package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rogerio-castellano/inventory-search/internal/app"
	"github.com/rogerio-castellano/inventory-search/internal/search"
	"github.com/urfave/cli/v3"
)

// QueryFlags are the search parameters accepted by the query command, in
// the same spelling as the HTTP query string.
var QueryFlags = []string{search.ParamCategory, search.ParamName, search.ParamMinPrice, search.ParamMaxPrice}

// QueryParams collects the query flags that were given on the command line.
func QueryParams(cmd *cli.Command) map[string]string {
	params := map[string]string{}
	for _, name := range QueryFlags {
		if cmd.IsSet(name) {
			params[name] = cmd.String(name)
		}
	}
	return params
}

// QueryAction runs a single search against the configured store.
func QueryAction(ctx context.Context, cmd *cli.Command) error {
	a, err := app.New(ctx, cmd.String("env"), os.Stderr)
	if err != nil {
		return err
	}
	defer closeApp(a)

	result, err := a.Engine.Query(ctx, QueryParams(cmd))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// SeedAction loads --file into the configured store.
func SeedAction(ctx context.Context, cmd *cli.Command) error {
	a, err := app.New(ctx, cmd.String("env"), os.Stderr)
	if err != nil {
		return err
	}
	defer closeApp(a)

	n, err := a.Seed(ctx, cmd.String("file"))
	if err != nil {
		return err
	}
	a.Logger.Info("Seed completed", slog.Int("records", n), slog.String("backend", a.Backend.Name))
	return nil
}

func closeApp(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		a.Logger.Error("Failed to close", slog.String("error", err.Error()))
	}
}
