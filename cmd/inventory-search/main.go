package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/inventory-search/cmd/inventory-search/commands"
	"github.com/urfave/cli/v3"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "environment file path",
		Value: ".env",
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "inventory-search",
		Usage: "Product inventory search tools",
		Commands: []*cli.Command{
			{
				Name:  "query",
				Usage: "Run one search and print the result as JSON",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{Name: "category", Usage: "exact category"},
					&cli.StringFlag{Name: "name", Usage: "case-sensitive name substring"},
					&cli.StringFlag{Name: "minPrice", Usage: "inclusive lower price bound"},
					&cli.StringFlag{Name: "maxPrice", Usage: "inclusive upper price bound"},
				},
				Action: commands.QueryAction,
			},
			{
				Name:  "seed",
				Usage: "Load products from a CSV or JSON file into the configured store",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV or JSON file path",
						Required: true,
					},
				},
				Action: commands.SeedAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
