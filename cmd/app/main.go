package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sipekan/internal"
	pkgconfig "github.com/starford/sipekan/pkg/config"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func createAdmin(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.CreateAdmin(ctx, cmd.String("email"), cmd.String("password"), internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "sipekan",
		Usage:  "Posyandu child growth monitoring: registration, nutrition screening, activities and news",
		Action: serve,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Flags:  []cli.Flag{configFlag()},
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools over stdio",
				Flags:  []cli.Flag{configFlag()},
				Action: serveMCP,
			},
			{
				Name:  "create-admin",
				Usage: "Register an admin account for the dashboard",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Admin email",
						Required: true,
						Sources:  cli.EnvVars("ADMIN_EMAIL"),
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Admin password, at least 8 characters",
						Required: true,
						Sources:  cli.EnvVars("ADMIN_PASSWORD"),
					},
				},
				Action: createAdmin,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
