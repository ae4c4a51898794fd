// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vault/cmd/app/commands"
	"github.com/allisson/vault/internal/app"
	"github.com/allisson/vault/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "vault",
		Usage:   "Encrypted object vault",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "verify-audit-logs",
				Usage: "Verify cryptographic integrity of audit logs within a time range",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "start-date",
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "Start of the time range (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)",
					},
					&cli.StringFlag{
						Name:     "end-date",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "End of the time range (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					auditLogUseCase, err := container.AuditLogUseCase()
					if err != nil {
						return err
					}

					return commands.RunVerifyAuditLogs(
						ctx,
						auditLogUseCase,
						container.Logger(),
						os.Stdout,
						cmd.String("start-date"),
						cmd.String("end-date"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "clean-audit-logs",
				Usage: "Delete audit logs older than specified days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete audit logs older than this many days",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many logs would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					auditLogUseCase, err := container.AuditLogUseCase()
					if err != nil {
						return err
					}

					return commands.RunCleanAuditLogs(
						ctx,
						auditLogUseCase,
						container.Logger(),
						os.Stdout,
						int(cmd.Int("days")),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
