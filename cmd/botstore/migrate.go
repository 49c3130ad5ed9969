package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/botstore/internal/platform/database"
	"github.com/spf13/cobra"
)

// migrationStatus is the printable form of one migration's state.
type migrationStatus struct {
	Version   int64      `json:"version" yaml:"version"`
	Source    string     `json:"source" yaml:"source"`
	State     string     `json:"state" yaml:"state"`
	AppliedAt *time.Time `json:"applied_at,omitempty" yaml:"applied_at,omitempty"`
}

func newMigrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withEngine(cmd.Context(), func(ctx context.Context, e *database.Engine) error {
					version, err := database.EnsureSchema(ctx, e, a.logger)
					if err != nil {
						return err
					}
					return a.print(map[string]int64{"version": version})
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which migrations have been applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withEngine(cmd.Context(), func(ctx context.Context, e *database.Engine) error {
					status, err := database.SchemaStatus(ctx, e, a.logger)
					if err != nil {
						return err
					}

					out := make([]migrationStatus, 0, len(status))
					for _, s := range status {
						row := migrationStatus{
							Version: s.Source.Version,
							Source:  s.Source.Path,
							State:   string(s.State),
						}
						if !s.AppliedAt.IsZero() {
							appliedAt := s.AppliedAt
							row.AppliedAt = &appliedAt
						}
						out = append(out, row)
					}
					return a.print(out)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withEngine(cmd.Context(), func(ctx context.Context, e *database.Engine) error {
					result, err := database.RollbackSchema(ctx, e, a.logger)
					if err != nil {
						return err
					}
					return a.print(map[string]any{
						"version":  result.Source.Version,
						"source":   result.Source.Path,
						"duration": result.Duration.String(),
					})
				})
			},
		},
	)

	return cmd
}

// withEngine opens a bare engine for schema commands, bypassing the
// dispatcher so that no migration runs implicitly.
func (a *app) withEngine(ctx context.Context, fn func(ctx context.Context, e *database.Engine) error) error {
	e, err := database.Open(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := e.Close(); err != nil {
			a.logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
	}()

	return fn(ctx, e)
}
