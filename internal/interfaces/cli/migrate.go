package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// NewMigrateCmd manages the postgres supplier schema.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the supplier database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			if err := m.Up(); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			return printVersion(cmd, m, "migrations applied")
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return errors.InvalidParam("--steps must be at least 1")
			}
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			if err := m.Down(steps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			return printVersion(cmd, m, fmt.Sprintf("rolled back %d step(s)", steps))
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator(cmd)
			if err != nil {
				return err
			}
			return printVersion(cmd, m, "")
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func migrator(cmd *cobra.Command) (Migrator, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	return cliCtx.deps.NewMigrator(cliCtx.Config), nil
}

func printVersion(cmd *cobra.Command, m Migrator, msg string) error {
	version, dirty, err := m.Status()
	if err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	if msg != "" {
		PrintSuccess(cmd, msg)
	}
	return PrintResult(cmd, migrationStatus{Version: version, Dirty: dirty})
}

type migrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s migrationStatus) TableHeaders() []string { return []string{"VERSION", "DIRTY"} }

func (s migrationStatus) TableRows() [][]string {
	return [][]string{{fmt.Sprint(s.Version), fmt.Sprint(s.Dirty)}}
}

//Personal.AI order the ending
