package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/storage/file"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/client"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// NewSuppliersCmd groups the supplier roster commands.
func NewSuppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Inspect and upload the supplier roster",
	}
	cmd.AddCommand(newSuppliersListCmd(), newSuppliersPushCmd())
	return cmd
}

func newSuppliersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the roster with the current risk overlay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			list, err := cliCtx.API.ListSuppliers(ctx)
			if err != nil {
				return fmt.Errorf("list suppliers: %w", err)
			}
			if cliCtx.OutputFormat == OutputJSON {
				return PrintResult(cmd, list)
			}
			if list.Mode == client.ModeFallback {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: roster served in fallback mode: %s\n", list.Error)
			}
			return PrintResult(cmd, supplierTable(list.Suppliers))
		},
	}
}

func newSuppliersPushCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Replace the roster in the configured postgres or minio store",
		Long: "push reads a JSON or YAML roster file and upserts it into the store named by\nsuppliers.source.  The file source is read-only; edit the file instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.InvalidParam("--file is required")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read roster: %w", err)
			}
			suppliers, err := file.Decode(data, file.FormatFor(path))
			if err != nil {
				return err
			}

			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			w, err := cliCtx.deps.NewRosterWriter(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.WriteRoster(ctx, suppliers); err != nil {
				return fmt.Errorf("write roster: %w", err)
			}
			PrintSuccess(cmd, fmt.Sprintf("%d suppliers written to %s", len(suppliers), cliCtx.Config.Suppliers.Source))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "roster file (.json, .yaml or .yml)")
	return cmd
}

type supplierTable []client.Supplier

func (t supplierTable) TableHeaders() []string {
	return []string{"ID", "NAME", "LOCATION", "CRITICALITY", "RISK", "SCORE"}
}

func (t supplierTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, s := range t {
		rows = append(rows, []string{
			s.ID,
			s.SupplierName,
			s.Location,
			s.Criticality,
			string(s.CurrentRiskLevel),
			strconv.Itoa(s.RiskScore),
		})
	}
	return rows
}

//Personal.AI order the ending
