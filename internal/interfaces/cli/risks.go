package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/client"
)

// NewRisksCmd groups the risk commands.
func NewRisksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risks",
		Short: "List and simulate supply-chain risks",
	}
	cmd.AddCommand(newRisksListCmd(), newRisksSimulateCmd())
	return cmd
}

func newRisksListCmd() *cobra.Command {
	var (
		minScore int
		cached   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch live events and print the enriched risks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			fetch := cliCtx.API.ListRisks
			if cached {
				fetch = cliCtx.API.LatestRisks
			}
			risks, err := fetch(ctx)
			if err != nil {
				return fmt.Errorf("list risks: %w", err)
			}
			filtered := risks[:0:0]
			for _, r := range risks {
				if r.RiskScore >= minScore {
					filtered = append(filtered, r)
				}
			}
			cliCtx.Logger.Debug("risks fetched", logging.Int("total", len(risks)), logging.Int("shown", len(filtered)))
			return PrintResult(cmd, riskTable(filtered))
		},
	}
	cmd.Flags().IntVar(&minScore, "min-score", 0, "only print risks scoring at least this much")
	cmd.Flags().BoolVar(&cached, "cached", false, "print the server's last enrichment pass instead of running a new one")
	return cmd
}

func newRisksSimulateCmd() *cobra.Command {
	var req client.SimulateRequest
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Inject a synthetic event and print the risks it produces",
		Example: `  riskradar risks simulate --headline "Typhoon closes Kaohsiung port" --location "Kaohsiung, Taiwan" --severity high`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			res, err := cliCtx.API.Simulate(ctx, req)
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}
			if cliCtx.OutputFormat == OutputJSON {
				return PrintResult(cmd, res)
			}
			PrintSuccess(cmd, res.Message)
			return PrintResult(cmd, riskTable(res.Risks))
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Headline, "headline", "", "event headline (required)")
	f.StringVar(&req.Location, "location", "", "event location, e.g. \"Busan, South Korea\" (required)")
	f.StringVar(&req.Severity, "severity", "", "low, medium, high or critical (default medium)")
	f.StringVar(&req.Category, "category", "", "event category (default simulated)")
	return cmd
}

type riskTable []client.Risk

func (t riskTable) TableHeaders() []string {
	return []string{"ID", "LOCATION", "SCORE", "LEVEL", "SUPPLIERS", "HEADLINE"}
}

func (t riskTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		level := string(r.RiskLevel)
		if r.ManualReview {
			level += "*"
		}
		rows = append(rows, []string{
			r.ID,
			r.Location,
			strconv.Itoa(r.RiskScore),
			level,
			strings.Join(r.AffectedSuppliers, ", "),
			truncate(r.Headline, 60),
		})
	}
	return rows
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

//Personal.AI order the ending
