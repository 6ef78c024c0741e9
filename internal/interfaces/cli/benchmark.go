package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/SupplyChain-RiskRadar/pkg/client"
)

// NewBenchmarkCmd runs the production-vs-standard comparison.
func NewBenchmarkCmd() *cobra.Command {
	var req client.BenchmarkRequest
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare the production and standard inference paths on live events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			report, err := cliCtx.API.Benchmark(ctx, req)
			if err != nil {
				return fmt.Errorf("benchmark: %w", err)
			}
			if cliCtx.OutputFormat == OutputJSON {
				return PrintResult(cmd, report)
			}
			if err := PrintResult(cmd, benchmarkTable{report}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nspeed: %s (%.2fx)  cost: %s (ratio %.2f)\n",
				report.Speed.Winner, report.Speed.Speedup, report.Cost.Winner, report.Cost.CostRatio)
			return nil
		},
	}
	cmd.Flags().IntVar(&req.SampleSize, "sample-size", 0, "events to benchmark (server default when 0)")
	cmd.Flags().StringVar(&req.TaskType, "task-type", "", "task label recorded in the report")
	return cmd
}

// NewMetricsCmd prints the inference gateway snapshot.
func NewMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show inference gateway counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			m, err := cliCtx.API.GatewayMetrics(ctx)
			if err != nil {
				return fmt.Errorf("gateway metrics: %w", err)
			}
			if cliCtx.OutputFormat == OutputJSON {
				return PrintResult(cmd, m)
			}
			return PrintResult(cmd, gatewayTable{m})
		},
	}
}

type benchmarkTable struct{ r *client.BenchmarkReport }

func (t benchmarkTable) TableHeaders() []string {
	return []string{"PATH", "PROVIDER", "MODEL", "TOTAL_MS", "AVG_MS", "COST/EVENT", "RESULTS"}
}

func (t benchmarkTable) TableRows() [][]string {
	side := func(name string, s client.BenchmarkSide) []string {
		return []string{
			name,
			s.Provider,
			s.Model,
			strconv.FormatInt(s.TotalTimeMs, 10),
			strconv.FormatInt(s.AvgTimePerEventMs, 10),
			strconv.FormatFloat(s.CostPerEvent, 'f', 4, 64),
			strconv.Itoa(s.ResultCount),
		}
	}
	return [][]string{side("production", t.r.Production), side("standard", t.r.Standard)}
}

type gatewayTable struct{ m *client.GatewayMetrics }

func (t gatewayTable) TableHeaders() []string { return []string{"METRIC", "VALUE"} }

func (t gatewayTable) TableRows() [][]string {
	m := t.m
	return [][]string{
		{"provider", m.Provider},
		{"model", m.Model},
		{"concurrency_limit", strconv.Itoa(m.ConcurrencyLimit)},
		{"in_flight", strconv.Itoa(m.InFlight)},
		{"total_calls", strconv.FormatInt(m.TotalCalls, 10)},
		{"failed_calls", strconv.FormatInt(m.FailedCalls, 10)},
		{"cache_hits", strconv.FormatInt(m.CacheHits, 10)},
		{"retries", strconv.FormatInt(m.Retries, 10)},
		{"avg_latency_ms", strconv.FormatFloat(m.AvgLatencyMs, 'f', 1, 64)},
		{"tokens_total", strconv.FormatInt(m.TokensUsed.Total, 10)},
		{"last_error", m.LastError},
	}
}

//Personal.AI order the ending
