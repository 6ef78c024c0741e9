package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/geocoding"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/intelligence/gateway"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// cacheScopes maps --scope values to key prefixes in the shared cache.
var cacheScopes = map[string]string{
	"llm": gateway.RedisKeyPrefix,
	"geo": geocoding.SharedKeyPrefix,
	"all": "",
}

// NewCacheCmd groups the shared cache commands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the shared redis cache",
	}
	cmd.AddCommand(newCacheFlushCmd())
	return cmd
}

func newCacheFlushCmd() *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Delete cached model responses, geocodes or both",
		Long:  "flush removes entries from the redis cache configured under redis.*.  Use it after\nchanging prompts or models so stale analyses are not served.",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, ok := cacheScopes[scope]
			if !ok {
				return errors.InvalidParam(fmt.Sprintf("--scope must be one of %s", strings.Join(scopeNames(), ", ")))
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			f, err := cliCtx.deps.NewCacheFlusher(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := f.DeleteByPrefix(ctx, prefix)
			if err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}
			cliCtx.Logger.Debug("cache flushed", logging.String("scope", scope), logging.Int64("deleted", n))
			PrintSuccess(cmd, fmt.Sprintf("%d %s cache entries deleted", n, scope))
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "all", "which entries to delete: llm, geo or all")
	return cmd
}

func scopeNames() []string {
	names := make([]string, 0, len(cacheScopes))
	for k := range cacheScopes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//Personal.AI order the ending
