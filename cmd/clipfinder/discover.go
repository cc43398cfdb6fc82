package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/discovery"
)

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find clip links for the configured players and write the mapping table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			_, err = a.discover(ctx)
			return a.finish("discover", err)
		},
	}
	addDiscoverFlags(cmd)
	return cmd
}

func addDiscoverFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&players, "player", "p", nil, "Exact player name; repeat for several players")
	f.StringVar(&startSeason, "start-season", "", "First season, e.g. 2018-19")
	f.StringVar(&endSeason, "end-season", "", "Last season, inclusive")
	f.StringVar(&seasonType, "season-type", "", "Season type: \"Regular Season\" or \"Playoffs\"")
	f.StringVar(&quotaPolicy, "quota-policy", "", "Quota policy: global or per_category")
	f.IntVarP(&quotaTotal, "quota-total", "n", 0, "Clips per player under the global policy")
	f.StringVar(&mappingMode, "mapping-mode", "", "Mapping table mode: append or overwrite")
	f.StringVar(&flushMode, "flush-mode", "", "When to write results: end or player")
	f.BoolVar(&twoPointDefault, "two-points", false, "Label field goals without 3PT as two pointers instead of dropping them")
}

func (a *app) discover(ctx context.Context) (*discovery.Result, error) {
	if err := a.cfg.ValidateDiscovery(); err != nil {
		return nil, err
	}
	orch, err := a.buildOrchestrator()
	if err != nil {
		return nil, err
	}
	res, err := orch.Run(ctx, a.cfg.Players)
	if res != nil {
		a.log.Info("Discovery summary", "main", map[string]interface{}{
			"run_id":     res.RunID,
			"clips":      len(res.Records),
			"missing":    res.Missing,
			"skipped":    res.Skipped,
			"unresolved": res.Unresolved,
			"mapping":    a.cfg.Files.Mapping,
		})
	}
	return res, err
}
