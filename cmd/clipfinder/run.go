package main

import (
	"github.com/spf13/cobra"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover and download, then trim when a cut list is present",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			if _, err := a.discover(ctx); err != nil {
				return a.finish("run", err)
			}
			if _, err := a.download(ctx); err != nil {
				return a.finish("run", err)
			}
			if !fsutil.Exists(a.cfg.Files.CutList) {
				a.log.Info("No cut list yet, stopping before trim", "main", map[string]interface{}{
					"cut_list": a.cfg.Files.CutList,
					"raw_dir":  a.cfg.Dirs.Raw,
				})
				return a.finish("run", nil)
			}
			_, err = a.trim(ctx)
			return a.finish("run", err)
		},
	}
	addDiscoverFlags(cmd)
	addDownloadFlags(cmd)
	addTrimFlags(cmd)
	return cmd
}
