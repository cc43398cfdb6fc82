package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/trimmer"
)

func newTrimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Cut the raw clips with the cut list and write the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			_, err = a.trim(ctx)
			return a.finish("trim", err)
		},
	}
	addTrimFlags(cmd)
	return cmd
}

func addTrimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Lookup("raw-dir") == nil {
		f.StringVar(&rawDir, "raw-dir", "", "Directory for raw clips")
	}
	f.StringVar(&finalDir, "final-dir", "", "Directory for final clips")
	f.StringVar(&cutList, "cut-list", "", "Cut list file: temp_filename,start,end per line")
	f.StringVar(&reportPath, "report", "", "Report CSV path")
	f.StringVar(&responsible, "responsible", "", "Name written in the report's Responsible Person column")
	f.BoolVar(&playerFolders, "player-folders", false, "Put final clips in one folder per player")
}

func (a *app) trim(ctx context.Context) (*trimmer.Summary, error) {
	t, err := a.buildTrimmer(ctx)
	if err != nil {
		return nil, err
	}
	return t.Run(ctx)
}
