package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/downloader"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/mapping"
)

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the raw clips listed in the mapping table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			_, err = a.download(ctx)
			return a.finish("download", err)
		},
	}
	addDownloadFlags(cmd)
	return cmd
}

func addDownloadFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&rawDir, "raw-dir", "", "Directory for raw clips")
	f.StringVar(&chosenLinks, "chosen-links", "", "File of source URLs to download, one per line")
	f.StringVar(&fetcher, "fetcher", "", "Clip fetcher: yt-dlp or http")
}

func (a *app) download(ctx context.Context) (*downloader.Summary, error) {
	records, err := mapping.New(a.cfg.Files.Mapping).Read()
	if err != nil {
		return nil, err
	}
	d, err := a.buildDownloader(ctx)
	if err != nil {
		return nil, err
	}
	return d.Run(ctx, records)
}
