package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/source"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/storage/minio"
)

func newComposeCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose one snapshot and print the view",
		Long: "Fetch a snapshot from the configured source, or read --file, compose it\n" +
			"and print the resulting view.  Nothing is cached or published.",
		Example: "  grayzone compose --file data/data.json -o table",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot file to compose instead of the configured source")
	return cmd
}

func runCompose(cmd *cobra.Command, file string) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Config

	srcCfg := cfg.Source.Source()
	if file != "" {
		srcCfg = source.Config{Kind: source.KindFile, Path: file, MaxBytes: srcCfg.MaxBytes}
	}

	var objStore minio.SnapshotStore
	if strings.EqualFold(srcCfg.Kind, source.KindMinIO) {
		client, store, err := openObjectStore(cfg, cc.Logger)
		if err != nil {
			return err
		}
		if client != nil {
			defer client.Close()
		}
		objStore = store
	}

	src, err := source.New(srcCfg, objStore, cc.Logger)
	if err != nil {
		return err
	}

	zones, err := cfg.ZoneIndex()
	if err != nil {
		return err
	}
	hotspots, err := cfg.HotspotIndex()
	if err != nil {
		return err
	}

	composer := viewmodel.NewComposer(viewmodel.Deps{
		Zones:    zones,
		Hotspots: hotspots,
		Source:   src,
		Logger:   cc.Logger,
	}, viewOptions(cfg))

	ctx, cancel := context.WithTimeout(cmd.Context(), cc.Timeout)
	defer cancel()
	if _, err := composer.Refresh(ctx); err != nil {
		return err
	}
	vm, _ := composer.View()
	return renderView(cmd.OutOrStdout(), vm, cc.OutputFormat, time.Now())
}

//Personal.AI order the ending
