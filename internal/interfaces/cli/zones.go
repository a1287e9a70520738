package cli

import (
	"github.com/spf13/cobra"
)

func newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List the configured drill zones and fishing hotspots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			zones, err := cc.Config.ZoneIndex()
			if err != nil {
				return err
			}
			hotspots, err := cc.Config.HotspotIndex()
			if err != nil {
				return err
			}
			return renderZones(cmd.OutOrStdout(), zones.Zones(), hotspots.Zones(), cc.OutputFormat)
		},
	}
}

//Personal.AI order the ending
