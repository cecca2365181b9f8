package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/client"
)

var healthFormat string

var errUnhealthy = errors.New("one or more services are unhealthy")

// healthCmd represents the health command.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of running colour services",
	Long: `Call GET /health on the extraction, palette and accessibility services
configured by EXTRACTION_URL, PALETTE_URL and ACCESSIBILITY_URL. Exits
non-zero if any service is down.

Examples:
  colorbot health
  PALETTE_URL=http://palette:8002 colorbot health -f json`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	choiceVarP(healthCmd.Flags(), &healthFormat, "format", "f", "table", "output format", "table", "json")
}

func runHealth(cmd *cobra.Command, _ []string) error {
	statuses := client.FromConfig(cfg, logger.Named("client")).HealthAll(cmd.Context())

	if healthFormat == "json" {
		if err := writeJSON(cmd.OutOrStdout(), statuses); err != nil {
			return err
		}
	} else {
		t := NewTable("Service", "URL", "Status", "Version", "Detail")
		t.SetColumnMaxWidth(4, 50)
		for _, s := range statuses {
			status, ver, detail := "down", "", s.Error
			if s.Health != nil {
				status, ver = s.Health.Status, s.Health.Version
			}
			t.AddRow(string(s.Service), s.URL, status, ver, detail)
		}
		fmt.Fprint(cmd.OutOrStdout(), t.Render())
	}

	for _, s := range statuses {
		if !s.Healthy {
			return errUnhealthy
		}
	}
	return nil
}
