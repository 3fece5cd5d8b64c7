package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/client"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
)

var probePaths []string

// probeCmd is the probe command
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "check which API endpoints respond",
	Long: `Authenticate, then GET each endpoint and report its status, content type
and a short summary of the body. Failing endpoints do not stop the probe.

Without --path the endpoints /oci_shapes/, /deployment/ and / are probed.`,
	Example: `  # Probe the default endpoints
  $ corrinoctl probe -a https://api.example.com

  # Probe specific endpoints
  $ corrinoctl probe -a https://api.example.com --path /oci_shapes/ --path /deployment/`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().StringSliceVar(&probePaths, "path", nil, "Endpoint to probe (repeatable)")

	// Silence usage to avoid showing help on every error
	probeCmd.SilenceUsage = true
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := authenticate(ctx)
	if err != nil {
		return cancelled(err)
	}

	printProbe(cmd, session.Probe(ctx, probePaths))
	return nil
}

// printProbe renders probe results; shared with deploy --probe
func printProbe(cmd *cobra.Command, results []client.ProbeResult) {
	ui.PrintInfo("Probed %d endpoint(s)", len(results))
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderProbeResults(results))
}
