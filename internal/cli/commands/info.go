package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/client"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

var (
	infoEndpoint string
	infoHash     string
)

// infoCmd is the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "show deployment digests or logs",
	Long: `Fetch the digests or the logs of one deployment.

JSON responses are pretty-printed; anything else is shown as received.
Deployment hashes are listed by 'corrinoctl list'.`,
	Example: `  # Deployment digests
  $ corrinoctl info -e digests -d 3f2504e04f89

  # Deployment logs
  $ corrinoctl info --endpoint logs --deployment_hash 3f2504e04f89`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoEndpoint, "endpoint", "e", "", "What to fetch: digests or logs")
	infoCmd.Flags().StringVarP(&infoHash, "deployment_hash", "d", "", "Deployment hash")
	_ = infoCmd.MarkFlagRequired("endpoint")
	_ = infoCmd.MarkFlagRequired("deployment_hash")

	// Silence usage to avoid showing help on every error
	infoCmd.SilenceUsage = true
}

func runInfo(cmd *cobra.Command, args []string) error {
	kind, err := client.ParseInfoKind(infoEndpoint)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid endpoint")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := authenticate(ctx)
	if err != nil {
		return cancelled(err)
	}

	ui.PrintInfo("Fetching %s for %s...", kind, infoHash)

	result, err := session.DeploymentInfo(ctx, kind, infoHash)
	if err != nil {
		logger.WithError(logger.FromContext(ctx), err).Debug("info failed", "kind", kind)
		switch {
		case client.IsNotFound(err):
			ui.PrintError("Deployment not found (404)")
		case client.IsForbidden(err):
			ui.PrintError("Access denied (403)")
		default:
			ui.PrintRequestError(fmt.Sprintf("Failed to fetch %s", kind), err)
		}
		return fmt.Errorf("%s request failed", kind)
	}

	ui.PrintSuccess("Successfully retrieved %s (HTTP %d)", kind, result.StatusCode)

	out := cmd.OutOrStdout()
	if result.IsJSONContent() {
		fmt.Fprintln(out, ui.PrettyJSON(result.Body))
	} else {
		fmt.Fprintln(out, result.Text())
	}
	return nil
}
