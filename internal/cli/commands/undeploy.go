package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/client"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

var (
	undeployUUID     string
	undeployFallback bool
)

// undeployCmd is the undeploy command
var undeployCmd = &cobra.Command{
	Use:   "undeploy",
	Short: "remove a deployment",
	Long: `Ask the deployment API to remove a deployment.

The request is posted to /undeploy/ and succeeds only on HTTP 200. With
--fallback, /undeploy is tried next when /undeploy/ does not accept it.`,
	Example: `  # Undeploy by uuid
  $ corrinoctl undeploy -d 3f2504e0-4f89-11d3-9a0c-0305e82c3301

  # Also try /undeploy when /undeploy/ does not answer 200
  $ corrinoctl undeploy -d 3f2504e0-4f89-11d3-9a0c-0305e82c3301 --fallback`,
	Args: cobra.NoArgs,
	RunE: runUndeploy,
}

func init() {
	undeployCmd.Flags().StringVarP(&undeployUUID, "deployment-uuid", "d", "", "UUID of the deployment to remove")
	undeployCmd.Flags().BoolVar(&undeployFallback, "fallback", false, "Try /undeploy when /undeploy/ fails")
	_ = undeployCmd.MarkFlagRequired("deployment-uuid")

	// Silence usage to avoid showing help on every error
	undeployCmd.SilenceUsage = true
}

func runUndeploy(cmd *cobra.Command, args []string) error {
	if _, err := uuid.Parse(undeployUUID); err != nil {
		ui.PrintWarning("%q does not look like a UUID, sending it anyway", undeployUUID)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := authenticate(ctx)
	if err != nil {
		return cancelled(err)
	}

	ui.PrintInfo("Undeploying %s...", undeployUUID)

	result, err := session.Undeploy(ctx, undeployUUID, client.UndeployPolicy(undeployFallback))
	if err != nil {
		logger.WithError(logger.FromContext(ctx), err).Debug("undeploy failed")
		ui.PrintRequestError("Undeploy failed", err)
		return fmt.Errorf("undeploy failed")
	}

	ui.PrintSuccess("Undeploy accepted (HTTP %d)", result.StatusCode)
	if len(result.Body) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), ui.PrettyJSON(result.Body))
	}
	return nil
}
