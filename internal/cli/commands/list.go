package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

// listCmd is the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list deployments",
	Long: `List the deployments visible to the authenticated user.

Each deployment shows its mode, name, hash, creation date, status and
directive. Fields the API leaves out are shown as N/A. Recipe fields are
shown when present, followed by the info commands for every deployment
that has a deployment hash.`,
	Example: `  # List deployments
  $ corrinoctl list -a https://api.example.com`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	// Silence usage to avoid showing help on every error
	listCmd.SilenceUsage = true
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := authenticate(ctx)
	if err != nil {
		return cancelled(err)
	}

	records, err := session.ListDeployments(ctx)
	if err != nil {
		logger.WithError(logger.FromContext(ctx), err).Debug("list failed")
		ui.PrintRequestError("Failed to list deployments", err)
		return fmt.Errorf("list failed")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.RenderDeploymentSummary(len(records)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderDeployments(records))

	if hints := ui.RenderDeploymentHints(records, binaryName); hints != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, hints)
	}

	return nil
}
