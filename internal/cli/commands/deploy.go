package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/loader"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

var (
	deployFile      string
	deployOverrides []string
	deployProbe     bool
	deployYes       bool
)

// deployCmd is the deploy command
var deployCmd = &cobra.Command{
	Use:     "deploy",
	Aliases: []string{"post"},
	Short:   "submit a deployment descriptor",
	Long: `Submit a deployment descriptor to the deployment API.

The descriptor is a JSON (or YAML) document forwarded to the API unchanged,
apart from any --set overrides. It is loaded and validated before logging in.

The descriptor is posted to /deployment/ and, if that endpoint does not
accept it, to /deployment. A 301 response is never followed; it moves on to
the next endpoint.`,
	Example: `  # Submit a descriptor, confirming first
  $ corrinoctl deploy -a https://api.example.com -d deployment.json

  # Override fields and skip the confirmation
  $ corrinoctl deploy -d deployment.yaml --set deployment_name=demo --set recipe_replica_count=2 -y

  # Probe the API before submitting
  $ corrinoctl post -d deployment.json --probe`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVarP(&deployFile, "deployment-file", "d", "", "Deployment descriptor (JSON or YAML)")
	deployCmd.Flags().StringArrayVar(&deployOverrides, "set", nil, "Override a descriptor field, key=value (repeatable, dotted keys for nested fields)")
	deployCmd.Flags().BoolVar(&deployProbe, "probe", false, "Probe the API endpoints before submitting")
	deployCmd.Flags().BoolVarP(&deployYes, "yes", "y", false, "Submit without confirmation")
	_ = deployCmd.MarkFlagRequired("deployment-file")

	// Silence usage to avoid showing help on every error
	deployCmd.SilenceUsage = true
}

func runDeploy(cmd *cobra.Command, args []string) error {
	// The descriptor is checked before any network call
	ui.PrintInfo("Loading deployment from file: %s", deployFile)
	descriptor, err := loader.LoadDescriptor(deployFile)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("file load failed")
	}

	descriptor, err = loader.ApplyOverrides(descriptor, deployOverrides)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid override")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := authenticate(ctx)
	if err != nil {
		return cancelled(err)
	}

	if deployProbe {
		printProbe(cmd, session.Probe(ctx, nil))
	}

	ui.PrintBold("Deployment payload:")
	fmt.Fprintln(cmd.OutOrStdout(), ui.PrettyJSON(descriptor))

	if !deployYes {
		confirm := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Submit deployment to %s?", session.Server()),
		}
		if err := askOne(prompt, &confirm); err != nil {
			if isInterrupt(err) {
				return cancelled(errCancelled)
			}
			return fmt.Errorf("confirmation prompt failed: %w", err)
		}

		if !confirm {
			ui.PrintInfo("Deployment cancelled")
			return nil
		}
	}

	result, err := session.PostDeployment(ctx, descriptor)
	if err != nil {
		logger.WithError(logger.FromContext(ctx), err).Debug("deployment failed")
		ui.PrintRequestError("Deployment failed", err)
		return fmt.Errorf("deployment failed")
	}

	ui.PrintSuccessBox(
		fmt.Sprintf("✓ Deployment submitted (HTTP %d, %s)", result.StatusCode, result.Path),
		ui.PrettyJSON(result.Body),
	)
	return nil
}
