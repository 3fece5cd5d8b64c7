package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
)

// loginCmd is the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "check credentials against the deployment API",
	Long: `Authenticate with the deployment API and report the result.

Nothing is saved: every other command logs in on its own. Use this to
verify an API URL and a set of credentials.`,
	Example: `  # Prompt for username and password
  $ corrinoctl login -a https://api.example.com

  # Username from the flag, password from the environment
  $ CORRINO_PASSWORD=... corrinoctl login -a https://api.example.com -u admin`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	// Silence usage to avoid showing help on every error
	loginCmd.SilenceUsage = true
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, err := authenticate(ctx)
	if err != nil {
		return cancelled(err)
	}

	isNew := "N/A"
	if v, ok := session.IsNew(); ok {
		isNew = fmt.Sprintf("%t", v)
	}

	content := fmt.Sprintf(`Server:  %s
Token:   %s
New:     %s`,
		session.Server(),
		ui.MaskToken(session.Token()),
		isNew,
	)
	ui.PrintSuccessBox("✓ Login Successful", content)

	return nil
}
