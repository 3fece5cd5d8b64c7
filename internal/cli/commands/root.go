package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/client"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/config"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/credentials"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

const (
	binaryName = "corrinoctl"
	version    = "0.1.0"
)

var (
	// resolved once per invocation in PersistentPreRunE; the logger travels
	// in the command context
	cfg *config.Config

	// askOne drives every interactive prompt
	askOne credentials.AskFunc = survey.AskOne
	// credentialProvider, when set, replaces the default flag/env/prompt chain
	credentialProvider credentials.Provider
)

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     binaryName,
	Short:   "Corrino deployment API CLI",
	Version: version,
	Long: `A command-line client for the Corrino deployment API.

Authenticates against the API, lists and inspects deployments, submits
deployment descriptors, undeploys, and streams chat completions from an
OpenAI-compatible inference endpoint.

Every invocation logs in afresh. Credentials come from --username,
CORRINO_USERNAME / CORRINO_PASSWORD, or an interactive prompt, and are
never stored.`,
	Example: `  # List deployments
  $ corrinoctl list -a https://api.example.com

  # Submit a deployment descriptor
  $ corrinoctl deploy -a https://api.example.com -d deployment.json

  # Stream a completion from a vLLM server
  $ corrinoctl chat 10.0.0.5:8000 meta-llama/Llama-3.1-8B-Instruct

  # Get help on a specific command
  $ corrinoctl deploy --help`,
	PersistentPreRunE: setup,
}

// Execute executes the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringP("api-url", "a", "", "Deployment API base URL (env CORRINO_API_URL)")
	flags.StringP("username", "u", "", "Username for authentication (env CORRINO_USERNAME)")
	flags.Bool("verify-tls", false, "Verify the API's TLS certificate")
	flags.Duration("timeout", 0, "Read/write timeout for each API request, e.g. 45s (default 30s)")
	flags.String("log-level", "", "Diagnostic log level: debug, info, warn, error (default warn)")
	flags.String("log-format", "", "Diagnostic log format: text or json (default text)")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(undeployCmd)
	rootCmd.AddCommand(chatCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

// setup resolves configuration and logging for the invoked command
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cmd.Flags())
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid configuration")
	}

	l, err := logger.Setup(c.Log)
	if err != nil {
		ui.PrintError("failed to set up logging: %v", err)
		return fmt.Errorf("invalid configuration")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithContext(ctx, l.With("command", cmd.Name())))

	cfg = c
	return nil
}

// commandContext scopes the API calls of a command. It ends on interrupt;
// cfg.Timeout is applied per request by the HTTP client.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithCancel(ctx)
}

// newAPIClient builds an unauthenticated client for the configured API
func newAPIClient(ctx context.Context) (*client.APIClient, error) {
	if err := cfg.RequireAPIURL(); err != nil {
		ui.PrintError("%v", err)
		return nil, fmt.Errorf("missing api url")
	}

	apiClient, err := client.NewAPIClient(client.Options{
		Server:    cfg.APIURL,
		VerifyTLS: cfg.VerifyTLS,
		Timeout:   cfg.Timeout,
		UserAgent: binaryName + "/" + version,
		Logger:    logger.FromContext(ctx),
	})
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, fmt.Errorf("client creation failed")
	}
	return apiClient, nil
}

// credentialsProvider consults flags and config, then the environment,
// then prompts
func credentialsProvider() credentials.Provider {
	if credentialProvider != nil {
		return credentialProvider
	}
	return credentials.Chain{
		credentials.Static{Username: cfg.Username},
		credentials.Env{},
		credentials.Prompt{Ask: askOne},
	}
}

// authenticate resolves credentials and logs in. Failures are reported to
// the user; the returned error is only a short summary.
func authenticate(ctx context.Context) (*client.Session, error) {
	apiClient, err := newAPIClient(ctx)
	if err != nil {
		return nil, err
	}

	creds, err := credentials.Resolve(ctx, credentialsProvider())
	if err != nil {
		if isInterrupt(err) {
			return nil, errCancelled
		}
		ui.PrintError("%v", err)
		return nil, fmt.Errorf("credentials required")
	}

	ui.PrintInfo("Authenticating with %s...", apiClient.Server())

	session, err := apiClient.Login(ctx, creds)
	if err != nil {
		logger.WithError(logger.FromContext(ctx), err).Debug("login failed")
		ui.PrintErrorBox("Login Failed", loginFailure(err))
		return nil, fmt.Errorf("authentication failed")
	}

	ui.PrintSuccess("Authenticated successfully")
	return session, nil
}

// loginFailure describes a rejected login without repeating the request line
func loginFailure(err error) string {
	reqErr, ok := client.AsRequestError(err)
	if !ok {
		return err.Error()
	}
	msg := reqErr.Err.Error()
	if reqErr.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, reqErr.StatusCode)
	}
	if reqErr.Body != "" {
		msg += "\n\n" + ui.Truncate(reqErr.Body, 200)
	}
	return msg
}

// errCancelled marks a user-initiated abort; commands return nil for it
var errCancelled = errors.New("cancelled")

func isInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr)
}

// cancelled reports a user abort, mapping errCancelled to success
func cancelled(err error) error {
	if errors.Is(err, errCancelled) {
		ui.PrintWarning("Cancelled")
		return nil
	}
	return err
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

` + ui.Styles.Bold.Render("ALIASES") + `
  {{.NameAndAliases}}{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("%s version %s\n", binaryName, version)
}
