package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/inference"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/ui"
	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

var chatPrompt string

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat HOST MODEL",
	Short: "stream a chat completion from an inference server",
	Long: `Send one prompt to an OpenAI-compatible inference server and print the
answer as it streams in.

HOST is host:port (plain http) or a full URL. This talks to the inference
server directly; it does not log in to the deployment API. The stream is not
bound by --timeout; interrupt it with Ctrl-C.`,
	Example: `  # Stream the default prompt
  $ corrinoctl chat 10.0.0.5:8000 meta-llama/Llama-3.1-8B-Instruct

  # Custom prompt
  $ corrinoctl chat https://vllm.example.com my-model --prompt "Explain OCI in one sentence"`,
	Args: cobra.ExactArgs(2),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatPrompt, "prompt", inference.DefaultPrompt, "Prompt to send")

	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	host, model := args[0], args[1]

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := inference.NewClient(host, inference.Options{
		VerifyTLS: cfg.VerifyTLS,
		Logger:    logger.FromContext(ctx),
	})
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}
	if err := c.Print(ctx, inference.NewRequest(model, chatPrompt), cmd.OutOrStdout()); err != nil {
		if ctx.Err() != nil {
			ui.PrintWarning("Interrupted")
			return nil
		}
		ui.PrintErrorBox("Chat Failed", err.Error())
		return fmt.Errorf("chat failed")
	}
	return nil
}
