package ui

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/client"
)

var (
	// Color definitions for terminal output
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	successColor.Printf("✓ %s\n", msg)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	errorColor.Printf("✗ %s\n", msg)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	warningColor.Printf("⚠ %s\n", msg)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	infoColor.Printf("ℹ %s\n", msg)
}

// PrintBold prints a bold message
func PrintBold(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	boldColor.Println(msg)
}

// PrintRequestError prints a failed API call, including the response body
// and every endpoint attempted
func PrintRequestError(action string, err error) {
	reqErr, ok := client.AsRequestError(err)
	if !ok {
		PrintError("%s: %v", action, err)
		return
	}

	if reqErr.StatusCode != 0 {
		PrintError("%s: HTTP %d", action, reqErr.StatusCode)
	} else {
		PrintError("%s: %v", action, reqErr.Err)
	}
	for _, attempt := range reqErr.Attempts {
		fmt.Fprintf(color.Output, "  %s %s\n", attempt.Outcome, attempt.String())
	}
	if reqErr.Body != "" {
		fmt.Fprintf(color.Output, "Response: %s\n", PrettyJSON([]byte(reqErr.Body)))
	}
}

// PrintSuccessBox prints a success message in a box
func PrintSuccessBox(title, content string) {
	boxContent := fmt.Sprintf("%s\n\n%s",
		successColor.Sprint(title),
		content,
	)
	fmt.Fprintln(color.Output, Styles.SuccessBox.Render(boxContent))
}

// PrintErrorBox prints an error message in a box
func PrintErrorBox(title, content string) {
	boxContent := fmt.Sprintf("%s\n\n%s",
		errorColor.Sprint(title),
		content,
	)
	fmt.Fprintln(color.Output, Styles.ErrorBox.Render(boxContent))
}
