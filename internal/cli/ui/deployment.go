package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fatih/color"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/types"
)

// NotAvailable is shown for fields a deployment record does not carry
const NotAvailable = "N/A"

var (
	deploymentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)  // Cyan
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // Gray
	highlightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true) // Pink

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

// deploymentFields are always shown, with N/A when missing
var deploymentFields = []struct {
	label string
	field string
}{
	{"Mode", types.FieldMode},
	{"Name", types.FieldDeploymentName},
	{"Hash", types.FieldDeploymentUUID},
	{"Created", types.FieldCreationDate},
	{"Status", types.FieldDeploymentStatus},
	{"Directive", types.FieldDeploymentDirective},
}

// recipeFields are shown only when present
var recipeFields = []string{
	types.FieldRecipeID,
	types.FieldRecipeMode,
	types.FieldRecipeNodeShape,
}

// RenderDeployments renders one tree per deployment record. Missing fields
// never fail rendering.
func RenderDeployments(records []types.DeploymentRecord) string {
	if len(records) == 0 {
		return mutedStyle.Render("No deployments found")
	}

	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(buildDeploymentNode(i+1, record).String())
	}
	return b.String()
}

func buildDeploymentNode(index int, record types.DeploymentRecord) *tree.Tree {
	node := tree.New().Root(deploymentStyle.Render(fmt.Sprintf("Deployment %d", index)))

	for _, f := range deploymentFields {
		value := record.GetOr(f.field, NotAvailable)
		if f.field == types.FieldDeploymentStatus {
			value = coloredStatus(value)
		}
		node.Child(formatKeyValue(f.label+":", value))
	}

	for _, field := range recipeFields {
		if value, ok := record.Get(field); ok {
			node.Child(formatKeyValue(field+":", value))
		}
	}

	return node
}

// formatKeyValue formats a key-value pair
func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", key, value)
}

// coloredStatus colors well-known deployment states
func coloredStatus(status string) string {
	switch strings.ToLower(status) {
	case "monitoring", "running", "active", "deployed", "succeeded":
		return color.GreenString(status)
	case "pending", "queued", "deploying", "undeploying", "in_progress":
		return color.YellowString(status)
	case "failed", "error", "destroyed", "undeployed":
		return color.RedString(status)
	default:
		return status
	}
}

// RenderDeploymentHints lists the info commands for every record that
// carries a deployment hash. It returns "" when no record does.
func RenderDeploymentHints(records []types.DeploymentRecord, binary string) string {
	var lines []string
	for _, record := range records {
		hash, ok := record.Get(types.FieldDeploymentHash)
		if !ok || hash == "" {
			continue
		}
		for _, endpoint := range []string{"digests", "logs"} {
			lines = append(lines, fmt.Sprintf("  %s info -e %s -d %s", binary, endpoint, hash))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "To get deployment info, use:\n" + strings.Join(lines, "\n")
}

// RenderDeploymentSummary renders a count line
func RenderDeploymentSummary(count int) string {
	label := "deployments"
	if count == 1 {
		label = "deployment"
	}
	summary := fmt.Sprintf("Found %s %s",
		highlightStyle.Render(fmt.Sprintf("%d", count)),
		mutedStyle.Render(label),
	)
	return summaryStyle.Render(summary)
}
