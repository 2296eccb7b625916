package cli

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
	"github.com/matzehuels/castgraph/pkg/render"
)

// stdout receives user-facing output. Logs and the spinner go to stderr.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// =============================================================================
// Colors
// =============================================================================

// Graph colors come from the render palette, so a focused character looks
// the same in the terminal as in a rendered SVG.
var (
	colorCharacter = lipgloss.Color(render.DefaultPalette.Node)
	colorHighlight = lipgloss.Color(render.DefaultPalette.Highlight)
	colorFocus     = lipgloss.Color(render.DefaultPalette.Focus)
	colorEdge      = lipgloss.Color(render.DefaultPalette.Edge)

	colorOK    = lipgloss.Color("35")
	colorError = lipgloss.Color("167")
	colorWarn  = lipgloss.Color("220")
	colorText  = lipgloss.Color("255")
	colorMuted = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorHighlight)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)

	styleCharacter = lipgloss.NewStyle().Foreground(colorCharacter)
	styleFocusName = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	styleRelType   = lipgloss.NewStyle().Foreground(colorHighlight)
	styleEdge      = lipgloss.NewStyle().Foreground(colorEdge)
	styleError     = lipgloss.NewStyle().Foreground(colorError)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorError)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorHighlight)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCharacter)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Graph Summaries
// =============================================================================

// graphSummary renders "12 characters · 30 relationships · cached".
func graphSummary(characters, relationships int, cached bool) string {
	source := "fresh"
	if cached {
		source = "cached"
	}
	return strings.Join([]string{
		plural(characters, "character"),
		plural(relationships, "relationship"),
		source,
	}, " · ")
}

func printGraphSummary(characters, relationships int, cached bool) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(graphSummary(characters, relationships, cached)))
}

// byImportance orders characters by weight, heaviest first, then by id.
func byImportance(nodes []graph.Node) []graph.Node {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, func(a, b graph.Node) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// printCast lists the most important characters of a graph.
func printCast(snap *graph.Snapshot, limit int) {
	nodes := byImportance(snap.Nodes())
	if len(nodes) == 0 {
		return
	}
	names := make([]string, 0, min(limit, len(nodes)))
	for _, n := range nodes[:min(limit, len(nodes))] {
		names = append(names, styleCharacter.Render(n.ID)+StyleDim.Render(fmt.Sprintf(" (%g)", n.Weight)))
	}
	line := strings.Join(names, StyleDim.Render(", "))
	if rest := len(nodes) - limit; rest > 0 {
		line += StyleDim.Render(fmt.Sprintf(" +%d more", rest))
	}
	fmt.Fprintln(stdout, "  "+StyleDim.Render("cast: ")+line)
}

// relationshipLine renders one relationship for the explorer panel.
func relationshipLine(r interaction.Relationship) string {
	return fmt.Sprintf("%s %s %s  %s %s",
		r.Source, styleEdge.Render(iconArrow), r.Target,
		styleRelType.Render(r.Type), StyleDim.Render(r.Description))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
