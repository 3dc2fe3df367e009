package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/importchain/pkg/chains"
	"github.com/matzehuels/importchain/pkg/contract"
	"github.com/matzehuels/importchain/pkg/render"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values such as module names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for broken contracts.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine formats search statistics on a single line.
func statsLine(count, length int, cached bool) string {
	parts := []string{fmt.Sprintf("%d chains", count)}
	if length > 0 {
		parts = append(parts, fmt.Sprintf("%d modules each", length))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line + StyleDim.Render(" · ") + statusStyle.Render(status)
}

// =============================================================================
// Chains
// =============================================================================

// chainsTable renders one row per chain with its index, hop count and path.
func chainsTable(set *chains.Set) string {
	rows := make([][]string, 0, set.Len())
	for i, c := range set.Chains() {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(c.Hops()), render.FormatChain(c)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Hops", "Chain").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 2:
				return StyleValue
			default:
				return StyleNumber
			}
		})
	return t.Render()
}

// printChains prints the chains found between importer and imported.
func printChains(importer, imported string, set *chains.Set, cached bool) {
	if set.Empty() {
		printWarning("No chain from %s to %s", importer, imported)
		return
	}
	printSuccess("%s %s %s", StyleHighlight.Render(importer), iconArrow, StyleHighlight.Render(imported))
	fmt.Println(chainsTable(set))
	fmt.Println(statsLine(set.Len(), set.Length(), cached))
}

// =============================================================================
// Contracts
// =============================================================================

// reportText renders a contract report: one status line per contract,
// followed by its violations and warnings.
func reportText(r *contract.Report) string {
	var b strings.Builder
	title := "Contracts"
	if r.Name != "" {
		title = r.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d modules · %d imports · %s",
		r.Modules, r.Imports, render.FormatDuration(r.Duration))))
	b.WriteString("\n\n")

	for _, res := range r.Results {
		if res.Kept() {
			b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + res.Contract + " " + StyleSuccess.Render("KEPT"))
		} else {
			b.WriteString(styleIconError.Render(iconError) + " " + res.Contract + " " + StyleError.Render("BROKEN"))
		}
		b.WriteString("\n")
		for _, v := range res.Violations {
			b.WriteString("  " + StyleHighlight.Render(v.Importer) + " is not allowed to import " + StyleHighlight.Render(v.Imported) + "\n")
			for _, c := range v.Chains.Chains() {
				b.WriteString("    " + StyleDim.Render(render.FormatChain(c)) + "\n")
			}
		}
		for _, w := range res.Warnings {
			b.WriteString("  " + styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(w) + "\n")
		}
	}

	kept, broken := r.Counts()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s kept, %s broken",
		StyleSuccess.Render(strconv.Itoa(kept)), StyleError.Render(strconv.Itoa(broken))))
	return b.String()
}

// printReport prints a contract report.
func printReport(r *contract.Report, cached bool) {
	fmt.Println(reportText(r))
	if cached {
		fmt.Println(StyleDim.Render("  ") + styleCached.Render(iconCached))
	}
}
