package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/roadmap"
	"github.com/matzehuels/waymark/pkg/service"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
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

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

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
	iconLiked   = "♥"
	iconUnliked = "♡"
	iconPlus    = "+"
	iconMinus   = "−"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
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

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fprintKeyValue(os.Stdout, key, value)
}

func fprintKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints diagram statistics on a single line.
func printStats(nodeCount, edgeCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", nodeCount))
	}
	if edgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edgeCount))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Roadmaps
// =============================================================================

// roadmapTable renders roadmaps as a bordered table.
func roadmapTable(views []service.RoadmapView) string {
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			v.ID,
			v.Title,
			"@" + v.Author.Username,
			likeLabel(v.Liked, v.DisplayLikes),
			strconv.Itoa(v.NodeCount),
			strings.Join(v.Tags, ", "),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Author", "Likes", "Steps", "Tags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 5:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 3 && views[row].Liked:
				return lipgloss.NewStyle().Foreground(colorRed)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func likeLabel(liked bool, count int) string {
	if liked {
		return fmt.Sprintf("%s %d", iconLiked, count)
	}
	return fmt.Sprintf("%s %d", iconUnliked, count)
}

// printRoadmapHeader writes title, author, likes and tags of one roadmap.
func printRoadmapHeader(w io.Writer, v *service.RoadmapView) {
	fmt.Fprintln(w, StyleTitle.Render(v.Title))
	if v.Description != "" {
		fmt.Fprintln(w, StyleDim.Render(v.Description))
	}
	fmt.Fprintln(w)
	fprintKeyValue(w, "ID", v.ID)
	fprintKeyValue(w, "Author", "@"+v.Author.Username)
	fprintKeyValue(w, "Likes", likeLabel(v.Liked, v.DisplayLikes))
	if len(v.Tags) > 0 {
		fprintKeyValue(w, "Tags", strings.Join(v.Tags, ", "))
	}
	fprintKeyValue(w, "Created", v.CreatedAt.Format("Jan 2, 2006"))
}

// treeOutline renders the visible part of a node tree as indented lines.
// Collapsed nodes with children are marked "+", expanded ones "−".
func treeOutline(nodes []roadmap.Node, exp layout.Expanded) string {
	var b strings.Builder
	for _, r := range visibleRows(nodes, exp) {
		b.WriteString(strings.Repeat("  ", r.depth))
		b.WriteString(StyleHighlight.Render(stepMarker(r.node, exp)))
		b.WriteString(" ")
		b.WriteString(StyleValue.Render(r.node.Title))
		b.WriteString(" ")
		b.WriteString(StyleDim.Render("(" + r.node.ID + ")"))
		b.WriteString("\n")
	}
	return b.String()
}

// stepMarker returns "+" for a collapsed node with children, "−" for an
// expanded one, and a space for a leaf.
func stepMarker(n roadmap.Node, exp layout.Expanded) string {
	switch {
	case !n.HasChildren():
		return " "
	case exp.Has(n.ID):
		return iconMinus
	}
	return iconPlus
}

// printComments writes a roadmap's comments under a counted title, oldest
// first.
func printComments(w io.Writer, comments []roadmap.Comment) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
	if len(comments) == 0 {
		fmt.Fprintln(w, "  "+StyleDim.Render("No comments yet"))
		return
	}
	for _, c := range comments {
		fmt.Fprintln(w, StyleHighlight.Render("@"+c.Username)+" "+StyleDim.Render(c.Timestamp.Format("Jan 2, 15:04")))
		fmt.Fprintln(w, "  "+c.Text)
	}
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
