package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Help styles - spectrum theme
var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ToneAmber).MarginBottom(1)
	helpDescStyle    = lipgloss.NewStyle().Italic(true).Foreground(ToneViolet).MarginBottom(1)
	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(ToneCoral).MarginTop(1)
	helpArgStyle     = lipgloss.NewStyle().Bold(true).Foreground(ToneViolet)
	helpFlagStyle    = lipgloss.NewStyle().Bold(true).Foreground(ToneAmber)
	helpDefaultStyle = lipgloss.NewStyle().Italic(true).Foreground(SlateGray)
)

// helpRow is one line of the Arguments or Flags listing
type helpRow struct {
	name       string
	help       string
	defaultVal string
}

// StyledHelpPrinter renders kong's model with the pixeltone palette.
// Names are padded to a common width so the help text lines up.
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(AppName) + "\n")
		sb.WriteString(helpDescStyle.Render(Tagline) + "\n")

		sb.WriteString(helpSectionStyle.Render("Usage:") + "\n")
		fmt.Fprintf(&sb, "  %s <input.jpg> <output.wav> [flags]\n", ctx.Model.Name)

		writeHelpSection(&sb, "Arguments:", positionalRows(ctx.Model.Node), helpArgStyle)
		writeHelpSection(&sb, "Flags:", flagRows(ctx.Model.Node), helpFlagStyle)

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func writeHelpSection(sb *strings.Builder, title string, rows []helpRow, nameStyle lipgloss.Style) {
	if len(rows) == 0 {
		return
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.name))
	}

	sb.WriteString("\n" + helpSectionStyle.Render(title) + "\n")
	for _, r := range rows {
		sb.WriteString("  " + nameStyle.Render(fmt.Sprintf("%-*s", width, r.name)))
		if r.help != "" {
			sb.WriteString("  " + r.help)
		}
		if r.defaultVal != "" {
			sb.WriteString(" " + helpDefaultStyle.Render("(default: "+r.defaultVal+")"))
		}
		sb.WriteString("\n")
	}
}

func positionalRows(node *kong.Node) []helpRow {
	rows := make([]helpRow, 0, len(node.Positional))
	for _, arg := range node.Positional {
		rows = append(rows, helpRow{name: arg.Summary(), help: arg.Help})
	}
	return rows
}

// flagRows lists --help first, then the model's flags in declaration order.
// Defaults are shown for valued flags only.
func flagRows(node *kong.Node) []helpRow {
	rows := []helpRow{{name: "-h, --help", help: "Show context-sensitive help."}}

	for _, f := range node.Flags {
		if f.Name == "help" {
			continue
		}

		name := "--" + f.Name
		if f.Short != 0 {
			name = fmt.Sprintf("-%c, %s", f.Short, name)
		}
		if !f.IsBool() && f.PlaceHolder != "" {
			name += "=" + strings.ToUpper(f.PlaceHolder)
		}

		row := helpRow{name: name, help: f.Help}
		if f.HasDefault && !f.IsBool() {
			row.defaultVal = f.Default
		}
		rows = append(rows, row)
	}

	return rows
}
