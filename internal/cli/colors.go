package cli

import "github.com/charmbracelet/lipgloss"

// Spectrum colour palette 🎨
// Shared colours for consistent branding across CLI and TUI, running from
// the low end of the tone range to the high end
var (
	ToneIndigo = lipgloss.Color("#4B0082") // Low tones
	ToneViolet = lipgloss.Color("#8A2BE2")
	ToneAmber  = lipgloss.Color("#F8B31D") // High tones
	ToneCoral  = lipgloss.Color("#FF7F50")

	// Accent colours
	SlateGray = lipgloss.Color("#708090") // Subtle text
)
