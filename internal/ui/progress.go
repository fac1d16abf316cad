package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/pixeltone/internal/audio"
	"github.com/linuxmatters/pixeltone/internal/cli"
	"github.com/linuxmatters/pixeltone/internal/pipeline"
	"github.com/linuxmatters/pixeltone/internal/tone"
)

// StageMsg announces that the pipeline entered a new stage
type StageMsg struct {
	Stage pipeline.Stage
}

// PictureMsg carries the normalised picture for the preview
type PictureMsg struct {
	Image image.Image
}

// ToneProgress reports how many tones have been written so far
type ToneProgress struct {
	Done  int
	Total int
}

// Complete signals a successful conversion
type Complete struct {
	Result *pipeline.Result
	Info   *audio.Info // header as written, nil if it could not be read back
}

// Failed signals that the conversion stopped with an error
type Failed struct {
	Err error
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// Model implements the Bubbletea model for a single conversion
type Model struct {
	progressBar progress.Model

	stage     pipeline.Stage
	started   bool
	tones     ToneProgress
	picture   image.Image
	complete  *Complete
	err       error
	startTime time.Time

	width           int
	noPreview       bool
	cachedPreview   string
	completionDelay time.Duration
}

// NewModel creates a new progress UI model
func NewModel(noPreview bool) *Model {
	p := progress.New(
		progress.WithGradient(string(cli.ToneIndigo), string(cli.ToneAmber)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:     p,
		startTime:       time.Now(),
		noPreview:       noPreview,
		completionDelay: 1 * time.Second,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(10, min(msg.Width-30, 50))
		return m, nil

	case StageMsg:
		m.stage = msg.Stage
		m.started = true
		return m, nil

	case PictureMsg:
		m.picture = msg.Image
		m.cachedPreview = ""
		return m, nil

	case ToneProgress:
		m.tones = msg
		return m, nil

	case Complete:
		m.complete = &msg
		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case Failed:
		m.err = msg.Err
		return m, tea.Quit

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.err != nil {
		return ""
	}
	if m.complete != nil {
		return m.renderComplete()
	}
	return m.renderProgress()
}

// Percent returns overall progress in [0, 1]. Each stage is an equal share;
// the write stage advances with the tones written.
func (m *Model) Percent() float64 {
	if m.complete != nil {
		return 1
	}
	if !m.started {
		return 0
	}
	within := 0.0
	if m.stage == pipeline.StageWrite && m.tones.Total > 0 {
		within = float64(m.tones.Done) / float64(m.tones.Total)
	}
	return (float64(m.stage) + within) / pipeline.NumStages
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ToneAmber).
		Render(cli.AppName)
	s.WriteString(title)
	s.WriteString("\n")

	label := "Starting..."
	if m.started {
		label = fmt.Sprintf("Stage %d/%d: %s", int(m.stage)+1, pipeline.NumStages, m.stage)
	}
	s.WriteString(lipgloss.NewStyle().Foreground(cli.ToneViolet).Render(label))
	s.WriteString("\n\n")

	percent := m.Percent()
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")

	timing := fmt.Sprintf("Time: %s", cli.FormatDuration(time.Since(m.startTime)))
	if m.tones.Total > 0 {
		timing += fmt.Sprintf("  │  Tones: %d of %d", m.tones.Done, m.tones.Total)
	}
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(timing))

	if preview := m.preview(); preview != "" {
		s.WriteString("\n\n")
		s.WriteString(preview)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.ToneCoral).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) preview() string {
	if m.noPreview || m.picture == nil {
		return ""
	}
	if m.cachedPreview == "" {
		grid := DownsamplePicture(m.picture, DefaultPreviewConfig())
		m.cachedPreview = RenderPreview(grid)
	}
	return m.cachedPreview
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ToneAmber).
		Render("✓ Waveform Complete!")
	s.WriteString(title)
	s.WriteString("\n\n")

	res := m.complete.Result
	dimLabel := lipgloss.NewStyle().Faint(true)

	s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Output:   "), res.OutputPath))
	s.WriteString(fmt.Sprintf("%s%d of %d windows\n", dimLabel.Render("Tones:    "), len(res.Descriptors), res.Windows))
	if info := m.complete.Info; info != nil {
		s.WriteString(fmt.Sprintf("%s%s, %d Hz, %d ch\n", dimLabel.Render("Header:   "), info.FormatName(), info.SampleRate, info.Channels))
		s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Size:     "), cli.FormatBytes(info.FileSize)))
	}
	s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Time:     "), cli.FormatDuration(res.Elapsed)))

	if len(res.Descriptors) > 0 {
		width := 64
		if m.width > 10 {
			width = min(m.width-10, 64)
		}
		s.WriteString("\n")
		s.WriteString(dimLabel.Render("Tone contour:"))
		s.WriteString("\n")
		s.WriteString(renderContour(res.Descriptors, res.Windows, width))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.ToneViolet).
		Padding(1, 2).
		Render(s.String()) + "\n"
}

var contourBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// contourLevels maps the emitted tones onto width columns across all
// windows. Each column holds the highest frequency that falls in it,
// scaled to a block index; -1 marks a column with no tone.
func contourLevels(descriptors []tone.Descriptor, windows, width int) []int {
	if width <= 0 || windows <= 0 {
		return nil
	}

	peak := 0
	for _, d := range descriptors {
		if d.Frequency > peak {
			peak = d.Frequency
		}
	}

	levels := make([]int, width)
	for i := range levels {
		levels[i] = -1
	}
	if peak == 0 {
		return levels
	}

	for _, d := range descriptors {
		col := d.Window * width / windows
		if col >= width {
			col = width - 1
		}
		level := d.Frequency * (len(contourBlocks) - 1) / peak
		if level > levels[col] {
			levels[col] = level
		}
	}
	return levels
}

// renderContour draws one row of blocks, silent columns left blank
func renderContour(descriptors []tone.Descriptor, windows, width int) string {
	colors := []lipgloss.Color{cli.ToneIndigo, cli.ToneViolet, cli.ToneCoral, cli.ToneAmber}

	var result strings.Builder
	for _, level := range contourLevels(descriptors, windows, width) {
		if level < 0 {
			result.WriteString(" ")
			continue
		}
		c := colors[level*(len(colors)-1)/(len(contourBlocks)-1)]
		result.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(contourBlocks[level])))
	}
	return result.String()
}
