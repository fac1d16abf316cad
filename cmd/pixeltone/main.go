package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/linuxmatters/pixeltone/internal/audio"
	"github.com/linuxmatters/pixeltone/internal/cli"
	"github.com/linuxmatters/pixeltone/internal/config"
	"github.com/linuxmatters/pixeltone/internal/pipeline"
	"github.com/linuxmatters/pixeltone/internal/renderer"
	"github.com/linuxmatters/pixeltone/internal/ui"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Input          string `arg:"" name:"input" help:"Input JPEG file (absolute path)" optional:""`
	Output         string `arg:"" name:"output" help:"Output WAV file (absolute path)" optional:""`
	Encoding       string `help:"Format tag declared in the WAV header: float or alaw" enum:"float,alaw" default:"float"`
	ChunkSize      int    `help:"Brightness values averaged into one tone" default:"${chunk_size}"`
	Quality        int    `help:"JPEG quality of the normalised image (1-100)" default:"${quality}"`
	Size           int    `help:"Edge of the normalised square image in pixels" default:"${size}"`
	Chart          string `help:"Also render the tone timeline as a PNG at this path" placeholder:"PATH"`
	ChartColor     string `help:"Bar colour of the timeline chart" default:"${chart_color}"`
	KeepCompressed bool   `help:"Keep the normalised JPEG next to the input"`
	NoTUI          bool   `name:"no-tui" help:"Print plain progress lines instead of the interactive UI"`
	NoPreview      bool   `help:"Disable the picture preview in the interactive UI"`
	Version        bool   `help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pixeltone"),
		kong.Description(cli.Tagline),
		kong.Vars{
			"version":     version,
			"chunk_size":  strconv.Itoa(config.ChunkSize),
			"quality":     strconv.Itoa(config.JPEGQuality),
			"size":        strconv.Itoa(config.ImageSize),
			"chart_color": config.ChartBarColor,
		},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	_ = ctx // Kong context available for future use

	if err := run(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func run() error {
	if err := validateArgs(CLI.Input, CLI.Output); err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	var chart renderer.Chart
	if CLI.Chart != "" {
		chart, err = buildChart(cfg)
		if err != nil {
			return err
		}
	}

	if cfg.Encoding == config.EncodingALaw {
		cli.PrintWarning("declaring A-law over 32-bit float samples; players will misread the payload")
	}

	opts := pipeline.Options{
		Config:         cfg,
		KeepCompressed: CLI.KeepCompressed,
	}

	var res *pipeline.Result
	var info *audio.Info
	if CLI.NoTUI || !isatty.IsTerminal(os.Stdout.Fd()) {
		res, info, err = runPlain(opts)
	} else {
		res, info, err = runTUI(opts)
	}
	if err != nil {
		return err
	}

	if CLI.Chart != "" {
		if err := renderer.RenderTimeline(CLI.Chart, res.Descriptors, res.Windows, chart); err != nil {
			cli.PrintWarning(fmt.Sprintf("waveform written but chart failed: %v", err))
		} else {
			cli.PrintInfo("Chart", CLI.Chart)
		}
	}

	if CLI.NoTUI || !isatty.IsTerminal(os.Stdout.Fd()) {
		cli.PrintSummary("Waveform Complete!", summaryLines(res, info, cfg))
	} else {
		cli.PrintSuccess(fmt.Sprintf("Done! Output: %s", res.OutputPath))
	}
	return nil
}

// buildConfig overlays the flags on the defaults
func buildConfig() (config.Config, error) {
	cfg := config.Default()

	enc, err := config.ParseEncoding(CLI.Encoding)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", pipeline.ErrArgument, err)
	}
	cfg.Encoding = enc
	cfg.ChunkSize = CLI.ChunkSize
	cfg.JPEGQuality = CLI.Quality
	cfg.ImageSize = CLI.Size

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", pipeline.ErrArgument, err)
	}
	return cfg, nil
}

func buildChart(cfg config.Config) (renderer.Chart, error) {
	chart := renderer.DefaultChart(filepath.Base(CLI.Input), cfg)

	r, g, b, err := config.ParseHexColor(CLI.ChartColor)
	if err != nil {
		return chart, fmt.Errorf("%w: --chart-color: %w", pipeline.ErrArgument, err)
	}
	chart.BarColor = color.RGBA{R: r, G: g, B: b, A: 255}
	return chart, nil
}

// probe reads the written header back; a failure only costs the summary
func probe(path string) *audio.Info {
	info, err := audio.Probe(path)
	if err != nil {
		cli.PrintWarning(fmt.Sprintf("could not read back %s: %v", path, err))
		return nil
	}
	return info
}

// runPlain prints one line per stage, for pipes and --no-tui
func runPlain(opts pipeline.Options) (*pipeline.Result, *audio.Info, error) {
	cli.PrintBanner()
	cli.PrintInfo("Input", CLI.Input)
	cli.PrintInfo("Output", CLI.Output)
	cli.PrintSection("Converting")

	opts.Hooks = pipeline.Hooks{
		Stage: func(s pipeline.Stage) {
			cli.PrintInfo(fmt.Sprintf("Stage %d/%d", int(s)+1, pipeline.NumStages), s.String())
		},
	}

	res, err := pipeline.Run(CLI.Input, CLI.Output, opts)
	if err != nil {
		return nil, nil, err
	}
	return res, probe(res.OutputPath), nil
}

// runTUI runs the pipeline in a goroutine and streams its hooks into the
// Bubbletea program
func runTUI(opts pipeline.Options) (*pipeline.Result, *audio.Info, error) {
	model := ui.NewModel(CLI.NoPreview)
	p := tea.NewProgram(model)

	opts.Hooks = pipeline.Hooks{
		Stage:   func(s pipeline.Stage) { p.Send(ui.StageMsg{Stage: s}) },
		Picture: func(img image.Image) { p.Send(ui.PictureMsg{Image: img}) },
		Tone:    func(done, total int) { p.Send(ui.ToneProgress{Done: done, Total: total}) },
	}

	var res *pipeline.Result
	var info *audio.Info
	var runErr error
	done := make(chan struct{})

	go func() {
		defer close(done)

		res, runErr = pipeline.Run(CLI.Input, CLI.Output, opts)
		if runErr != nil {
			p.Send(ui.Failed{Err: runErr})
			return
		}

		// Read back quietly; a warning here would tear the UI
		info, _ = audio.Probe(res.OutputPath)
		p.Send(ui.Complete{Result: res, Info: info})
	}()

	if _, err := p.Run(); err != nil {
		<-done
		return nil, nil, fmt.Errorf("running UI: %w", err)
	}

	// The UI can quit early on ctrl+c; the pipeline still owns its files
	// until Run returns
	<-done

	if runErr != nil {
		return nil, nil, runErr
	}
	return res, info, nil
}

func summaryLines(res *pipeline.Result, info *audio.Info, cfg config.Config) []cli.SummaryLine {
	audible := time.Duration(float64(len(res.Descriptors)) * cfg.ToneDuration * float64(time.Second))

	lines := []cli.SummaryLine{
		{Key: "Output", Value: res.OutputPath},
		{Key: "Tones", Value: fmt.Sprintf("%d of %d windows", len(res.Descriptors), res.Windows)},
		{Key: "Audible", Value: cli.FormatDuration(audible)},
	}
	if info != nil {
		lines = append(lines,
			cli.SummaryLine{Key: "Header", Value: fmt.Sprintf("%s, %d-bit, %d Hz, %d ch", info.FormatName(), info.BitDepth, info.SampleRate, info.Channels)},
			cli.SummaryLine{Key: "Header length", Value: cli.FormatDuration(info.Duration())},
			cli.SummaryLine{Key: "Data", Value: cli.FormatBytes(info.DataBytes)},
			cli.SummaryLine{Key: "File Size", Value: cli.FormatBytes(info.FileSize)},
		)
	}
	if res.CompressedPath != "" {
		lines = append(lines, cli.SummaryLine{Key: "Compressed", Value: res.CompressedPath})
	}
	lines = append(lines, cli.SummaryLine{Key: "Time", Value: cli.FormatDuration(res.Elapsed)})
	return lines
}
