package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestStyledHelpPrinter(t *testing.T) {
	var args struct {
		Input string `arg:"" name:"input" help:"Input JPEG file" optional:""`
		Size  int    `help:"Edge of the square" default:"100"`
		Quiet bool   `help:"Be quiet"`
	}

	var out bytes.Buffer
	parser, err := kong.New(&args,
		kong.Name("pixeltone"),
		kong.Help(StyledHelpPrinter(kong.HelpOptions{})),
		kong.Writers(&out, &out),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	_, _ = parser.Parse([]string{"--help"})

	help := out.String()
	for _, want := range []string{
		"pixeltone <input.jpg> <output.wav> [flags]",
		"Input JPEG file",
		"-h, --help",
		"--size",
		"(default: 100)",
		"--quiet",
		"Be quiet",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	if strings.Contains(help, "(default: false)") {
		t.Error("bool flag shows a default")
	}
}
