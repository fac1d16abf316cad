package cli

import (
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{58, "58 B"},
		{1024, "1.0 KB"},
		{17698, "17.3 KB"},
		{17620978, "16.8 MB"},
	}

	for _, tc := range testCases {
		if got := FormatBytes(tc.bytes); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{time.Second, "1.0s"},
		{99900 * time.Millisecond, "99.9s"},
	}

	for _, tc := range testCases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("Waveform Complete!", []SummaryLine{
		{"Tones", "999"},
		{"File Size", "16.8 MB"},
	})

	for _, want := range []string{"Waveform Complete!", "Tones:", "999", "File Size:", "16.8 MB"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("summary has %d line breaks, want 2", n)
	}
}
