package pipeline

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/linuxmatters/pixeltone/internal/audio"
	"github.com/linuxmatters/pixeltone/internal/config"
	"github.com/linuxmatters/pixeltone/internal/picture"
)

// writeInput encodes a 100x100 test picture where rows below split are
// white and the rest black
func writeInput(t *testing.T, dir string, split int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		c := color.Black
		if y >= split {
			c = color.White
		}
		for x := 0; x < 100; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "input.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create input: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("failed to encode input: %v", err)
	}
	return path
}

func defaultOptions() Options {
	return Options{Config: config.Default()}
}

func assertNoArtifact(t *testing.T, input string) {
	t.Helper()
	if _, err := os.Stat(picture.CompressedPath(input)); !os.IsNotExist(err) {
		t.Errorf("compressed artifact still present: %v", err)
	}
}

func TestRun_AllBlack(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 100)
	output := filepath.Join(dir, "out.wav")

	res, err := Run(input, output, defaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Pixels != 10000 {
		t.Errorf("pixels = %d, want 10000", res.Pixels)
	}
	if res.Windows != 999 {
		t.Errorf("windows = %d, want 999", res.Windows)
	}
	if len(res.Descriptors) != 0 {
		t.Errorf("all-black produced %d tones, want 0", len(res.Descriptors))
	}

	info, err := audio.Probe(output)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.DataBytes != 0 {
		t.Errorf("data bytes = %d, want 0 (header only)", info.DataBytes)
	}

	assertNoArtifact(t, input)
}

func TestRun_AllWhite(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 0)
	output := filepath.Join(dir, "out.wav")

	res, err := Run(input, output, defaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Descriptors) != 999 {
		t.Fatalf("all-white produced %d tones, want 999", len(res.Descriptors))
	}
	for i, d := range res.Descriptors {
		if d.Frequency != 5100 {
			t.Errorf("tone %d = %d Hz, want 5100", i, d.Frequency)
		}
		if d.Duration != 0.1 {
			t.Errorf("tone %d duration = %g, want 0.1", i, d.Duration)
		}
	}

	info, err := audio.Probe(output)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if want := int64(999 * 4410 * 4); info.DataBytes != want {
		t.Errorf("data bytes = %d, want %d", info.DataBytes, want)
	}

	assertNoArtifact(t, input)
}

// TestRun_HalfAndHalf splits the picture at row 50. JPEG blocks are 8 rows
// tall, so rows 48-55 may ring; everything outside that band is exact.
func TestRun_HalfAndHalf(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 50)
	output := filepath.Join(dir, "out.wav")

	res, err := Run(input, output, defaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Descriptors) == 0 {
		t.Fatal("no tones produced")
	}

	first := res.Descriptors[0].Window
	if first < 480 || first > 500 {
		t.Errorf("first tone from window %d, want 480..500 (row 50 boundary)", first)
	}

	emitted := make(map[int]int)
	for _, d := range res.Descriptors {
		emitted[d.Window] = d.Frequency
	}
	for w := 560; w < 999; w++ {
		if emitted[w] != 5100 {
			t.Errorf("window %d = %d Hz, want 5100", w, emitted[w])
		}
	}

	for i := 1; i < len(res.Descriptors); i++ {
		if res.Descriptors[i].Window <= res.Descriptors[i-1].Window {
			t.Fatalf("tones out of order at %d", i)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 37)

	a, err := Run(input, filepath.Join(dir, "a.wav"), defaultOptions())
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	b, err := Run(input, filepath.Join(dir, "b.wav"), defaultOptions())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	if len(a.Descriptors) != len(b.Descriptors) {
		t.Fatalf("descriptor counts differ: %d vs %d", len(a.Descriptors), len(b.Descriptors))
	}
	for i := range a.Descriptors {
		if a.Descriptors[i] != b.Descriptors[i] {
			t.Fatalf("descriptor %d differs: %+v vs %+v", i, a.Descriptors[i], b.Descriptors[i])
		}
	}

	wa, _ := os.ReadFile(filepath.Join(dir, "a.wav"))
	wb, _ := os.ReadFile(filepath.Join(dir, "b.wav"))
	if string(wa) != string(wb) {
		t.Error("output files differ between runs")
	}
}

func TestRun_StagesInOrder(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 0)

	var stages []Stage
	var pictures, tones int
	opts := defaultOptions()
	opts.Hooks = Hooks{
		Stage:   func(s Stage) { stages = append(stages, s) },
		Picture: func(image.Image) { pictures++ },
		Tone:    func(done, total int) { tones = done },
	}

	if _, err := Run(input, filepath.Join(dir, "out.wav"), opts); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []Stage{StageNormalize, StageExtract, StageChunk, StageWrite}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d = %v, want %v", i, stages[i], want[i])
		}
	}
	if pictures != 1 {
		t.Errorf("picture hook called %d times, want 1", pictures)
	}
	if tones != 999 {
		t.Errorf("last tone progress = %d, want 999", tones)
	}
}

func TestRun_KeepCompressed(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 50)

	opts := defaultOptions()
	opts.KeepCompressed = true

	res, err := Run(input, filepath.Join(dir, "out.wav"), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.CompressedPath != picture.CompressedPath(input) {
		t.Errorf("CompressedPath = %q, want %q", res.CompressedPath, picture.CompressedPath(input))
	}
	if _, err := os.Stat(res.CompressedPath); err != nil {
		t.Errorf("compressed image missing: %v", err)
	}
}

func TestRun_DecodeError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(input, []byte("\xff\xd8 truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.wav")

	_, err := Run(input, output, defaultOptions())
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Run = %v, want ErrDecode", err)
	}
	if errors.Is(err, ErrIO) {
		t.Errorf("decode failure also reported as ErrIO: %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output written despite decode failure")
	}
}

// TestRun_WriteFailureCleansUp points the output at a missing directory: the
// write fails after normalisation, and the artifact must still be removed.
func TestRun_WriteFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 0)
	output := filepath.Join(dir, "no-such-dir", "out.wav")

	_, err := Run(input, output, defaultOptions())
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Run = %v, want ErrIO", err)
	}

	assertNoArtifact(t, input)
}

func TestRun_ExistingArtifactKept(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 0)
	output := filepath.Join(dir, "out.wav")

	existing := picture.CompressedPath(input)
	if err := os.WriteFile(existing, []byte("user data"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(input, output, defaultOptions())
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Run = %v, want ErrIO", err)
	}
	if !errors.Is(err, picture.ErrArtifactExists) {
		t.Errorf("Run = %v, want ErrArtifactExists in chain", err)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("existing file removed: %v", err)
	}
	if string(data) != "user data" {
		t.Errorf("existing file overwritten: %q", data)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output written despite refusing to run")
	}
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(filepath.Join(dir, "missing.jpg"), filepath.Join(dir, "out.wav"), defaultOptions())
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Run = %v, want ErrIO", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 0)

	opts := defaultOptions()
	opts.Config.ChunkSize = 0

	_, err := Run(input, filepath.Join(dir, "out.wav"), opts)
	if !errors.Is(err, ErrArgument) {
		t.Fatalf("Run = %v, want ErrArgument", err)
	}

	// Rejected before any stage touched the filesystem
	assertNoArtifact(t, input)
}

func TestRun_CustomChunkSize(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, 0)

	opts := defaultOptions()
	opts.Config.ChunkSize = 100

	res, err := Run(input, filepath.Join(dir, "out.wav"), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Windows != 99 || len(res.Descriptors) != 99 {
		t.Errorf("windows/tones = %d/%d, want 99/99", res.Windows, len(res.Descriptors))
	}
}

func TestStageString(t *testing.T) {
	if StageWrite.String() != "Writing waveform" {
		t.Errorf("StageWrite.String() = %q", StageWrite.String())
	}
	if Stage(42).String() != "Stage(42)" {
		t.Errorf("Stage(42).String() = %q", Stage(42).String())
	}
}
