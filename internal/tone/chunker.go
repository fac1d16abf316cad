package tone

import "github.com/linuxmatters/pixeltone/internal/config"

// Descriptor is one segment of the output timeline
type Descriptor struct {
	Window    int     // Index of the brightness window this tone came from
	Frequency int     // Hz, always > 0
	Duration  float64 // Seconds
}

// WindowCount returns how many windows Chunk examines for a sequence of
// the given length. Windows end strictly before the last element, so a
// sequence of 10000 values in windows of 10 yields 999.
func WindowCount(length, chunkSize int) int {
	if chunkSize <= 0 || length <= 0 {
		return 0
	}
	return (length - 1) / chunkSize
}

// Chunk averages consecutive windows of brightness and maps each average
// to a frequency. Window k covers [k*size, (k+1)*size). Windows whose
// frequency is not positive produce no descriptor, which leaves a gap in
// the timeline rather than an explicit silence. A trailing partial window
// is dropped.
func Chunk(brightness []int, cfg config.Config) []Descriptor {
	size := cfg.ChunkSize
	if size <= 0 {
		return nil
	}

	descriptors := make([]Descriptor, 0, WindowCount(len(brightness), size))
	for i := size; i < len(brightness); i += size {
		sum := 0
		for _, v := range brightness[i-size : i] {
			sum += v
		}

		frequency := (sum / size) * cfg.FrequencyScale
		if frequency <= 0 {
			continue
		}

		descriptors = append(descriptors, Descriptor{
			Window:    i/size - 1,
			Frequency: frequency,
			Duration:  cfg.ToneDuration,
		})
	}

	return descriptors
}
