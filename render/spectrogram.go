package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/RyanBlaney/sonido-prosody/algorithms/spectral"
)

var (
	intensityColor = color.RGBA{R: 0x06, G: 0xB6, B: 0xD4, A: 0xFF} // cyan
	pitchColor     = color.RGBA{R: 0xE0, G: 0x2A, B: 0xD8, A: 0xFF} // magenta
	syllableColor  = color.RGBA{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF} // amber
)

// Spectrogram draws a dB magnitude spectrogram of the analyzed audio and
// overlays the intensity curve, the voiced pitch contour and syllable
// boundary markers on a shared time axis.
type Spectrogram struct {
	WindowSize int     // STFT window in samples
	HopSize    int     // STFT hop in samples
	MaxFreqHz  float64 // highest frequency drawn
	FloorDB    float64 // quietest level drawn, relative to the peak
	Height     int     // image height in pixels
}

// NewSpectrogram returns a renderer tuned for speech
func NewSpectrogram() *Spectrogram {
	return &Spectrogram{
		WindowSize: 1024,
		HopSize:    256,
		MaxFreqHz:  4000,
		FloorDB:    -80,
		Height:     256,
	}
}

// Extension implements Renderer
func (s *Spectrogram) Extension() string { return ".png" }

// Render implements Renderer
func (s *Spectrogram) Render(w io.Writer, report *Report) error {
	img, err := s.Draw(report)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Draw builds the annotated spectrogram image
func (s *Spectrogram) Draw(report *Report) (*image.RGBA, error) {
	buf := report.Buffer
	if len(buf.Samples) == 0 || buf.SampleRate <= 0 {
		return nil, fmt.Errorf("spectrogram needs the analyzed samples")
	}
	if s.Height <= 0 || s.FloorDB >= 0 {
		return nil, fmt.Errorf("spectrogram needs a positive height and a negative dB floor")
	}

	windowSize := min(s.WindowSize, len(buf.Samples))
	stft, err := spectral.NewSTFT().Compute(buf.Samples, windowSize, s.HopSize, buf.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute spectrogram: %w", err)
	}

	maxBin := stft.FreqBins - 1
	if s.MaxFreqHz > 0 && stft.FreqResolution > 0 {
		maxBin = min(maxBin, int(s.MaxFreqHz/stft.FreqResolution))
	}

	width := stft.TimeFrames
	height := s.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	db := stft.ToDecibels(s.FloorDB)
	for x := range width {
		for y := range height {
			// row 0 is the top of the image, i.e. the highest frequency
			bin := (height - 1 - y) * maxBin / max(1, height-1)
			level := 1 - db[x][bin]/s.FloorDB
			g := uint8(255 * clamp01(level))
			img.SetRGBA(x, y, color.RGBA{R: g, G: g, B: g, A: 0xFF})
		}
	}

	duration := buf.Duration()
	toX := func(seconds float64) int {
		return int(seconds / duration * float64(width-1))
	}
	toY := func(v float64) int {
		return height - 1 - int(clamp01(v)*float64(height-1))
	}

	if f := report.Features; f != nil {
		for _, b := range f.SyllableBoundaries {
			x := toX(b)
			for y := range height {
				if y%4 < 2 {
					img.SetRGBA(x, y, syllableColor)
				}
			}
		}

		for i, v := range f.Intensity {
			img.SetRGBA(toX(f.Timing.IntensityTime(i)), toY(v), intensityColor)
		}

		for i, v := range f.PitchContour {
			if v <= 0 {
				continue
			}
			x, y := toX(f.Timing.PitchTime(i)), toY(v)
			img.SetRGBA(x, y, pitchColor)
			img.SetRGBA(x, max(0, y-1), pitchColor)
		}
	}

	return img, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
