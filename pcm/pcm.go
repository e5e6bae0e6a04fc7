// Package pcm converts captured float32 audio into the 16-bit PCM WAV
// payload sent to the transcription service.
package pcm

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// FullScale is the largest magnitude a normalized sample reaches.
const FullScale = math.MaxInt16

// ErrEmptyRecording is returned when a session captured no usable audio:
// either zero samples, or samples that are all silent so no peak exists.
var ErrEmptyRecording = errors.New("pcm: empty recording")

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// RMS returns the root mean square level of samples, 0 for an empty slice.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Normalize scales samples so the loudest one maps to full scale and
// quantizes them to int16. Loudness is relative to the session only.
func Normalize(samples []float32) ([]int16, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyRecording
	}

	peak := Peak(samples)
	if peak == 0 || math.IsNaN(float64(peak)) || math.IsInf(float64(peak), 0) {
		return nil, fmt.Errorf("%w: no signal above zero", ErrEmptyRecording)
	}

	scale := FullScale / float64(peak)
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * scale)
		switch {
		case v > FullScale:
			v = FullScale
		case v < -FullScale:
			v = -FullScale
		case math.IsNaN(v):
			v = 0
		}
		out[i] = int16(v)
	}
	return out, nil
}

// Dequantize maps int16 samples back to float32 in [-1, 1].
func Dequantize(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / FullScale
	}
	return out
}

// Duration returns the playback length of n mono samples.
func Duration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(sampleRate) * float64(time.Second))
}
