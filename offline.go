package picosynth

import (
	"encoding/binary"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	intmixer "github.com/cbegin/picosynth-go/internal/mixer"
	intmusic "github.com/cbegin/picosynth-go/internal/music"
	intsfx "github.com/cbegin/picosynth-go/internal/sfx"
)

// Render drives a fresh audio unit for the given number of seconds and
// returns the mono output. setup runs before the first buffer is pulled.
func Render(tables Tables, sampleRate, bufferSize int, seconds float64, setup func(Controller)) ([]float32, error) {
	unit, err := intmixer.New(
		intmixer.Params{SampleRate: sampleRate, BufferSize: bufferSize},
		intsfx.Table(tables.SFX),
		intmusic.Table(tables.Music),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create audio unit")
	}
	if setup != nil {
		setup(unit)
	}
	frames := int(float64(sampleRate) * seconds)
	if frames < 0 {
		frames = 0
	}
	out := make([]float32, frames)
	for filled := 0; filled < frames; {
		filled += copy(out[filled:], unit.RequestBuffer())
	}
	return out, nil
}

func RenderMusic(tables Tables, sampleRate int, pattern int, seconds float64) ([]float32, error) {
	return Render(tables, sampleRate, intmixer.DefaultParams().BufferSize, seconds, func(c Controller) {
		c.Music(pattern, 0, intmusic.AllChannels)
	})
}

func RenderSfx(tables Tables, sampleRate int, n int, seconds float64) ([]float32, error) {
	return Render(tables, sampleRate, intmixer.DefaultParams().BufferSize, seconds, func(c Controller) {
		c.Sfx(n, intmixer.AnyChannel, 0, intsfx.NumSteps)
	})
}

func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}

// WriteWAV writes mono samples as a 16-bit PCM WAV file.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "encode wav")
	}
	return errors.Wrap(enc.Close(), "finish wav")
}
