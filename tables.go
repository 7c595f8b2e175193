package picosynth

import (
	"os"

	"github.com/pkg/errors"
)

// Console RAM layout of the audio tables.
const (
	MusicBase      = 0x3100
	SFXBase        = 0x3200
	PatternSize    = 4
	InstrumentSize = 68
	NumPatterns    = 64
	NumInstruments = 64

	MusicSize = NumPatterns * PatternSize
	SFXSize   = NumInstruments * InstrumentSize
	// ImageSize is the size of a table image covering MusicBase up to the
	// end of the instrument table.
	ImageSize = SFXBase + SFXSize - MusicBase
)

// Tables holds read-only views over the song and instrument tables.
type Tables struct {
	SFX   []byte
	Music []byte
}

// TablesFromRAM slices the tables out of a console RAM image. The slices
// share memory with ram.
func TablesFromRAM(ram []byte) (Tables, error) {
	if len(ram) < SFXBase+SFXSize {
		return Tables{}, errors.Errorf("ram image is %d bytes, need at least %d", len(ram), SFXBase+SFXSize)
	}
	return Tables{
		Music: ram[MusicBase : MusicBase+MusicSize],
		SFX:   ram[SFXBase : SFXBase+SFXSize],
	}, nil
}

// TablesFromImage splits an image that starts at MusicBase. A short image
// yields short tables; missing records play as silence.
func TablesFromImage(img []byte) Tables {
	if len(img) <= MusicSize {
		return Tables{Music: img}
	}
	sfx := img[MusicSize:]
	if len(sfx) > SFXSize {
		sfx = sfx[:SFXSize]
	}
	return Tables{Music: img[:MusicSize], SFX: sfx}
}

// LoadTables reads a table image file.
func LoadTables(path string) (Tables, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, errors.Wrap(err, "read table image")
	}
	if len(img) > ImageSize {
		return Tables{}, errors.Errorf("%s: table image is %d bytes, max %d", path, len(img), ImageSize)
	}
	return TablesFromImage(img), nil
}

// Image packs the tables back into the layout read by LoadTables.
func (t Tables) Image() []byte {
	out := make([]byte, ImageSize)
	for i := 0; i < MusicSize; i++ {
		out[i] = 0x40
	}
	copy(out[:MusicSize], t.Music)
	copy(out[MusicSize:], t.SFX)
	return out
}
