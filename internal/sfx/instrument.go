package sfx

import "github.com/cbegin/picosynth-go/internal/oscillator"

const (
	// NumSteps is the number of notes in an instrument.
	NumSteps = 32
	// RecordSize is the size in bytes of one packed instrument.
	RecordSize = 68
	// NumInstruments is the maximum number of instruments in a table.
	NumInstruments = 64
	// TicksPerSecond divides the speed byte into a note duration.
	TicksPerSecond = 120.0
)

// Effect identifiers stored in the top bits of a packed note.
const (
	EffectNone = iota
	EffectSlide
	EffectVibrato
	EffectDrop
	EffectFadeIn
	EffectFadeOut
	EffectArpFast
	EffectArpSlow
)

// Note is one decoded step. Waveform values 8-15 carry the custom flag.
type Note struct {
	Pitch    uint8 // 0-63
	Waveform uint8 // 0-15
	Volume   uint8 // 0-7
	Effect   uint8 // 0-7
	Custom   bool
}

// DecodeNote unpacks a note from its two bytes (little-endian word).
func DecodeNote(lo, hi byte) Note {
	w := uint16(lo) | uint16(hi)<<8
	n := Note{
		Pitch:    uint8(w & 0x3f),
		Waveform: uint8(w >> 6 & 0x07),
		Volume:   uint8(w >> 9 & 0x07),
		Effect:   uint8(w >> 12 & 0x07),
		Custom:   w>>15&1 == 1,
	}
	if n.Custom {
		n.Waveform |= 0x08
	}
	return n
}

// Encode packs the note back into two bytes.
func (n Note) Encode() (lo, hi byte) {
	w := uint16(n.Pitch&0x3f) |
		uint16(n.Waveform&0x07)<<6 |
		uint16(n.Volume&0x07)<<9 |
		uint16(n.Effect&0x07)<<12
	if n.Custom || n.Waveform&0x08 != 0 {
		w |= 1 << 15
	}
	return byte(w), byte(w >> 8)
}

// Oscillator returns the generator shape for the note. Custom waveforms wrap
// onto the eight built-in shapes.
func (n Note) Oscillator() oscillator.Waveform {
	return oscillator.WaveformFrom(int(n.Waveform))
}

// Instrument is a decoded 68-byte record.
type Instrument struct {
	Notes      [NumSteps]Note
	EditorMode byte
	Speed      byte
	LoopStart  byte
	LoopEnd    byte
}

// DecodeInstrument decodes a record. Missing trailing bytes read as zero.
func DecodeInstrument(rec []byte) Instrument {
	var buf [RecordSize]byte
	copy(buf[:], rec)
	var inst Instrument
	for i := 0; i < NumSteps; i++ {
		inst.Notes[i] = DecodeNote(buf[i*2], buf[i*2+1])
	}
	inst.EditorMode = buf[64]
	inst.Speed = buf[65]
	inst.LoopStart = buf[66]
	inst.LoopEnd = buf[67]
	return inst
}

// Encode packs the instrument into a 68-byte record.
func (inst Instrument) Encode() []byte {
	out := make([]byte, RecordSize)
	for i, n := range inst.Notes {
		out[i*2], out[i*2+1] = n.Encode()
	}
	out[64] = inst.EditorMode
	out[65] = inst.Speed
	out[66] = inst.LoopStart
	out[67] = inst.LoopEnd
	return out
}

// NoteDuration is the length of one step in seconds. Speed 0 plays as 1.
func (inst Instrument) NoteDuration() float64 {
	speed := inst.Speed
	if speed == 0 {
		speed = 1
	}
	return float64(speed) / TicksPerSecond
}

// Loops reports whether the loop bounds are active.
func (inst Instrument) Loops() bool {
	return inst.LoopStart < inst.LoopEnd
}

// Table is a read-only view over packed instrument records.
type Table []byte

// Len returns the number of complete records, capped at NumInstruments.
func (t Table) Len() int {
	n := len(t) / RecordSize
	if n > NumInstruments {
		n = NumInstruments
	}
	return n
}

// Instrument decodes record n. It reports false when n is out of range.
func (t Table) Instrument(n int) (Instrument, bool) {
	if n < 0 || n >= t.Len() {
		return Instrument{}, false
	}
	return DecodeInstrument(t[n*RecordSize : (n+1)*RecordSize]), true
}
