package music

const (
	// NumPatterns is the fixed number of song steps.
	NumPatterns = 64
	// NumChannels is the number of music channels per pattern.
	NumChannels = 4
	// PatternSize is the size in bytes of one packed pattern.
	PatternSize = 4
)

// Channel is one slot of a pattern.
type Channel struct {
	Silent     bool
	Instrument int // 0-63
}

// Pattern is one decoded song step.
type Pattern struct {
	Channels  [NumChannels]Channel
	LoopStart bool
	LoopEnd   bool
	Stop      bool
}

// DecodePattern unpacks four pattern bytes. Bit 7 of bytes 0, 1 and 2 carry
// the loop start, loop end and stop directives; bit 6 silences the channel and
// bits 0-5 select the instrument.
func DecodePattern(b [PatternSize]byte) Pattern {
	var p Pattern
	for i, v := range b {
		p.Channels[i] = Channel{
			Silent:     v&0x40 != 0,
			Instrument: int(v & 0x3f),
		}
	}
	p.LoopStart = b[0]&0x80 != 0
	p.LoopEnd = b[1]&0x80 != 0
	p.Stop = b[2]&0x80 != 0
	return p
}

// Encode packs the pattern into four bytes.
func (p Pattern) Encode() [PatternSize]byte {
	var b [PatternSize]byte
	for i, ch := range p.Channels {
		b[i] = byte(ch.Instrument & 0x3f)
		if ch.Silent {
			b[i] |= 0x40
		}
	}
	if p.LoopStart {
		b[0] |= 0x80
	}
	if p.LoopEnd {
		b[1] |= 0x80
	}
	if p.Stop {
		b[2] |= 0x80
	}
	return b
}

// Table is a read-only view over the packed song.
type Table []byte

// Pattern decodes pattern n. Bytes missing from a short table read as
// silent channels.
func (t Table) Pattern(n int) (Pattern, bool) {
	if n < 0 || n >= NumPatterns {
		return Pattern{}, false
	}
	b := [PatternSize]byte{0x40, 0x40, 0x40, 0x40}
	off := n * PatternSize
	if off < len(t) {
		copy(b[:], t[off:])
	}
	return DecodePattern(b), true
}
