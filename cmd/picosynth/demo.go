package main

import (
	"github.com/cbegin/picosynth-go"
	"github.com/cbegin/picosynth-go/internal/music"
	"github.com/cbegin/picosynth-go/internal/oscillator"
	"github.com/cbegin/picosynth-go/internal/sfx"
)

func note(pitch int, w oscillator.Waveform, vol, effect int) sfx.Note {
	return sfx.Note{Pitch: uint8(pitch), Waveform: uint8(w), Volume: uint8(vol), Effect: uint8(effect)}
}

// demoTables is played when no -tables image is given: a short two-pattern
// loop plus a few one-shot effects on keys 4-6.
func demoTables() picosynth.Tables {
	var insts [7]sfx.Instrument

	lead := []int{24, 27, 31, 34, 36, 34, 31, 27}
	insts[0].Speed = 16
	for i := range insts[0].Notes {
		insts[0].Notes[i] = note(lead[i%len(lead)], oscillator.Triangle, 5, sfx.EffectNone)
	}
	insts[0].Notes[7].Effect = sfx.EffectVibrato

	insts[1].Speed = 32
	for i := range insts[1].Notes {
		insts[1].Notes[i] = note(12+(i/4%2)*5, oscillator.Pulse, 4, sfx.EffectNone)
	}

	insts[2].Speed = 16
	for i := range insts[2].Notes {
		if i%2 == 0 {
			insts[2].Notes[i] = note(40, oscillator.Noise, 6, sfx.EffectFadeOut)
		}
	}

	insts[3].Speed = 64
	insts[3].LoopStart, insts[3].LoopEnd = 0, 8
	for i := range insts[3].Notes {
		insts[3].Notes[i] = note(31, oscillator.Organ, 2, sfx.EffectFadeIn)
	}

	// One-shots.
	insts[4].Speed = 3
	for i := 0; i < 8; i++ {
		insts[4].Notes[i] = note(48-i*3, oscillator.Square, 5, sfx.EffectSlide)
	}
	insts[5].Speed = 4
	insts[5].Notes[0] = note(36, oscillator.Noise, 7, sfx.EffectDrop)
	insts[6].Speed = 2
	insts[6].LoopStart, insts[6].LoopEnd = 0, 2
	insts[6].Notes[0] = note(40, oscillator.Phaser, 4, sfx.EffectNone)
	insts[6].Notes[1] = note(43, oscillator.TiltedSaw, 4, sfx.EffectNone)

	var sfxTable []byte
	for _, inst := range insts {
		sfxTable = append(sfxTable, inst.Encode()...)
	}

	patterns := []music.Pattern{
		{Channels: [music.NumChannels]music.Channel{{Instrument: 0}, {Instrument: 1}, {Silent: true}, {Silent: true}}},
		{Channels: [music.NumChannels]music.Channel{{Instrument: 0}, {Instrument: 1}, {Instrument: 2}, {Instrument: 3}}, LoopStart: true},
		{Channels: [music.NumChannels]music.Channel{{Instrument: 0}, {Instrument: 1}, {Instrument: 2}, {Silent: true}}, LoopEnd: true},
	}
	song := make([]byte, picosynth.MusicSize)
	for i := range song {
		song[i] = 0x40
	}
	for i, p := range patterns {
		b := p.Encode()
		copy(song[i*music.PatternSize:], b[:])
	}
	return picosynth.Tables{SFX: sfxTable, Music: song}
}
