package sfx

import (
	"github.com/cbegin/picosynth-go/internal/note"
	"github.com/cbegin/picosynth-go/internal/oscillator"
)

// Voice is one playing instance of an instrument. Each voice owns its own
// oscillator; render tasks borrow it so phase runs on across notes.
type Voice struct {
	index      int
	inst       Instrument
	sampleRate int
	osc        *oscillator.Oscillator

	step    int
	last    int
	planned int
	done    bool // no further steps to schedule
	queue   []*note.Task

	alive  bool
	active bool
	loop   bool
	cursor int

	prevPitch     int
	pendingFadeIn float64
	budget        int // remaining steps, -1 for unlimited

	observer func(step int)
}

// NewVoice creates a stopped voice for instrument index. seed feeds the
// voice's private noise generator.
func NewVoice(index int, inst Instrument, sampleRate int, seed int64) *Voice {
	return &Voice{
		index:      index,
		inst:       inst,
		sampleRate: sampleRate,
		osc:        oscillator.New(sampleRate, seed),
		active:     true,
		loop:       true,
		prevPitch:  -1,
		budget:     -1,
	}
}

// Start triggers playback of steps [offset, offset+length-1] with the buffer
// cursor set to cursor.
func (v *Voice) Start(offset, length, cursor int) {
	v.step = clampInt(offset, 0, NumSteps-1)
	v.last = clampInt(offset+length-1, 0, NumSteps-1)
	v.done = v.last < v.step
	v.planned = 0
	if !v.done {
		v.planned = v.last - v.step + 1
	}
	v.queue = v.queue[:0]
	v.prevPitch = -1
	v.pendingFadeIn = 0
	v.alive = true
	if cursor < 0 {
		cursor = 0
	}
	v.cursor = cursor
}

// Update renders until the buffer is full or the voice runs out of steps.
// It returns false once the voice is dead.
func (v *Voice) Update(buf []float32) bool {
	if !v.alive {
		return false
	}
	if v.cursor > len(buf) {
		v.cursor = len(buf)
	}
	for v.cursor < len(buf) {
		if len(v.queue) == 0 && !v.scheduleNext() {
			v.alive = false
			return false
		}
		next := v.queue[0].Render(buf, v.cursor, v.active)
		v.cursor = next
		if next < len(buf) {
			v.queue[0] = nil
			v.queue = v.queue[1:]
		}
	}
	v.cursor = 0
	return true
}

func (v *Voice) scheduleNext() bool {
	if v.done || v.budget == 0 {
		return false
	}
	n := v.inst.Notes[v.step]
	dur := v.inst.NoteDuration()
	env, pending := applyEffect(n, v.prevPitch, dur, v.pendingFadeIn, float64(v.sampleRate))
	v.pendingFadeIn = pending
	v.prevPitch = int(n.Pitch)

	v.queue = append(v.queue, note.New(note.Params{
		Waveform:  n.Oscillator(),
		Volume:    float64(n.Volume) / 7,
		Pitch:     env.pitch,
		PitchFrom: env.pitchFrom,
		Duration:  dur,
		FadeIn:    env.fadeIn,
		FadeOut:   env.fadeOut,
		Vibrato:   env.vibrato,
	}, v.osc, v.sampleRate))

	if v.observer != nil {
		v.observer(v.step)
	}
	if v.budget > 0 {
		v.budget--
	}
	v.advance()
	return true
}

func (v *Voice) advance() {
	if v.loop && v.inst.Loops() && v.step == int(v.inst.LoopEnd)-1 {
		v.step = int(v.inst.LoopStart)
		return
	}
	if v.step >= v.last {
		v.done = true
		return
	}
	v.step++
}

// Alive reports whether the voice still has sound to produce.
func (v *Voice) Alive() bool { return v.alive }

// Stop kills the voice immediately.
func (v *Voice) Stop() {
	v.alive = false
	v.queue = v.queue[:0]
}

// Active reports whether the voice writes samples.
func (v *Voice) Active() bool { return v.active }

// SetActive toggles sample output. An inactive voice keeps time.
func (v *Voice) SetActive(active bool) { v.active = active }

// ReleaseLoop lets the current loop pass finish once; the voice then plays on
// through the steps after the loop.
func (v *Voice) ReleaseLoop() { v.loop = false }

// Cursor returns the buffer position where the voice will resume, or where it
// died.
func (v *Voice) Cursor() int { return v.cursor }

// Index returns the instrument index.
func (v *Voice) Index() int { return v.index }

// Instrument returns the decoded instrument.
func (v *Voice) Instrument() Instrument { return v.inst }

// Step returns the next step to be scheduled.
func (v *Voice) Step() int { return v.step }

// Duration is the length in seconds of the steps selected at Start.
func (v *Voice) Duration() float64 {
	return float64(v.planned) * v.inst.NoteDuration()
}

// SetStepBudget caps the number of steps the voice will schedule. A negative
// value removes the cap.
func (v *Voice) SetStepBudget(n int) {
	if n < 0 {
		n = -1
	}
	v.budget = n
}

// OnStep installs a callback that receives each scheduled step index.
func (v *Voice) OnStep(fn func(step int)) { v.observer = fn }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
