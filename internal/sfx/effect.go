package sfx

// firstSlidePitch is where a slide starts when there is no previous step.
const firstSlidePitch = 32

// envelope is the pitch and volume shape chosen for one step.
type envelope struct {
	pitch     float64
	pitchFrom float64
	fadeIn    float64
	fadeOut   float64
	vibrato   bool
}

// applyEffect maps a step to its envelope. prevPitch is -1 for the first
// step. pendingFadeIn is the fade-in requested by the previous step; the
// returned value is the fade-in requested for the next one.
func applyEffect(n Note, prevPitch int, duration, pendingFadeIn, sampleRate float64) (envelope, float64) {
	p := float64(n.Pitch)
	env := envelope{pitch: p, pitchFrom: p}
	next := 0.0

	switch n.Effect {
	case EffectNone, EffectArpFast, EffectArpSlow:
		// TODO: arpeggios play as plain notes until the 4-step cycle rate is signed off.
		env.fadeIn = 0.05 * duration
	case EffectSlide:
		from := prevPitch
		if from < 0 {
			from = firstSlidePitch
		}
		env.pitchFrom = float64(from)
	case EffectVibrato:
		env.vibrato = true
	case EffectDrop:
		env.pitchFrom = p
		env.pitch = 0
	case EffectFadeIn:
		env.fadeIn = 0.95 * duration
		env.fadeOut = 0.05 * duration
	case EffectFadeOut:
		env.fadeOut = 0.95 * duration
		next = (1 / duration) / sampleRate
	default:
		env.fadeIn = 0.5 * duration
	}

	if pendingFadeIn > env.fadeIn {
		env.fadeIn = pendingFadeIn
	}
	return env, next
}
