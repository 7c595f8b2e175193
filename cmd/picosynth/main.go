package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/cbegin/picosynth-go"
	"github.com/cbegin/picosynth-go/internal/script"
)

// framesPerSecond is the rate at which a script's _update is called.
const framesPerSecond = 30

func main() {
	var (
		tablesPath  = flag.String("tables", "", "table image (RAM 0x3100-0x42ff); built-in demo when empty")
		sampleRate  = flag.Int("sample-rate", 48000, "output sample rate")
		bufferSize  = flag.Int("buffer", 2048, "mixer buffer size in samples")
		backendName = flag.String("backend", "ebiten", "audio backend: ebiten|oto|none")
		musicIndex  = flag.Int("music", -1, "start the song at this pattern")
		sfxIndex    = flag.Int("sfx", -1, "trigger this instrument once")
		scriptPath  = flag.String("script", "", "Lua script calling sfx()/music(); _update runs at 30 fps")
		wavPath     = flag.String("wav", "", "render to this 16-bit WAV file instead of playing")
		wavFloat    = flag.Bool("float", false, "write -wav as 32-bit float instead of 16-bit PCM")
		seconds     = flag.Float64("seconds", 0, "stop after this long (0 = when idle; required with -wav)")
		interactive = flag.Bool("interactive", false, "keys 0-9 trigger sfx, m starts music, s stops, p pauses, q quits")
		volume      = flag.Float64("volume", 1.0, "master volume scalar")
		channels    = flag.Int("channels", 15, "music channel mask; bit i keeps channel i audible")
	)
	flag.Parse()

	tables, err := loadTables(*tablesPath)
	if err != nil {
		log.Fatal(err)
	}
	backend, err := picosynth.ParseBackend(*backendName)
	if err != nil {
		log.Fatal(err)
	}
	if *wavPath != "" {
		backend = picosynth.BackendNone
	}

	var kb *keyboard
	logger := log.Default()
	if *interactive && *wavPath == "" {
		kb, err = openKeyboard()
		if err != nil {
			log.Fatal(err)
		}
		defer kb.Close()
		logger = log.New(crlfWriter{os.Stderr}, "", log.LstdFlags)
		logger.Printf("keys: 0-9 sfx, m music, s stop, p pause, q quit")
	}

	pl, err := picosynth.NewPlayer(*sampleRate, tables,
		picosynth.WithBufferSize(*bufferSize),
		picosynth.WithBackend(backend),
		picosynth.WithLogger(logger),
		picosynth.WithMasterVolume(*volume),
	)
	if err != nil {
		fatal(kb, err)
	}

	pl.SetMusicChannelMask(*channels)

	var bridge *script.Bridge
	if *scriptPath != "" {
		bridge, err = loadScript(pl, *scriptPath)
		if err != nil {
			fatal(kb, err)
		}
		defer bridge.Close()
	}
	if *musicIndex >= 0 {
		pl.Music(*musicIndex, 0, 15)
	}
	if *sfxIndex >= 0 {
		pl.Sfx(*sfxIndex, -1, 0, 32)
	}

	if *wavPath != "" {
		if err := renderWAV(pl, bridge, *wavPath, *seconds, *wavFloat); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s\n", *wavPath)
		return
	}

	if err := pl.Start(); err != nil {
		fatal(kb, err)
	}
	defer pl.Stop()
	play(pl, bridge, kb, logger, *seconds)
}

func fatal(kb *keyboard, err error) {
	if kb != nil {
		_ = kb.Close()
	}
	log.Fatal(err)
}

func loadTables(path string) (picosynth.Tables, error) {
	if path == "" {
		return demoTables(), nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return picosynth.Tables{}, errors.Wrap(err, "expand -tables")
	}
	return picosynth.LoadTables(expanded)
}

func loadScript(host script.Host, path string) (*script.Bridge, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "expand -script")
	}
	src, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	b := script.New(host)
	if err := b.Run(string(src), path); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// play runs until q is pressed, the time limit passes, or, without a script
// or keyboard, nothing is left sounding.
func play(pl *picosynth.Player, bridge *script.Bridge, kb *keyboard, logger *log.Logger, seconds float64) {
	ticker := time.NewTicker(time.Second / framesPerSecond)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if seconds > 0 {
		deadline = time.After(time.Duration(seconds * float64(time.Second)))
	}
	var keys <-chan byte
	if kb != nil {
		keys = kb.Keys()
	}
	waitIdle := kb == nil && (bridge == nil || !bridge.HasUpdate()) && seconds <= 0

	for {
		select {
		case <-deadline:
			return
		case k, ok := <-keys:
			if !ok || !handleKey(pl, logger, k) {
				return
			}
		case <-ticker.C:
			if bridge != nil {
				if err := bridge.Frame(); err != nil {
					logger.Printf("script: %v", err)
					bridge = nil
				}
			}
			if waitIdle && pl.Idle() {
				return
			}
		}
	}
}

func handleKey(pl *picosynth.Player, logger *log.Logger, k byte) bool {
	switch {
	case k >= '0' && k <= '9':
		n := int(k - '0')
		pl.Sfx(n, -1, 0, 32)
		logger.Printf("sfx %d", n)
	case k == 'm':
		pl.Music(0, 0, 15)
	case k == 's':
		pl.StopAll()
		logger.Printf("stopped")
	case k == 'p':
		if pl.Playing() {
			pl.Pause()
			logger.Printf("paused")
		} else {
			pl.Resume()
		}
	case k == 'q' || k == keyInterrupt:
		return false
	}
	return true
}

// renderWAV pulls audio frame by frame so that a script's _update runs at
// the same rate as during live playback.
func renderWAV(pl *picosynth.Player, bridge *script.Bridge, path string, seconds float64, float bool) error {
	if seconds <= 0 {
		return errors.New("-wav needs -seconds")
	}
	total := int(float64(pl.SampleRate()) * seconds)
	frame := pl.SampleRate() / framesPerSecond
	if frame < 1 {
		frame = 1
	}
	out := make([]float32, total)
	for filled := 0; filled < total; filled += frame {
		if bridge != nil {
			if err := bridge.Frame(); err != nil {
				return err
			}
		}
		end := filled + frame
		if end > total {
			end = total
		}
		pl.Process(out[filled:end])
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrap(err, "expand -wav")
	}
	if float {
		data := picosynth.EncodeWAVFloat32LE(out, pl.SampleRate(), 1)
		return errors.Wrap(os.WriteFile(expanded, data, 0o644), "write wav")
	}
	f, err := os.Create(expanded)
	if err != nil {
		return errors.Wrap(err, "create wav")
	}
	defer f.Close()
	return picosynth.WriteWAV(f, out, pl.SampleRate())
}
