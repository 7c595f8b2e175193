package script

import (
	"reflect"
	"testing"
)

type call struct {
	kind string
	args []int
}

type fakeHost struct {
	calls []call
}

func (h *fakeHost) Sfx(n, channel, offset, length int) {
	h.calls = append(h.calls, call{"sfx", []int{n, channel, offset, length}})
}

func (h *fakeHost) Music(n, fadeLenMs, channelMask int) {
	h.calls = append(h.calls, call{"music", []int{n, fadeLenMs, channelMask}})
}

func TestBridgeForwardsCallsWithDefaults(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want call
	}{
		{"sfx defaults", "sfx(3)", call{"sfx", []int{3, -1, 0, 32}}},
		{"sfx channel", "sfx(3, 2)", call{"sfx", []int{3, 2, 0, 32}}},
		{"sfx full", "sfx(1, 0, 8, 4)", call{"sfx", []int{1, 0, 8, 4}}},
		{"sfx stop", "sfx(-1)", call{"sfx", []int{-1, -1, 0, 32}}},
		{"music defaults", "music(0)", call{"music", []int{0, 0, 15}}},
		{"music mask", "music(2, 500, 3)", call{"music", []int{2, 500, 3}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			host := &fakeHost{}
			b := New(host)
			defer b.Close()
			if err := b.Run(tc.src, tc.name); err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(host.calls) != 1 || !reflect.DeepEqual(host.calls[0], tc.want) {
				t.Fatalf("calls = %v, want [%v]", host.calls, tc.want)
			}
		})
	}
}

func TestFrameCallsUpdate(t *testing.T) {
	host := &fakeHost{}
	b := New(host)
	defer b.Close()
	if b.HasUpdate() {
		t.Fatalf("no _update defined yet")
	}
	if err := b.Frame(); err != nil {
		t.Fatalf("frame without _update: %v", err)
	}
	src := `
t = 0
function _update()
  t = t + 1
  if t % 2 == 0 then sfx(t) end
end
`
	if err := b.Run(src, "cart"); err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := b.Frame(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	var got []int
	for _, c := range host.calls {
		got = append(got, c.args[0])
	}
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("sfx calls = %v, want [2 4]", got)
	}
}

func TestErrorsAreReported(t *testing.T) {
	b := New(&fakeHost{})
	defer b.Close()
	if err := b.Run("sfx(", "broken"); err == nil {
		t.Fatalf("syntax error should be reported")
	}
	if err := b.Run(`sfx("x")`, "badarg"); err == nil {
		t.Fatalf("non-numeric argument should be reported")
	}
	if err := b.Run(`function _update() error("boom") end`, "cart"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := b.Frame(); err == nil {
		t.Fatalf("runtime error in _update should be reported")
	}
}
