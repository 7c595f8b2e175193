package script

import (
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// Host receives the audio calls made by a guest program.
type Host interface {
	Sfx(n, channel, offset, length int)
	Music(n, fadeLenMs, channelMask int)
}

// Guest-facing defaults for omitted arguments.
const (
	defaultChannel = -1
	defaultOffset  = 0
	defaultLength  = 32
	defaultFade    = 0
	defaultMask    = 15
)

// Bridge runs guest Lua code against a Host. It is not safe for concurrent
// use; the host serializes audio access itself.
type Bridge struct {
	state *lua.LState
	host  Host
}

func New(host Host) *Bridge {
	b := &Bridge{
		state: lua.NewState(),
		host:  host,
	}
	b.state.SetGlobal("sfx", b.state.NewFunction(b.sfx))
	b.state.SetGlobal("music", b.state.NewFunction(b.music))
	return b
}

func (b *Bridge) sfx(L *lua.LState) int {
	b.host.Sfx(
		L.CheckInt(1),
		L.OptInt(2, defaultChannel),
		L.OptInt(3, defaultOffset),
		L.OptInt(4, defaultLength),
	)
	return 0
}

func (b *Bridge) music(L *lua.LState) int {
	b.host.Music(
		L.CheckInt(1),
		L.OptInt(2, defaultFade),
		L.OptInt(3, defaultMask),
	)
	return 0
}

// Run loads and executes a chunk. name labels the chunk in error messages.
func (b *Bridge) Run(src, name string) error {
	fn, err := b.state.Load(strings.NewReader(src), name)
	if err != nil {
		return errors.Wrapf(err, "load %s", name)
	}
	b.state.Push(fn)
	if err := b.state.PCall(0, lua.MultRet, nil); err != nil {
		return errors.Wrapf(err, "run %s", name)
	}
	b.state.SetTop(0)
	return nil
}

// HasUpdate reports whether the guest defined _update.
func (b *Bridge) HasUpdate() bool {
	return b.state.GetGlobal("_update").Type() == lua.LTFunction
}

// Frame calls the guest's _update function once, if there is one.
func (b *Bridge) Frame() error {
	fn := b.state.GetGlobal("_update")
	if fn.Type() != lua.LTFunction {
		return nil
	}
	if err := b.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		return errors.Wrap(err, "_update")
	}
	return nil
}

func (b *Bridge) Close() {
	b.state.Close()
}
