package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

const keyInterrupt = 0x03 // Ctrl-C arrives as a byte in raw mode

// keyboard delivers single key presses from a raw-mode terminal.
type keyboard struct {
	fd       int
	oldState *term.State
	keys     chan byte
}

func openKeyboard() (*keyboard, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "set raw mode")
	}
	k := &keyboard{fd: fd, oldState: oldState, keys: make(chan byte, 16)}
	go k.read()
	return k, nil
}

// The reader goroutine stays blocked in Read until the process exits.
func (k *keyboard) read() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			k.keys <- buf[0]
		}
		if err != nil {
			close(k.keys)
			return
		}
	}
}

func (k *keyboard) Keys() <-chan byte { return k.keys }

func (k *keyboard) Close() error {
	return errors.Wrap(term.Restore(k.fd, k.oldState), "restore terminal")
}

// crlfWriter keeps log lines aligned while the terminal is in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
