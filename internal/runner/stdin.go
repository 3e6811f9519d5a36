package runner

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/maxvaer/brutecli/internal/output"
	"github.com/maxvaer/brutecli/internal/scanner"
)

// keyReader is the single stdin reader of the process. Jobs attach their
// pauser while they run; keys pressed between jobs toggle nothing, but
// Ctrl+C always interrupts.
type keyReader struct {
	once sync.Once

	mu      sync.Mutex
	pauser  *scanner.Pauser
	console *output.Console
	restore func()

	interrupt func()
}

var keys = &keyReader{interrupt: sendInterrupt}

func (k *keyReader) attach(console *output.Console, pauser *scanner.Pauser, restore func()) {
	k.mu.Lock()
	k.console, k.pauser, k.restore = console, pauser, restore
	k.mu.Unlock()
}

func (k *keyReader) detach() {
	k.mu.Lock()
	k.console, k.pauser, k.restore = nil, nil, nil
	k.mu.Unlock()
}

// read consumes r until it fails.
func (k *keyReader) read(r io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 1 {
			k.handle(buf[0])
		}
		if err != nil {
			return
		}
	}
}

func (k *keyReader) handle(b byte) {
	k.mu.Lock()
	pauser, console, restore := k.pauser, k.console, k.restore
	k.mu.Unlock()

	switch b {
	case 0x03:
		// Ctrl+C in raw mode: hand it back to the signal handler.
		if restore != nil {
			restore()
		}
		k.interrupt()
	case '\r', '\n', ' ':
		if pauser == nil {
			return
		}
		if pauser.Toggle() {
			console.Statusf("Paused. Press Enter or Space to resume")
		} else {
			console.Statusf("Resumed")
		}
	}
}

// startStdinToggle puts the terminal in raw mode and attaches a fresh
// pauser to the process stdin reader, which toggles it on Enter or Space.
// The cleanup function detaches it and restores the terminal. If stdin is
// not a terminal it returns a nil pauser and a no-op cleanup.
func startStdinToggle(console *output.Console) (pauser *scanner.Pauser, cleanup func()) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		console.Warnf("Could not enable raw terminal: %v", err)
		return nil, func() {}
	}

	// MakeRaw also clears OPOST, which breaks \n handling for our output.
	fixOutputProcessing(fd)

	restore := func() { _ = term.Restore(fd, oldState) }
	pauser = scanner.NewPauser()
	keys.attach(console, pauser, restore)
	keys.once.Do(func() { go keys.read(os.Stdin) })

	return pauser, func() {
		keys.detach()
		restore()
	}
}
