package runner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maxvaer/brutecli/internal/output"
	"github.com/maxvaer/brutecli/internal/scanner"
)

func TestKeyReaderSwapsPauser(t *testing.T) {
	var stderr bytes.Buffer
	console := output.NewConsoleTo(&bytes.Buffer{}, &stderr, true, false)
	k := &keyReader{interrupt: func() {}}

	first := scanner.NewPauser()
	k.attach(console, first, nil)
	k.detach()

	second := scanner.NewPauser()
	k.attach(console, second, nil)
	k.read(strings.NewReader(" "))

	if first.IsPaused() {
		t.Error("key reached the pauser of a finished job")
	}
	if !second.IsPaused() {
		t.Error("key did not reach the running job")
	}
	if !strings.Contains(stderr.String(), "Paused") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestKeyReaderInterrupt(t *testing.T) {
	tests := []struct {
		name     string
		attached bool
	}{
		{"during a job", true},
		{"between jobs", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var interrupts, restores int
			k := &keyReader{interrupt: func() { interrupts++ }}
			if tt.attached {
				console := output.NewConsoleTo(&bytes.Buffer{}, &bytes.Buffer{}, true, false)
				k.attach(console, scanner.NewPauser(), func() { restores++ })
			}

			k.read(strings.NewReader("\x03"))

			if interrupts != 1 {
				t.Errorf("interrupts = %d, want 1", interrupts)
			}
			if tt.attached && restores != 1 {
				t.Errorf("terminal restores = %d, want 1", restores)
			}
		})
	}
}

func TestKeyReaderIgnoresKeysWithoutJob(t *testing.T) {
	k := &keyReader{interrupt: func() { t.Error("unexpected interrupt") }}
	k.read(strings.NewReader("\r\n x"))
}
