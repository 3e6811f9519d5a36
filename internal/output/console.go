package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Console prints status lines to stderr and found credentials to stdout.
// Informational lines are dropped in quiet mode; warnings, errors and
// results are always shown.
type Console struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
	quiet  bool

	info   *color.Color
	header *color.Color
	good   *color.Color
	bad    *color.Color
	warn   *color.Color
	done   *color.Color
}

// NewConsole creates a console writing to the process streams.
func NewConsole(noColor, quiet bool) *Console {
	return NewConsoleTo(os.Stdout, os.Stderr, noColor, quiet)
}

// NewConsoleTo creates a console writing to the given streams.
func NewConsoleTo(stdout, stderr io.Writer, noColor, quiet bool) *Console {
	c := &Console{
		stdout: stdout,
		stderr: stderr,
		quiet:  quiet,
		info:   color.New(color.FgCyan),
		header: color.New(color.FgBlue),
		good:   color.New(color.FgGreen, color.Bold),
		bad:    color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
		done:   color.New(color.FgYellow),
	}
	if noColor {
		for _, col := range []*color.Color{c.info, c.header, c.good, c.bad, c.warn, c.done} {
			col.DisableColor()
		}
	}
	return c
}

// Quiet reports whether informational output is suppressed.
func (c *Console) Quiet() bool { return c.quiet }

// Infof prints a "[•]" progress line.
func (c *Console) Infof(format string, args ...any) {
	if c.quiet {
		return
	}
	c.line(c.stderr, c.info, "[•] "+format, args...)
}

// Statusf prints a "[*]" line over the progress line.
func (c *Console) Statusf(format string, args ...any) {
	if c.quiet {
		return
	}
	c.line(c.stderr, c.info, "\r\033[K[*] "+format, args...)
}

// Headerf prints a section header such as a batch round banner.
func (c *Console) Headerf(format string, args ...any) {
	if c.quiet {
		return
	}
	c.line(c.stderr, c.header, "\n"+format, args...)
}

// Warnf prints a non-fatal "[!]" warning.
func (c *Console) Warnf(format string, args ...any) {
	c.line(c.stderr, c.warn, "[!] "+format, args...)
}

// Errorf prints a "[!]" error line.
func (c *Console) Errorf(format string, args ...any) {
	c.line(c.stderr, c.bad, "[!] "+format, args...)
}

// Found prints a valid credential pair.
func (c *Console) Found(user, pass string) {
	c.line(c.stdout, c.good, "[+] %s:%s", user, pass)
}

// NotFound reports a job that exhausted its pairs.
func (c *Console) NotFound() {
	c.line(c.stderr, c.bad, "[-] No valid credentials found.")
}

// Donef prints the "[✓]" job footer.
func (c *Console) Donef(format string, args ...any) {
	if c.quiet {
		return
	}
	c.line(c.stderr, c.done, "[✓] "+format+"\n", args...)
}

// Stderr returns the status stream for progress output. Writes share the
// console lock so they never interleave with status lines.
func (c *Console) Stderr() io.Writer { return lockedWriter{c} }

type lockedWriter struct{ c *Console }

func (l lockedWriter) Write(p []byte) (int, error) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	return l.c.stderr.Write(p)
}

func (c *Console) line(w io.Writer, col *color.Color, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	col.Fprint(w, fmt.Sprintf(format, args...))
	fmt.Fprintln(w)
}
