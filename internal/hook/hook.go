// Package hook runs an operator-supplied command when a job finds credentials.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Timeout bounds a single hook invocation.
const Timeout = 30 * time.Second

// Event describes a found credential. It is sent to the hook command as JSON
// on stdin.
type Event struct {
	Round    int    `json:"round,omitempty"`
	Protocol string `json:"protocol"`
	Target   string `json:"target"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Runner executes a shell command for each found credential.
type Runner struct {
	cmd string
	out io.Writer
}

// NewRunner creates a hook runner. cmd is the shell command to execute; its
// output is copied to out (stderr when nil).
func NewRunner(cmd string, out io.Writer) *Runner {
	if out == nil {
		out = os.Stderr
	}
	return &Runner{cmd: cmd, out: out}
}

// Expand substitutes {protocol} {target} {port} {user} and {pass} in the
// command template. On unix each value is shell-quoted unless it only holds
// safe characters. cmd.exe has no reliable quoting, so hooks there should
// read the BRUTECLI_* environment variables instead.
func (r *Runner) Expand(ev Event) string {
	q := shellQuote
	if runtime.GOOS == "windows" {
		q = func(s string) string { return s }
	}
	return strings.NewReplacer(
		"{protocol}", q(ev.Protocol),
		"{target}", q(ev.Target),
		"{port}", strconv.Itoa(ev.Port),
		"{user}", q(ev.Username),
		"{pass}", q(ev.Password),
	).Replace(r.cmd)
}

// shellQuote wraps s in single quotes for sh.
func shellQuote(s string) string {
	if s != "" && strings.Trim(s, safeChars) == "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

const safeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%+=:,./_-"

func (ev Event) environ() []string {
	return append(os.Environ(),
		"BRUTECLI_PROTOCOL="+ev.Protocol,
		"BRUTECLI_TARGET="+ev.Target,
		"BRUTECLI_PORT="+strconv.Itoa(ev.Port),
		"BRUTECLI_USER="+ev.Username,
		"BRUTECLI_PASS="+ev.Password,
	)
}

// Run executes the hook with ev as JSON on stdin and as BRUTECLI_*
// environment variables. Errors are returned for the caller to report; they
// never stop a run.
func (r *Runner) Run(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("hook: marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, r.Expand(ev))...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Env = ev.environ()
	cmd.Stdout = r.out
	cmd.Stderr = r.out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hook: %w", err)
	}
	return nil
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
