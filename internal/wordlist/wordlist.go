package wordlist

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed users.txt
var embeddedUsers string

//go:embed passwords.txt
var embeddedPasswords string

// Kind selects which built-in list a source falls back to.
type Kind int

const (
	Users Kind = iota
	Passwords
)

func (k Kind) String() string {
	if k == Users {
		return "userlist"
	}
	return "passlist"
}

// FallbackError reports that a word list file could not be read and the
// built-in list was used instead. It is a warning, not a failure.
type FallbackError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("can't read %s %s, using built-in list: %v", e.Kind, e.Path, e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }

// Builtin returns a fresh copy of the embedded default list for kind.
func Builtin(kind Kind) []string {
	if kind == Users {
		return parse(embeddedUsers)
	}
	return parse(embeddedPasswords)
}

// Load reads a word list file: one entry per line, surrounding whitespace
// trimmed, blank lines skipped, invalid UTF-8 dropped. Order is kept and
// duplicates are not removed.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wordlist %s: %w", path, err)
	}
	return parse(string(data)), nil
}

// Resolve returns the list for a job source. An empty path selects the
// built-in list. If path cannot be read the built-in list is returned
// together with a *FallbackError for the caller to print.
func Resolve(path string, kind Kind) ([]string, error) {
	if path == "" {
		return Builtin(kind), nil
	}
	words, err := Load(path)
	if err != nil {
		return Builtin(kind), &FallbackError{Path: path, Kind: kind, Err: err}
	}
	return words, nil
}

func parse(raw string) []string {
	raw = strings.ToValidUTF8(raw, "")
	lines := strings.Split(raw, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result = append(result, line)
	}
	return result
}
