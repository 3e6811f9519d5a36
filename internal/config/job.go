package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Protocol identifies the service a job authenticates against.
type Protocol string

const (
	SSH  Protocol = "ssh"
	FTP  Protocol = "ftp"
	HTTP Protocol = "http"
)

// Protocols lists the supported protocols in display order.
var Protocols = []Protocol{SSH, FTP, HTTP}

// Valid reports whether p is one of the supported protocols.
func (p Protocol) Valid() bool {
	switch p {
	case SSH, FTP, HTTP:
		return true
	}
	return false
}

// Job describes one attack against one target. It is built once by the
// wizard or the batch parser and only read afterwards.
type Job struct {
	Protocol Protocol
	Target   string
	Port     int
	Timeout  time.Duration
	Threads  int

	Username string // fixed username, overrides UserList
	UserList string // empty = built-in
	PassList string // empty = built-in

	// http only
	URL       string
	UserField string
	PassField string
	Success   string
}

// Error is a configuration error tied to one job key.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid job: %s %s", e.Key, e.Reason)
}

// Missing returns the error reported for an absent required key.
func Missing(key string) *Error {
	return &Error{Key: key, Reason: "is required"}
}

// DefaultPort returns the conventional port for p. For http the scheme of
// rawURL decides between 443 and 80.
func DefaultPort(p Protocol, rawURL string) int {
	switch p {
	case SSH:
		return 22
	case FTP:
		return 21
	case HTTP:
		if strings.HasPrefix(strings.ToLower(rawURL), "https://") {
			return 443
		}
		return 80
	}
	return 0
}

// Normalize returns a copy of j with the protocol lower-cased, whitespace
// trimmed and the port filled in when none was given: from the URL for
// http when it names one, else the protocol default.
func (j Job) Normalize() Job {
	j.Protocol = Protocol(strings.ToLower(strings.TrimSpace(string(j.Protocol))))
	j.Target = strings.TrimSpace(j.Target)
	j.URL = strings.TrimSpace(j.URL)
	if j.Port == 0 && j.Protocol == HTTP {
		if u, err := url.Parse(j.URL); err == nil {
			j.Port, _ = strconv.Atoi(u.Port())
		}
	}
	if j.Port == 0 {
		j.Port = DefaultPort(j.Protocol, j.URL)
	}
	return j
}

// Validate checks the job invariants. The returned error, if any, is an
// *Error naming the offending key.
func (j Job) Validate() error {
	if j.Protocol == "" {
		return Missing("protocol")
	}
	if !j.Protocol.Valid() {
		return &Error{Key: "protocol", Reason: fmt.Sprintf("%q is not one of ssh, ftp, http", j.Protocol)}
	}
	if j.Target == "" {
		return Missing("target")
	}
	if j.Threads < 1 {
		return &Error{Key: "threads", Reason: "must be at least 1"}
	}
	if j.Timeout <= 0 {
		return &Error{Key: "timeout", Reason: "must be greater than 0"}
	}
	if j.Port < 1 || j.Port > 65535 {
		return &Error{Key: "port", Reason: fmt.Sprintf("%d is out of range", j.Port)}
	}
	if j.Protocol == HTTP {
		if j.URL == "" {
			return Missing("url")
		}
		if j.UserField == "" {
			return Missing("user_field")
		}
		if j.PassField == "" {
			return Missing("pass_field")
		}
		if j.Success == "" {
			return Missing("success")
		}
	}
	return nil
}

// Address returns host:port for the dialing protocols.
func (j Job) Address() string {
	return fmt.Sprintf("%s:%d", j.Target, j.Port)
}
