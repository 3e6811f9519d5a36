package trial

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"net"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/scanner"
)

func startSSHServer(t *testing.T, user, pass string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, p []byte) (*ssh.Permissions, error) {
			if c.User() == user && string(p) == pass {
				return nil, nil
			}
			return nil, errors.New("access denied")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer nc.Close()
				sc, chans, reqs, err := ssh.NewServerConn(nc, cfg)
				if err != nil {
					return
				}
				go ssh.DiscardRequests(reqs)
				go func() {
					for ch := range chans {
						_ = ch.Reject(ssh.Prohibited, "no channels")
					}
				}()
				_ = sc.Wait()
			}()
		}
	}()
	return ln.Addr().String()
}

func TestSSHAttempt(t *testing.T) {
	addr := startSSHServer(t, "root", "toor")
	tr, err := New(jobFor(t, config.SSH, addr), Options{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		cred scanner.Credential
		want bool
	}{
		{scanner.Credential{Username: "root", Password: "toor"}, true},
		{scanner.Credential{Username: "root", Password: "wrong"}, false},
		{scanner.Credential{Username: "admin", Password: "toor"}, false},
	}
	for _, tt := range tests {
		if got := tr.Attempt(context.Background(), tt.cred); got != tt.want {
			t.Errorf("Attempt(%v) = %v, want %v", tt.cred, got, tt.want)
		}
	}
}

func TestSSHAttemptConnectionRefused(t *testing.T) {
	tr, err := New(jobFor(t, config.SSH, closedAddr(t)), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Attempt(context.Background(), scanner.Credential{Username: "root", Password: "x"}) {
		t.Error("expected false against a closed port")
	}
}

func TestSSHAttemptTimeout(t *testing.T) {
	job := jobFor(t, config.SSH, silentServer(t))
	job.Timeout = 100 * time.Millisecond
	tr, err := New(job, Options{})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if tr.Attempt(context.Background(), scanner.Credential{Username: "root", Password: "x"}) {
		t.Error("expected false when the server never answers")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("attempt took %s, want it bounded by the 100ms timeout", elapsed)
	}
}
