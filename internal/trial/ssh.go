package trial

import (
	"context"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/net/proxy"

	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/scanner"
)

type sshTrial struct {
	addr    string
	timeout time.Duration
	dialer  proxy.ContextDialer
}

func newSSHTrial(job config.Job, opts Options) (*sshTrial, error) {
	d, err := newDialer(opts.Proxy, job.Timeout)
	if err != nil {
		return nil, err
	}
	return &sshTrial{addr: job.Address(), timeout: job.Timeout, dialer: d}, nil
}

func (t *sshTrial) Name() string { return string(config.SSH) }

// Attempt completes the SSH handshake and password authentication. Servers
// that only offer keyboard-interactive get the password as every answer.
func (t *sshTrial) Attempt(ctx context.Context, cred scanner.Credential) bool {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	conn, err := t.dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return false
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock the handshake if the run is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	password := cred.Password
	cfg := &ssh.ClientConfig{
		User: cred.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         t.timeout,
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, t.addr, cfg)
	if err != nil {
		return false
	}
	client := ssh.NewClient(c, chans, reqs)
	_ = client.Close()
	return true
}
