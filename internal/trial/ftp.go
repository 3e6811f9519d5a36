package trial

import (
	"context"
	"net"
	"time"

	"github.com/jlaffaye/ftp"
	"golang.org/x/net/proxy"

	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/scanner"
)

type ftpTrial struct {
	addr    string
	timeout time.Duration
	dialer  proxy.ContextDialer
}

func newFTPTrial(job config.Job, opts Options) (*ftpTrial, error) {
	d, err := newDialer(opts.Proxy, job.Timeout)
	if err != nil {
		return nil, err
	}
	return &ftpTrial{addr: job.Address(), timeout: job.Timeout, dialer: d}, nil
}

func (t *ftpTrial) Name() string { return string(config.FTP) }

func (t *ftpTrial) Attempt(ctx context.Context, cred scanner.Credential) bool {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	// The control connection carries the whole exchange, so its deadline
	// bounds the attempt.
	dial := func(network, address string) (net.Conn, error) {
		conn, err := t.dialer.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(deadline)
		}
		return conn, nil
	}

	c, err := ftp.Dial(t.addr,
		ftp.DialWithTimeout(t.timeout),
		ftp.DialWithContext(ctx),
		ftp.DialWithDialFunc(dial),
	)
	if err != nil {
		return false
	}
	defer func() { _ = c.Quit() }()

	return c.Login(cred.Username, cred.Password) == nil
}
