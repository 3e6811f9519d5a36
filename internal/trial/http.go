package trial

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maxvaer/brutecli/internal/config"
	"github.com/maxvaer/brutecli/internal/scanner"
)

// maxBody caps how much of a login response is searched for the keyword.
const maxBody = 2 << 20

type httpTrial struct {
	client    *http.Client
	url       string
	userField string
	passField string
	userAgent string
	chain     *Chain
}

func newHTTPTrial(job config.Job, opts Options) (*httpTrial, error) {
	u, err := url.Parse(job.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", job.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: want http(s)://host/path", job.URL)
	}
	// A port in the URL wins over the job port.
	if u.Port() == "" && job.Port != 0 && job.Port != config.DefaultPort(config.HTTP, job.URL) {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(job.Port))
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: job.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: job.Threads,
		MaxIdleConns:        job.Threads,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   job.Timeout,
		// A redirect after the POST is itself a success signal.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (compatible; brutecli)"
	}

	return &httpTrial{
		client:    client,
		url:       u.String(),
		userField: job.UserField,
		passField: job.PassField,
		userAgent: ua,
		chain:     NewChain(NewKeywordMatcher(job.Success), NewRedirectMatcher()),
	}, nil
}

func (t *httpTrial) Name() string { return string(config.HTTP) }

// Attempt posts the login form and reports whether the response carries
// the success keyword or redirects.
func (t *httpTrial) Attempt(ctx context.Context, cred scanner.Credential) bool {
	form := url.Values{}
	form.Set(t.userField, cred.Username)
	form.Set(t.passField, cred.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	// A body cut short by the timeout still counts for what was read.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	return t.chain.Apply(&Response{StatusCode: resp.StatusCode, Body: body})
}
