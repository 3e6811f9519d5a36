package trial

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// newDialer returns a dialer for the raw TCP protocols. With a proxy URL
// (socks5:// or socks5h://) connections are tunnelled through it.
func newDialer(proxyURL string, timeout time.Duration) (proxy.ContextDialer, error) {
	base := &net.Dialer{Timeout: timeout}
	if proxyURL == "" {
		return base, nil
	}
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", proxyURL, err)
	}
	d, err := proxy.FromURL(u, base)
	if err != nil {
		return nil, fmt.Errorf("unsupported proxy %q: %w", proxyURL, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("proxy %q cannot dial with a context", proxyURL)
	}
	return cd, nil
}
