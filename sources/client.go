package sources

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// NewHTTPClient builds the base client for every Reddit call. Reddit rejects requests
// without a descriptive User-Agent, so one is set on every request.
func NewHTTPClient(proxyURL, userAgent string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsedURL, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		if parsedURL.Scheme == "socks5" {
			// SOCKS5 proxy with authentication
			var auth *proxy.Auth
			if parsedURL.User != nil {
				password, _ := parsedURL.User.Password()
				auth = &proxy.Auth{
					User:     parsedURL.User.Username(),
					Password: password,
				}
			}

			dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
			if err != nil {
				return nil, err
			}
			transport.Proxy = nil
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
			slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{userAgent: userAgent, next: transport},
	}, nil
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(clone)
}
