package client

import (
	"fmt"
	"net"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
)

// CreateTransport returns a transport tuned for a small number of upstream
// hosts that are called often (Xero identity and API).
func CreateTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

// NewHTTPClient creates the outbound client used for Xero. Requests carry
// their own bearer tokens, so no client-level authentication is configured.
func NewHTTPClient(timeout time.Duration) (*http.Client, error) {
	c, err := httpclient.NewAuthClient(
		httpclient.AuthModeNone,
		"",
		httpclient.WithTimeout(timeout),
		httpclient.WithTransport(CreateTransport()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}
	return c, nil
}
