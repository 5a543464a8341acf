package utils

import (
	"crypto/tls"
	"net/http"
	"time"
)

// NewTransport returns the pooled transport shared by upstream clients.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return NewHTTPClientWithTransport(timeout, NewTransport())
}

// NewHTTPClientWithTransport lets callers wrap the transport, for example with
// request logging.
func NewHTTPClientWithTransport(timeout time.Duration, rt http.RoundTripper) *http.Client {
	if rt == nil {
		rt = NewTransport()
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}
}
