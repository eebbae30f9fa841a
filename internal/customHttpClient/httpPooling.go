package customHttpClient

import (
	"net/http"

	"github.com/akolanti/PDFChatAPI/internal/config"
)

var pooledTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Client returns an http.Client backed by one shared pooled transport.
// Embedding and LLM traffic is many small requests to the same host, so
// connection reuse takes the handshake out of every call.
func Client() *http.Client {
	return &http.Client{Transport: pooledTransport}
}
