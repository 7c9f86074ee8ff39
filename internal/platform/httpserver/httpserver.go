package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server with conservative timeouts. Handlers own their
// request deadlines; these guard against slow or stuck clients.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
