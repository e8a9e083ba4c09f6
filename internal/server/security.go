// Package server provides the listener security layers for the API server.
package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/kindnet/kindnet-server/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSListener)(nil)
	_ model.SecurityLayer = (*PlainListener)(nil)
)

// TLSListener produces TLS listeners from a certificate and key pair on
// disk.
type TLSListener struct {
	certFile string
	keyFile  string
}

// NewTLSListener creates a TLS security layer for the given certificate and
// private key files.
func NewTLSListener(certFile, keyFile string) *TLSListener {
	return &TLSListener{
		certFile: certFile,
		keyFile:  keyFile,
	}
}

// Listen loads the certificate pair and opens a TLS listener on addr.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFile, l.keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	return tls.Listen(protocol, addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
	})
}

// PlainListener produces unencrypted listeners, for local development and
// deployments behind a TLS-terminating proxy.
type PlainListener struct{}

// NewPlainListener creates a plain security layer.
func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen opens an unencrypted listener on addr.
func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}
