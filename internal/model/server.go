package model

import (
	"context"
	"net"
)

// SecurityLayer produces a plain or TLS listener for the API server.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is the API server lifecycle.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
