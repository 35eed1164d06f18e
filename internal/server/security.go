package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/fileshare-server/internal/config"
	"github.com/dtroode/fileshare-server/internal/model"
)

// ALPN protocols offered by each server. fasthttp speaks only HTTP/1.1,
// while gRPC clients require h2.
var (
	HTTPProtocols = []string{"http/1.1"}
	GRPCProtocols = []string{"h2"}
)

// NewSecurityLayer returns a TLS listener offering protocols when HTTPS is
// enabled and a plain one otherwise.
func NewSecurityLayer(cfg config.HTTP, protocols []string) (model.SecurityLayer, error) {
	if !cfg.EnableHTTPS {
		return NewPlainListener(), nil
	}
	return NewTLSListener(cfg.CertFileName, cfg.PrivateKeyFileName, protocols)
}

// TLSListener accepts TLS connections for a certificate loaded at startup.
type TLSListener struct {
	config *tls.Config
}

// NewTLSListener loads the key pair so that a bad certificate fails the
// process before any server starts.
func NewTLSListener(certFileName, privateKeyFileName string, protocols []string) (*TLSListener, error) {
	cert, err := tls.LoadX509KeyPair(certFileName, privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	return &TLSListener{
		config: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
			NextProtos:   append([]string(nil), protocols...),
		},
	}, nil
}

func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	return tls.Listen(protocol, addr, l.config.Clone())
}

// PlainListener accepts unencrypted connections.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}
