// Package tunnel exposes the local API through an optional ngrok endpoint.
package tunnel

import (
	"context"
	"errors"
	"fmt"

	"musicify/internal/config"

	"github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok/v2"
)

// ErrMissingAuthToken is returned when the tunnel is enabled without a token.
var ErrMissingAuthToken = errors.New("ngrok auth token not found: set NGROK_AUTHTOKEN or tunnel.auth_token")

// Service represents the ngrok tunnel service. A nil *Service is a disabled
// tunnel and every method is a no-op on it.
type Service struct {
	config  config.TunnelConfig
	logger  *logrus.Logger
	agent   ngrok.Agent
	forward ngrok.EndpointForwarder
}

// NewService creates a new tunnel service, or nil when the tunnel is disabled.
func NewService(cfg config.TunnelConfig, logger *logrus.Logger) (*Service, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.AuthToken == "" {
		return nil, ErrMissingAuthToken
	}

	agent, err := ngrok.NewAgent(ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		return nil, fmt.Errorf("failed to create ngrok agent: %w", err)
	}

	return &Service{config: cfg, logger: logger, agent: agent}, nil
}

// Start forwards a public endpoint to localAddress.
func (s *Service) Start(ctx context.Context, localAddress string) error {
	if s == nil {
		return nil
	}

	s.logger.Info("Starting ngrok tunnel...")

	var opts []ngrok.EndpointOption
	if s.config.Domain != "" {
		opts = append(opts, ngrok.WithURL(s.config.Domain))
	}

	forward, err := s.agent.Forward(ctx, ngrok.WithUpstream(localAddress), opts...)
	if err != nil {
		return fmt.Errorf("failed to create ngrok tunnel: %w", err)
	}
	s.forward = forward

	s.logger.WithFields(logrus.Fields{
		"public_url": forward.URL().String(),
		"upstream":   localAddress,
	}).Info("Ngrok tunnel active")
	return nil
}

// PublicURL returns the public URL of the tunnel, or "" when not running.
func (s *Service) PublicURL() string {
	if s == nil || s.forward == nil {
		return ""
	}
	return s.forward.URL().String()
}

// Stop closes the tunnel.
func (s *Service) Stop() error {
	if s == nil || s.forward == nil {
		return nil
	}
	s.logger.Info("Stopping ngrok tunnel...")
	return s.forward.Close()
}

// Done is closed when the tunnel ends. It is nil, and so never ready, for a
// disabled or unstarted tunnel.
func (s *Service) Done() <-chan struct{} {
	if s == nil || s.forward == nil {
		return nil
	}
	return s.forward.Done()
}
