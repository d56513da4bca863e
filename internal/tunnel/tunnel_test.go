package tunnel

import (
	"context"
	"testing"

	"musicify/internal/config"
	"musicify/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceDisabled(t *testing.T) {
	svc, err := NewService(config.TunnelConfig{Enabled: false, AuthToken: "tok"}, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestNewServiceMissingToken(t *testing.T) {
	svc, err := NewService(config.TunnelConfig{Enabled: true}, logging.Discard())
	assert.ErrorIs(t, err, ErrMissingAuthToken)
	assert.Nil(t, svc)
}

func TestNilServiceIsNoop(t *testing.T) {
	var svc *Service

	assert.NoError(t, svc.Start(context.Background(), "http://localhost:3000"))
	assert.Empty(t, svc.PublicURL())
	assert.NoError(t, svc.Stop())
	assert.Nil(t, svc.Done())
}
