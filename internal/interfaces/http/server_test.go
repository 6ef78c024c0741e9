package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
)

func TestNewServer_Defaults(t *testing.T) {
	s := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 5000}, http.NewServeMux(), nil)

	assert.Equal(t, "127.0.0.1:5000", s.Addr())
	assert.Equal(t, 15*time.Second, s.srv.ReadTimeout)
	assert.Equal(t, 5*time.Minute, s.srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, s.shutdownTimeout)
	assert.NotNil(t, s.Handler())
}

func TestNewServer_ConfiguredTimeouts(t *testing.T) {
	s := NewServer(config.ServerConfig{
		Port:            8081,
		ReadTimeout:     time.Second,
		WriteTimeout:    2 * time.Second,
		ShutdownTimeout: 3 * time.Second,
	}, http.NewServeMux(), nil)

	assert.Equal(t, ":8081", s.Addr())
	assert.Equal(t, time.Second, s.srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, s.srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, s.shutdownTimeout)
}

func TestServer_StopBeforeStart(t *testing.T) {
	s := NewServer(config.ServerConfig{Port: 0}, http.NewServeMux(), nil)
	require.NoError(t, s.Stop(context.Background()))
}

//Personal.AI order the ending
