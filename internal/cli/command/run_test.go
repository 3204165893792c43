package command

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

func TestRunCommand_LifecycleAndShutdown(t *testing.T) {
	gw := newFakeGateway(t, sampleNodes()...)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\n")

	app, stdout, _ := testApp()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runApp(t, ctx, app, "--config", path, "run")
	}()

	require.Eventually(t, func() bool {
		return gw.called("POST /api/v1/nodes/pk-1/ping") && gw.called("POST /api/v1/nodes/pk-2/ping")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancellation")
	}

	for _, call := range []string{
		"POST /api/v1/nodes/pk-1",
		"POST /api/v1/nodes/pk-1/start-session",
		"POST /api/v1/nodes/pk-1/stop-session",
		"POST /api/v1/nodes/pk-2/stop-session",
	} {
		assert.True(t, gw.called(call), "missing %s", call)
	}

	out := stdout.String()
	assert.Contains(t, out, "Version:")
	assert.Contains(t, out, "Initializing node pk-1 (hardware hw-1), proxy: OFF")
	assert.Contains(t, out, "Initializing node pk-2 (hardware hw-2), proxy: OFF")
}

func TestRunCommand_Quiet(t *testing.T) {
	gw := newFakeGateway(t)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\n")

	app, stdout, _ := testApp()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, runApp(t, ctx, app, "--config", path, "run", "--quiet"))
	assert.NotContains(t, stdout.String(), "Version:")
}

func TestRunCommand_StrictDiscoveryFailure(t *testing.T) {
	gw := newFakeGateway(t)
	gw.setListStatus(http.StatusForbidden)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\n")

	app, _, stderr := testApp()
	done := make(chan error, 1)
	go func() {
		done <- runApp(t, context.Background(), app, "--config", path, "run", "-q")
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized), "got %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after discovery failure")
	}
	assert.Contains(t, stderr.String(), "discovery failed")
}

func TestRunCommand_LenientDiscovery(t *testing.T) {
	gw := newFakeGateway(t)
	gw.setListStatus(http.StatusUnauthorized)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\nfleet:\n  strict_discovery: false\n")

	app, _, stderr := testApp()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runApp(t, ctx, app, "--config", path, "run", "-q")
	}()

	require.Eventually(t, func() bool {
		return gw.called("GET /api/v1/nodes")
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("run returned early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, stderr.String(), "account skipped")
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "http://gateway.test", "")

	app, stdout, _ := testApp()
	err := runApp(t, context.Background(), app, "--config", path, "run")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig), "got %v", err)
	assert.Empty(t, stdout.String(), "banner is printed only for a valid config")
}
