package command

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/blessfleet/internal/core/domain"
)

func sampleNodes() []map[string]any {
	return []map[string]any{
		{"pubKey": "pk-1", "hardwareId": "hw-1", "ipAddress": "10.0.0.1", "isConnected": true, "totalReward": 12.5, "todayReward": 0.25},
		{"pubKey": "pk-2", "hardwareId": "hw-2", "isConnected": false},
	}
}

func TestNodesCommand_Table(t *testing.T) {
	gw := newFakeGateway(t, sampleNodes()...)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\n")

	app, stdout, _ := testApp()
	require.NoError(t, runApp(t, context.Background(), app, "--config", path, "nodes"))

	out := lines(stdout.String())
	require.Len(t, out, 3)
	assert.Equal(t, []string{"ACCOUNT", "NODE", "CONNECTED", "TODAY", "TOTAL"}, strings.Fields(out[0]))

	label := domain.Account{Token: "tok-1"}.Label()
	assert.Equal(t, []string{label, "pk-1", "true", "0.25", "12.50"}, strings.Fields(out[1]))
	assert.Equal(t, []string{label, "pk-2", "false", "0.00", "0.00"}, strings.Fields(out[2]))

	assert.True(t, gw.called("GET /api/v1/nodes"))
	assert.False(t, gw.called("POST /api/v1/nodes/pk-1"), "nodes must not register")
}

func TestNodesCommand_Wide(t *testing.T) {
	gw := newFakeGateway(t, sampleNodes()...)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\n")

	app, stdout, _ := testApp()
	require.NoError(t, runApp(t, context.Background(), app, "--config", path, "nodes", "--wide"))

	out := lines(stdout.String())
	require.Len(t, out, 3)
	assert.Equal(t, "HARDWARE", strings.Fields(out[0])[2])
	assert.Equal(t, []string{"hw-2", "-"}, strings.Fields(out[2])[2:4])
}

func TestNodesCommand_JSON(t *testing.T) {
	gw := newFakeGateway(t, sampleNodes()...)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\n  - token: tok-2\n")

	app, stdout, _ := testApp()
	require.NoError(t, runApp(t, context.Background(), app, "--config", path, "nodes", "-o", "json"))

	var got NodeList
	require.NoError(t, json.Unmarshal([]byte(stdout.String()), &got))
	require.Len(t, got.Accounts, 2)
	assert.Equal(t, domain.Account{Token: "tok-2"}.Label(), got.Accounts[1].Account)
	require.Len(t, got.Accounts[0].Nodes, 2)
	assert.Equal(t, domain.NodeID("pk-1"), got.Accounts[0].Nodes[0].PubKey)
	assert.Equal(t, "10.0.0.1", got.Accounts[0].Nodes[0].IPAddress)
}

func TestNodesCommand_Unauthorized(t *testing.T) {
	gw := newFakeGateway(t)
	gw.setListStatus(http.StatusUnauthorized)
	path := writeConfig(t, gw.URL, "accounts:\n  - token: tok-1\n")

	app, stdout, _ := testApp()
	err := runApp(t, context.Background(), app, "--config", path, "nodes")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized), "got %v", err)
	assert.Empty(t, stdout.String())
}
