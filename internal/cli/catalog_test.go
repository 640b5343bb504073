package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fedcore/internal/intrinsics"
)

func TestCatalogCommand_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCatalogCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "URI")
	assert.Contains(t, out, "SIGNATURE")
	for _, d := range intrinsics.All() {
		assert.Contains(t, out, d.URI)
	}
}

func TestCatalogCommand_JSONFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCatalogCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--operator", intrinsics.OpZip})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string           `json:"status"`
		Data   []intrinsics.Def `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, intrinsics.FederatedZipAtClients, resp.Data[0].URI)
	assert.Equal(t, "clients", resp.Data[0].Placement)
	assert.Equal(t, intrinsics.FederatedZipAtServer, resp.Data[1].URI)
}

func TestCatalogCommand_UnknownOperator(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCatalogCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--operator", "teleport"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), `no intrinsic for operator "teleport"`)
}

func TestCatalogCommand_DoesNotMutateCatalog(t *testing.T) {
	cmd := NewCatalogCommand(&RootOptions{Format: "json"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--operator", "sum"})
	require.NoError(t, cmd.Execute())

	assert.Len(t, intrinsics.All(), 16)
}
