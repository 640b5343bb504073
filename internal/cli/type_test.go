package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execType(format string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewTypeCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTypeCommand_Text(t *testing.T) {
	out, err := execType("text", " { < a = int32 , b = bool > } @ CLIENTS ")
	require.NoError(t, err)
	assert.Contains(t, out, "canonical: {<a=int32,b=bool>}@CLIENTS")
	assert.Contains(t, out, "kind:      federated")
}

func TestTypeCommand_Assignable(t *testing.T) {
	out, err := execType("json", "<int32,bool>", "--assignable-from", "<a=int32,b=bool>")
	require.NoError(t, err)

	var resp struct {
		Data TypeInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "<int32,bool>", resp.Data.Canonical)
	assert.Equal(t, "named_tuple", resp.Data.Kind)
	assert.Equal(t, "<a=int32,b=bool>", resp.Data.AssignableFrom)
	require.NotNil(t, resp.Data.Assignable)
	assert.True(t, *resp.Data.Assignable)
}

func TestTypeCommand_NotAssignable(t *testing.T) {
	out, err := execType("text", "<a=int32>", "--assignable-from", "<int32>")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ assignable from <int32>")
}

func TestTypeCommand_ParseError(t *testing.T) {
	tests := [][]string{
		{"int"},
		{"int32", "--assignable-from", "{int32}@MOCK"},
	}

	for _, args := range tests {
		t.Run(args[len(args)-1], func(t *testing.T) {
			out, err := execType("json", args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, ErrCodeParse, resp.Error.Code)
		})
	}
}
