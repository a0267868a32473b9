package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]int{"solutions": 2}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.QueryID)
}

func TestOutputFormatter_SuccessForQuery(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	require.NoError(t, formatter.SuccessForQuery("q-123", map[string]int{"solutions": 1}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "q-123", resp.QueryID)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E111", "query \"kinds\" not found", []string{"animals"})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E111", resp.Error.Code)
	assert.Equal(t, "query \"kinds\" not found", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("2 solution(s)")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2 solution(s)")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E005", "graph directory not found", map[string]string{"dir": "x"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E005]")
	assert.Contains(t, buf.String(), "graph directory not found")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "zoo.cue"}
	err := formatter.Error("E101", "atoms[0]: name is required", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E101]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			errBuf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    buf,
				ErrWriter: errBuf,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Processing %s", "zoo.cue")

			assert.Empty(t, buf.String(), "verbose logs never go to the JSON writer")
			if tt.wantLog {
				assert.Contains(t, errBuf.String(), "Processing zoo.cue")
			} else {
				assert.Empty(t, errBuf.String())
			}
		})
	}
}

func TestGetErrWriterFallsBack(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Writer: buf}
	assert.Same(t, buf, formatter.GetErrWriter())
}

func TestExitErrors(t *testing.T) {
	cause := errors.New("disk full")

	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitFailure, "failed to load atoms", cause)
	assert.Equal(t, "failed to load atoms: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	outer := fmt.Errorf("run: %w", wrapped)
	assert.Equal(t, ExitFailure, GetExitCode(outer))
}
