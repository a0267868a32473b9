package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateZoo(t *testing.T) {
	out, _, err := runCommand(t, "validate", zooDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Valid: 5 atom(s), 3 query(ies)")
}

func TestValidateZooJSON(t *testing.T) {
	out, _, err := runCommand(t, "--format", "json", "validate", zooDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 5, resp.Data.Atoms)
	assert.Equal(t, 3, resp.Data.Queries)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, _, err := runCommand(t, "validate", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005") // ErrCodeNotFound
	assert.Contains(t, out, "not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, _, err := runCommand(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
}

func TestValidateInvalidQuery(t *testing.T) {
	dir := writeCUE(t, `
queries: bad: {
	variables: ["X", "Unused"]
	clauses: [
		{link: "InheritanceLink", out: [{var: "X"}, {var: "Y"}]},
	]
}
`)
	out, _, err := runCommand(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "query bad")
	assert.Contains(t, out, "E110: clause 0.1: variable $Y is not declared")
}

func TestValidateInvalidQueryJSON(t *testing.T) {
	dir := writeCUE(t, `
queries: split: {
	clauses: [
		{link: "ListLink", out: [{node: "ConceptNode", name: "a"}]},
		{link: "ListLink", out: [{node: "ConceptNode", name: "b"}]},
	]
}
`)
	out, _, err := runCommand(t, "--format", "json", "validate", dir)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "split", resp.Data.Errors[0].Query)
	assert.Contains(t, resp.Data.Errors[0].Message, "shares no node or variable")
	assert.Equal(t, ErrCodeQueryInvalid, resp.Error.Code)
}

func TestValidateWarnings(t *testing.T) {
	dir := writeCUE(t, `
queries: lonely: {
	variables: ["X", "Z"]
	clauses: [
		{link: "InheritanceLink", out: [{var: "X"}, {node: "ConceptNode", name: "animal"}]},
	]
}
`)
	out, _, err := runCommand(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: lonely: variable $Z is declared but never used")
	assert.Contains(t, out, "✓ Valid: 0 atom(s), 1 query(ies)")
}

func TestValidateUnheldMemberType(t *testing.T) {
	dir := writeCUE(t, `
atoms: [
	{link: "InheritanceLink", out: [{node: "ConceptNode", name: "dog"}, {node: "ConceptNode", name: "animal"}]},
]
queries: typo: {
	variables: ["X"]
	clauses: [
		{link: "InheritanceLink", out: [{var: "X"}, {node: "ConceptNod", name: "animal"}]},
	]
}
`)
	out, _, err := runCommand(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []ValidationIssue{{
		Query:   "typo",
		Code:    ErrCodeUnheldType,
		Message: "no link in the documents holds a ConceptNod",
	}}, resp.Data.Warnings)
}

func TestValidateMalformedTerm(t *testing.T) {
	dir := writeCUE(t, `
atoms: [
	{node: "ConceptNode"},
]
`)
	out, _, err := runCommand(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E101")
	assert.Contains(t, out, "name is required")
	assert.Contains(t, out, "line ")
}

func TestValidateNothingDefined(t *testing.T) {
	dir := writeCUE(t, "other: 1\n")
	out, _, err := runCommand(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "no atoms or queries found")
}

func TestValidateVerboseOutput(t *testing.T) {
	_, errOut, err := runCommand(t, "--verbose", "validate", zooDir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Found 2 CUE file(s)")
	assert.Contains(t, errOut, "Validating query: animals")
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"atoms", ErrCodeInvalidAtom},
		{"atoms[2].out[0]", ErrCodeInvalidAtom},
		{"atoms.taxonomy[0]", ErrCodeInvalidAtom},
		{"queries.kinds.clauses[0]", ErrCodeInvalidTerm},
		{"cue", ErrCodeBuildFailed},
		{"term", ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}
