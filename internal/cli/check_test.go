package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bits/internal/harness"
)

const passingCorpus = `
name: smoke
description: "Worked examples"
cases:
  - name: literal
    hex: D2FE28
    expect:
      value: 2021
      version_sum: 6
  - name: eval_sum
    hex: C200B40A82
    expect:
      value: 3
  - name: eval_nested
    hex: 9C0141080250320F1802104A08
    expect:
      value: 1
`

const failingCorpus = `
name: broken
description: "One wrong expectation"
cases:
  - name: literal
    hex: D2FE28
    expect:
      value: 2021
  - name: wrong
    hex: D2FE28
    expect:
      value: 7
`

func writeTestCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheckCommandMissingArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestCheckCommandNonExistentCorpus(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/corpus.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "corpus file not found")
}

func TestCheckCommandInvalidCorpus(t *testing.T) {
	path := writeTestCorpus(t, "name: x\ncases: []\n")

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error ["+ErrCodeCorpus+"]")
}

func TestCheckCommandPassing(t *testing.T) {
	path := writeTestCorpus(t, passingCorpus)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ literal")
	assert.Contains(t, buf.String(), "✓ eval_nested")
	assert.Contains(t, buf.String(), "3 passed, 0 failed, 3 total")
}

func TestCheckCommandFilter(t *testing.T) {
	path := writeTestCorpus(t, passingCorpus)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--filter", "eval_*"})

	require.NoError(t, cmd.Execute())
	assert.NotContains(t, buf.String(), "✓ literal")
	assert.Contains(t, buf.String(), "2 passed, 0 failed, 2 total")

	buf.Reset()
	cmd = NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--filter", "nothing*"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No cases matched.")
}

func TestCheckCommandFailing(t *testing.T) {
	path := writeTestCorpus(t, failingCorpus)

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ wrong")
	assert.Contains(t, buf.String(), "value: expected 7, got 2021")
	assert.Contains(t, buf.String(), "1 passed, 1 failed, 2 total")
}

func TestCheckCommandJSON(t *testing.T) {
	t.Run("passing", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewCheckCommand(&RootOptions{Format: "json"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{writeTestCorpus(t, passingCorpus)})

		require.NoError(t, cmd.Execute())

		var resp struct {
			Status string         `json:"status"`
			Data   harness.Result `json:"data"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, 3, resp.Data.Passed)
		assert.True(t, resp.Data.Pass)
	})

	t.Run("failing", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewCheckCommand(&RootOptions{Format: "json"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{writeTestCorpus(t, failingCorpus)})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		var resp struct {
			Status string         `json:"status"`
			Data   harness.Result `json:"data"`
			Error  *CLIError      `json:"error"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeCheckFailed, resp.Error.Code)
		assert.Equal(t, 1, resp.Data.Failed)
	})
}

func TestCheckCommandExamplesCorpus(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("..", "harness", "testdata", "examples.yaml")})

	require.NoError(t, cmd.Execute(), buf.String())
	assert.Contains(t, buf.String(), "0 failed")
}
