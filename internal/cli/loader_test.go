package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bits/internal/packet"
)

func TestParseConfig_Overrides(t *testing.T) {
	limits, err := ParseConfig([]byte(`
max_depth:   64
max_packets: 4096
`), "limits.cue")
	require.NoError(t, err)

	defaults := packet.DefaultLimits()
	assert.Equal(t, 64, limits.MaxDepth)
	assert.Equal(t, 4096, limits.MaxPackets)
	assert.Equal(t, defaults.MaxInputBits, limits.MaxInputBits)
}

func TestParseConfig_Empty(t *testing.T) {
	limits, err := ParseConfig([]byte(""), "limits.cue")
	require.NoError(t, err)
	assert.Equal(t, packet.DefaultLimits(), limits)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{"syntax error", "max_depth: {", ErrCodeBuildFailed},
		{"unknown field", "max_dept: 10", ErrCodeConfigInvalid},
		{"not positive", "max_depth: 0", ErrCodeConfigInvalid},
		{"wrong type", `max_packets: "many"`, ErrCodeConfigInvalid},
		{"not concrete", "max_input_bits: int", ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.content), "limits.cue")
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "got %T: %v", err, err)
			assert.Equal(t, tt.wantCode, le.Code, "message: %s", le.Message)
		})
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.cue")
	require.NoError(t, os.WriteFile(path, []byte("max_input_bits: 256\n"), 0644))

	limits, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 256, limits.MaxInputBits)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig("/nonexistent/limits.cue")
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeConfigInvalid, Message: "bad"}
	assert.Equal(t, "E120: bad", err.Error())
}
