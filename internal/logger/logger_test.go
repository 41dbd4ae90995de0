package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotator_RotatesWhenFull(t *testing.T) {
	name := filepath.Join(t.TempDir(), "qa.log")
	r := &Rotator{Filename: name, MaxSize: 16, MaxBackups: 2}
	t.Cleanup(func() { r.Close() })

	_, err := r.Write([]byte("0123456789\n"))
	require.NoError(t, err)
	_, err = r.Write([]byte("abcdefghij\n"))
	require.NoError(t, err)
	_, err = r.Write([]byte("ABCDEFGHIJ\n"))
	require.NoError(t, err)

	live, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJ\n", string(live))

	first, err := os.ReadFile(name + ".1")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghij\n", string(first))

	second, err := os.ReadFile(name + ".2")
	require.NoError(t, err)
	assert.Equal(t, "0123456789\n", string(second))
}

func TestRotator_AppendsToExisting(t *testing.T) {
	name := filepath.Join(t.TempDir(), "qa.log")
	require.NoError(t, os.WriteFile(name, []byte("old\n"), 0644))

	r := &Rotator{Filename: name, MaxSize: 1024, MaxBackups: 1}
	t.Cleanup(func() { r.Close() })

	_, err := r.Write([]byte("new\n"))
	require.NoError(t, err)

	b, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(b))
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "qa.log")
	logger := Setup(Options{Level: "debug", Filename: name, MaxSizeMB: 1, MaxBackups: 1})

	logger.Info().Str("ticker", "SPY").Msg("cycle complete")

	b, err := os.ReadFile(name)
	require.NoError(t, err)
	line := string(b)
	assert.True(t, strings.Contains(line, `"ticker":"SPY"`), line)
	assert.True(t, strings.Contains(line, `"message":"cycle complete"`), line)
}
