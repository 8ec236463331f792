package prompts_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/eser/ajan/logfx"
	"github.com/eser/distill/pkg/pipeline/business/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, path string) *prompts.Service {
	t.Helper()

	logger, err := logfx.NewLoggerAsDefault(io.Discard, &logfx.Config{})
	require.NoError(t, err)

	return prompts.NewService(&prompts.Config{Path: path}, logger)
}

func writePromptFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prompts.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_PreservesOrderAndSkipsBlankLines(t *testing.T) {
	path := writePromptFile(t, "first prompt\n\nsecond prompt\n   \nthird prompt\n")
	service := newService(t, path)

	loaded, err := service.Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"first prompt", "second prompt", "third prompt"}, loaded)
}

func TestLoad_TrimsCarriageReturns(t *testing.T) {
	path := writePromptFile(t, "windows prompt\r\nplain prompt\n")
	service := newService(t, path)

	loaded, err := service.Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"windows prompt", "plain prompt"}, loaded)
}

func TestLoad_MissingTrailingNewline(t *testing.T) {
	path := writePromptFile(t, "only prompt")
	service := newService(t, path)

	loaded, err := service.Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"only prompt"}, loaded)
}

func TestLoad_EmptyFileIsFatal(t *testing.T) {
	path := writePromptFile(t, "\n\n  \n")
	service := newService(t, path)

	_, err := service.Load()

	require.ErrorIs(t, err, prompts.ErrNoPrompts)
}

func TestLoad_MissingFileReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")
	service := newService(t, path)

	_, err := service.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
