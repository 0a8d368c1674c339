package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPDFReport(t *testing.T) {
	result, params := testResult(t)

	plotImages := make(map[string][]byte)
	for _, freq := range result.Frequencies {
		img, err := RenderFrequencyRow(freq, result.Profiles[freq], params.InterfaceDepthNm)
		require.NoError(t, err)
		plotImages[freq] = img
	}

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, result, params, plotImages))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"), "expected a PDF file")
	assert.Greater(t, len(content), 1000)
}

func TestBuildPDFReport_MissingPlots(t *testing.T) {
	// A report without plot images still renders the tables and a
	// placeholder note.
	result, params := testResult(t)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, result, params, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
