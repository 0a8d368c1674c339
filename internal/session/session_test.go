package session

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/cv_profiler_go/internal/parser"
	"github.com/user/cv_profiler_go/internal/profile"
)

func validParams() Params {
	return Params{DiameterUm: 500, EpsilonR: 11.7, InterfaceDepthNm: 250}
}

func defaultExtractor(t *testing.T) parser.MetadataExtractor {
	t.Helper()
	e, err := parser.NewPatternExtractor("")
	require.NoError(t, err)
	return e
}

// writeSweepFile creates a plausible two-column-sweep file with rows evenly
// stepping the capacitances down.
func writeSweepFile(t *testing.T, dir, name string, rows int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("Voltage C_fwd C_bwd\n")
	for i := 0; i < rows; i++ {
		v := float64(i) * 0.1
		cf := 1e-9 - float64(i)*5e-12
		cb := 1.05e-9 - float64(i)*5e-12
		sb.WriteString(fmt.Sprintf("%g %g %g\n", v, cf, cb))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid", validParams(), false},
		{"zero diameter", Params{DiameterUm: 0, EpsilonR: 11.7, InterfaceDepthNm: 250}, true},
		{"negative diameter", Params{DiameterUm: -500, EpsilonR: 11.7, InterfaceDepthNm: 250}, true},
		{"zero permittivity", Params{DiameterUm: 500, EpsilonR: 0, InterfaceDepthNm: 250}, true},
		{"negative interface depth", Params{DiameterUm: 500, EpsilonR: 11.7, InterfaceDepthNm: -1}, true},
		{"NaN permittivity", Params{DiameterUm: 500, EpsilonR: math.NaN(), InterfaceDepthNm: 250}, true},
		{"infinite diameter", Params{DiameterUm: math.Inf(1), EpsilonR: 11.7, InterfaceDepthNm: 250}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParameter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParams_AreaM2(t *testing.T) {
	p := Params{DiameterUm: 500, EpsilonR: 11.7, InterfaceDepthNm: 250}
	radius := 500e-6 / 2
	assert.InEpsilon(t, math.Pi*radius*radius, p.AreaM2(), 1e-12)
}

func TestBuild_AggregatesFrequenciesInOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSweepFile(t, dir, "CV_GaN04_100kHz.txt", 20),
		writeSweepFile(t, dir, "CV_GaN04_10kHz.txt", 20),
		writeSweepFile(t, dir, "CV_GaN04_1kHz.txt", 20),
	}

	result, err := Build(paths, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "GaN04", result.SampleID)
	assert.Equal(t, []string{"CV_GaN04_100kHz", "CV_GaN04_10kHz", "CV_GaN04_1kHz"}, result.Frequencies)
	for _, freq := range result.Frequencies {
		prof := result.Profiles[freq]
		require.NotNil(t, prof)
		assert.Equal(t, 20, prof.Len())
	}
}

func TestBuild_InvalidParamsFailBeforeFileIO(t *testing.T) {
	_, err := Build([]string{"does-not-exist.txt"}, Params{}, defaultExtractor(t), profile.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBuild_MixedSamplesRejected(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSweepFile(t, dir, "CV_GaN04_100kHz.txt", 10),
		writeSweepFile(t, dir, "CV_Si12_100kHz.txt", 10),
	}

	result, err := Build(paths, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMixedSample)
	assert.Contains(t, err.Error(), "GaN04")
	assert.Contains(t, err.Error(), "Si12")
	// The partial result must never masquerade as a usable aggregate.
	require.NotNil(t, result)
}

func TestBuild_SkipsUnusableFilesWithWarnings(t *testing.T) {
	dir := t.TempDir()
	good := writeSweepFile(t, dir, "CV_GaN04_100kHz.txt", 10)

	empty := filepath.Join(dir, "CV_GaN04_10kHz.txt")
	require.NoError(t, os.WriteFile(empty, []byte("header only\n1.0 2.0\n"), 0644))

	result, err := Build([]string{good, empty}, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"CV_GaN04_100kHz"}, result.Frequencies)
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "CV_GaN04_10kHz.txt") {
			found = true
		}
	}
	assert.True(t, found, "expected a skip warning naming the empty file, got %v", result.Warnings)
}

func TestBuild_NoValidData(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "CV_GaN04_100kHz.txt")
	require.NoError(t, os.WriteFile(bad, []byte("nothing useful here\n"), 0644))

	_, err := Build([]string{bad, filepath.Join(dir, "missing.txt")}, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoValidData)
}

func TestBuild_FrequencyCollisionLastWriteWins(t *testing.T) {
	dir := t.TempDir()
	first := writeSweepFile(t, dir, "CV_GaN04_100kHz.txt", 10)

	// Same frequency label from a different directory, different row
	// count so the winner is observable.
	otherDir := t.TempDir()
	second := writeSweepFile(t, otherDir, "CV_GaN04_100kHz.txt", 25)

	result, err := Build([]string{first, second}, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"CV_GaN04_100kHz"}, result.Frequencies)
	assert.Equal(t, 25, result.Profiles["CV_GaN04_100kHz"].Len())

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "measured twice") {
			found = true
		}
	}
	assert.True(t, found, "expected a collision warning, got %v", result.Warnings)
}

func TestBuild_UnknownSampleOnly(t *testing.T) {
	dir := t.TempDir()
	// No sample token in the name; the batch still succeeds with the
	// Unknown sample id.
	path := writeSweepFile(t, dir, "100kHz.txt", 10)

	result, err := Build([]string{path}, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, parser.UnknownLabel, result.SampleID)
}

func TestBuild_Deterministic(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSweepFile(t, dir, "CV_GaN04_100kHz.txt", 15),
		writeSweepFile(t, dir, "CV_GaN04_10kHz.txt", 15),
	}

	a, err := Build(paths, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.NoError(t, err)
	b, err := Build(paths, validParams(), defaultExtractor(t), profile.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Frequencies, b.Frequencies)
	assert.Equal(t, a.Profiles, b.Profiles)
}
