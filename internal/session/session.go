// Package session aggregates the per-file parse and compute stages into a
// single-sample result set. It is a pure fold over the input files: the
// only shared state is the result being built, so callers are free to treat
// it as a synchronous batch step.
package session

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/cv_profiler_go/internal/parser"
	"github.com/user/cv_profiler_go/internal/profile"
)

// Batch-level failure modes. Any of these aborts the run before output
// artifacts are written.
var (
	// ErrInvalidParameter means the physical parameters failed
	// validation before any file was touched.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrMixedSample means the input files name more than one physical
	// sample; aggregating them would produce a meaningless report.
	ErrMixedSample = errors.New("input files belong to different samples")

	// ErrNoValidData means no input file produced a usable profile.
	ErrNoValidData = errors.New("no file produced usable sweep data")
)

// Params are the physical parameters supplied by the caller (CLI or any
// other front end).
type Params struct {
	// DiameterUm is the circular capacitor diameter in micrometers.
	DiameterUm float64 `validate:"required,gt=0"`
	// EpsilonR is the relative permittivity of the material.
	EpsilonR float64 `validate:"required,gt=0"`
	// InterfaceDepthNm marks the expected interface depth in nm. It is
	// annotation only and never enters the integral.
	InterfaceDepthNm float64 `validate:"required,gt=0"`
}

// AreaM2 returns the device area in m² under the circular capacitor
// geometry.
func (p Params) AreaM2() float64 {
	radiusM := p.DiameterUm * 1e-6 / 2
	return math.Pi * radiusM * radiusM
}

var validate = validator.New()

// Validate checks the parameters and wraps any violation in
// ErrInvalidParameter with a message naming the offending field.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s must be a positive number", ErrInvalidParameter, verrs[0].Field())
		}
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	for name, v := range map[string]float64{
		"DiameterUm":       p.DiameterUm,
		"EpsilonR":         p.EpsilonR,
		"InterfaceDepthNm": p.InterfaceDepthNm,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParameter, name)
		}
	}
	return nil
}

// SampleResult maps frequency labels to computed profiles, all belonging to
// one physical sample. Frequencies preserves first-seen input order.
type SampleResult struct {
	SampleID    string
	Frequencies []string
	Profiles    map[string]*profile.Profile

	// Warnings collects per-file skip notices and other non-fatal
	// conditions encountered while building the result.
	Warnings []string
}

// Build parses every input file, computes its profile and folds the results
// into one SampleResult.
//
// Per-file failures (bad encoding, nothing left after filtering, no numeric
// columns) are recorded as warnings and the batch continues. Mixing files
// from more than one sample fails the whole batch with ErrMixedSample; a
// batch where nothing parsed fails with ErrNoValidData. Two files sharing a
// frequency label resolve last-write-wins, with a warning naming both.
func Build(paths []string, params Params, extractor parser.MetadataExtractor, opts profile.Options) (*SampleResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	area := params.AreaM2()
	result := &SampleResult{Profiles: make(map[string]*profile.Profile)}
	sources := make(map[string]string) // frequency label -> filename
	sampleFiles := make(map[string][]string)

	for _, path := range paths {
		parsed, err := parser.Parse(path, extractor)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping file: %v", err))
			continue
		}
		result.Warnings = append(result.Warnings, parsed.Warnings...)

		meta := parsed.Metadata
		if meta.SampleID != parser.UnknownLabel {
			sampleFiles[meta.SampleID] = append(sampleFiles[meta.SampleID], parsed.Filename)
		}

		if prev, ok := sources[meta.FrequencyLabel]; ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"frequency %q measured twice: %s overwrites %s", meta.FrequencyLabel, parsed.Filename, prev))
		} else {
			result.Frequencies = append(result.Frequencies, meta.FrequencyLabel)
		}
		sources[meta.FrequencyLabel] = parsed.Filename
		result.Profiles[meta.FrequencyLabel] = profile.Compute(&parsed.Table, area, params.EpsilonR, opts)
	}

	// The partial result is returned alongside batch errors so callers
	// can still surface the per-file warnings; no artifact is ever
	// produced from it.
	if len(sampleFiles) > 1 {
		return result, fmt.Errorf("%w: %s", ErrMixedSample, describeSamples(sampleFiles))
	}
	if len(result.Profiles) == 0 {
		return result, ErrNoValidData
	}

	result.SampleID = parser.UnknownLabel
	for id := range sampleFiles {
		result.SampleID = id
	}
	return result, nil
}

func describeSamples(sampleFiles map[string][]string) string {
	ids := make([]string, 0, len(sampleFiles))
	for id := range sampleFiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s (%s)", id, strings.Join(sampleFiles[id], ", "))
	}
	return strings.Join(parts, "; ")
}
