package parser

import (
	"regexp"
	"strings"
)

// MetadataExtractor derives measurement metadata from a filename. Naming
// conventions differ between labs, so the pipeline only depends on this
// interface; swap in another implementation to support a different scheme.
type MetadataExtractor interface {
	Extract(filename string) FileMetadata
}

// frequencyMarker is the literal token that terminates the frequency label
// in a filename like "CV_GaN04_100kHz.txt".
const frequencyMarker = "kHz"

// DefaultSampleIDPattern matches an alphanumeric sample token sitting
// between the sweep-type prefix and the frequency token, e.g. the "GaN04"
// in "CV_GaN04_100kHz.txt".
const DefaultSampleIDPattern = `_([A-Za-z0-9]+)_[0-9][0-9.]*kHz`

// PatternExtractor is the default MetadataExtractor. The frequency label is
// the filename prefix up to and including the "kHz" marker; the sample id
// comes from a configurable regular expression whose first capture group is
// the id.
type PatternExtractor struct {
	sampleRe *regexp.Regexp
}

// NewPatternExtractor builds a PatternExtractor from a sample-id pattern.
// An empty pattern selects DefaultSampleIDPattern.
func NewPatternExtractor(sampleIDPattern string) (*PatternExtractor, error) {
	if sampleIDPattern == "" {
		sampleIDPattern = DefaultSampleIDPattern
	}
	re, err := regexp.Compile(sampleIDPattern)
	if err != nil {
		return nil, err
	}
	return &PatternExtractor{sampleRe: re}, nil
}

// Extract implements MetadataExtractor.
func (e *PatternExtractor) Extract(filename string) FileMetadata {
	meta := FileMetadata{
		FrequencyLabel: UnknownLabel,
		SampleID:       UnknownLabel,
	}

	if idx := strings.Index(filename, frequencyMarker); idx >= 0 {
		meta.FrequencyLabel = filename[:idx] + frequencyMarker
	}
	if m := e.sampleRe.FindStringSubmatch(filename); len(m) > 1 {
		meta.SampleID = m[1]
	}
	return meta
}
