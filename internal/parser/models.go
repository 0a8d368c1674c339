package parser

import "errors"

// Sentinel errors for the per-file failure modes. Callers are expected to
// treat all of these as skip-this-file conditions and keep processing the
// rest of the batch.
var (
	// ErrEncoding means the file could not be decoded as UTF-8 nor as
	// ISO-8859-1.
	ErrEncoding = errors.New("file is not valid UTF-8 or ISO-8859-1 text")

	// ErrEmptyAfterFilter means no line in the file had at least three
	// whitespace-delimited tokens.
	ErrEmptyAfterFilter = errors.New("file is empty after line filtering")

	// ErrInsufficientColumns means lines survived filtering but none of
	// them yielded three parseable numeric columns.
	ErrInsufficientColumns = errors.New("file does not have enough valid numeric columns")
)

// UnknownLabel is used when the filename carries no recognizable frequency
// or sample token.
const UnknownLabel = "Unknown"

// SweepRow is one measured point: the applied voltage and the capacitance
// read in each scan direction. Row order is the sweep order and is
// significant downstream (the derivative is taken along it).
type SweepRow struct {
	Voltage     float64
	CapForward  float64
	CapBackward float64
}

// SweepTable is the ordered, validated numeric content of one measurement
// file. It always holds at least one row once returned by Parse.
type SweepTable struct {
	Rows []SweepRow
}

// Len returns the number of rows in the table.
func (t *SweepTable) Len() int { return len(t.Rows) }

// Voltages returns the voltage column in sweep order.
func (t *SweepTable) Voltages() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Voltage
	}
	return out
}

// ForwardCapacitances returns the forward-sweep capacitance column.
func (t *SweepTable) ForwardCapacitances() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.CapForward
	}
	return out
}

// BackwardCapacitances returns the backward-sweep capacitance column.
func (t *SweepTable) BackwardCapacitances() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.CapBackward
	}
	return out
}

// FileMetadata is what the filename tells us about a measurement: which
// frequency the sweep was taken at and which physical sample it belongs to.
// Either field may be UnknownLabel when the filename does not follow the
// expected convention.
type FileMetadata struct {
	FrequencyLabel string
	SampleID       string
}

// ParsedSweep is the result of parsing one measurement file.
type ParsedSweep struct {
	Table    SweepTable
	Metadata FileMetadata
	Filename string
	// Warnings collects non-fatal issues (dropped rows, fallback
	// decoding) so the caller can surface them without aborting.
	Warnings []string
}
