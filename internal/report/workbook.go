package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/user/cv_profiler_go/internal/session"
)

// Column headers of the per-frequency sheets, matching the field's
// conventional table layout.
var sheetHeaders = []interface{}{
	"Voltage(V)",
	"Zcv_Forward (nm)",
	"Zcv_Backward (nm)",
	"Ncv_Forward (cm^-3)",
	"Ncv_Backward (cm^-3)",
}

// WriteWorkbook serializes a SampleResult to an xlsx workbook: one sheet
// per frequency in result order, plus a Summary sheet carrying the run
// parameters and the sheet carrier densities. Cell content is fully
// determined by the inputs, so reruns produce identical tables.
func WriteWorkbook(path string, result *session.SampleResult, params session.Params) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, result, params); err != nil {
		return err
	}

	for _, freq := range result.Frequencies {
		prof := result.Profiles[freq]
		sheet := sheetName(freq)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, "A1", &sheetHeaders); err != nil {
			return fmt.Errorf("failed to write headers for %q: %w", sheet, err)
		}
		for i := 0; i < prof.Len(); i++ {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address row %d: %w", i+2, err)
			}
			row := []interface{}{
				prof.Voltages[i],
				prof.DepthForward[i],
				prof.DepthBackward[i],
				prof.DensityForward[i],
				prof.DensityBackward[i],
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", i+2, sheet, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result *session.SampleResult, params session.Params) error {
	// Reuse the default sheet rather than leaving an empty "Sheet1"
	// behind.
	const summary = "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), summary); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Sample", result.SampleID},
		{"Diameter (um)", params.DiameterUm},
		{"Relative permittivity", params.EpsilonR},
		{"Interface depth (nm)", params.InterfaceDepthNm},
		{},
		{"Frequency", "Sheet density forward (cm^-2)", "Sheet density backward (cm^-2)"},
	}
	for _, freq := range result.Frequencies {
		prof := result.Profiles[freq]
		rows = append(rows, []interface{}{freq, prof.SheetDensityForward, prof.SheetDensityBackward})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address summary row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

// sheetName makes a frequency label safe as an xlsx sheet name: the
// characters excel rejects are replaced and the 31-character limit is
// enforced.
func sheetName(label string) string {
	replacer := strings.NewReplacer(
		":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
	)
	name := replacer.Replace(label)
	if name == "" {
		name = "Unknown"
	}
	if len(name) > 31 {
		name = name[len(name)-31:]
	}
	return name
}
