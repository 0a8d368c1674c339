package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/user/cv_profiler_go/internal/config"
	"github.com/user/cv_profiler_go/internal/parser"
	"github.com/user/cv_profiler_go/internal/profile"
	"github.com/user/cv_profiler_go/internal/report"
	"github.com/user/cv_profiler_go/internal/session"
)

func main() {
	diameter := flag.Float64("diameter", 0, "capacitor diameter in micrometers (required, > 0)")
	permittivity := flag.Float64("permittivity", 0, "relative permittivity of the material (required, > 0)")
	interfaceDepth := flag.Float64("interface", 0, "expected interface depth in nm (required, > 0)")
	outDir := flag.String("out", "", "output directory (defaults to CVPROFILER_OUTPUT_DIR or the working directory)")
	samplePattern := flag.String("sample-pattern", "", "regexp extracting the sample id from filenames (first capture group)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s -diameter D -permittivity E -interface Z [-out DIR] file.txt [file.txt ...]\n\n",
			filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	files := flag.Args()
	if len(files) == 0 {
		logger.Error("No input files given")
		flag.Usage()
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = cfg.OutputDir
	}

	params := session.Params{
		DiameterUm:       *diameter,
		EpsilonR:         *permittivity,
		InterfaceDepthNm: *interfaceDepth,
	}
	if err := params.Validate(); err != nil {
		logger.Error("Parameter validation failed", "error", err)
		os.Exit(1)
	}

	extractor, err := parser.NewPatternExtractor(*samplePattern)
	if err != nil {
		logger.Error("Invalid sample-id pattern", "pattern", *samplePattern, "error", err)
		os.Exit(1)
	}

	opts := profile.DefaultOptions()
	opts.InfSentinel = cfg.Sentinel

	logger.Info("Processing C-V sweep files",
		slog.Int("file_count", len(files)),
		slog.Float64("diameter_um", params.DiameterUm),
		slog.Float64("epsilon_r", params.EpsilonR),
		slog.Float64("interface_nm", params.InterfaceDepthNm))

	result, err := session.Build(files, params, extractor, opts)
	if err != nil {
		// Per-file diagnostics still matter when the batch fails.
		if result != nil {
			logWarnings(logger, result.Warnings)
		}
		logger.Error("Batch failed", "error", err)
		os.Exit(1)
	}
	logWarnings(logger, result.Warnings)

	for _, freq := range result.Frequencies {
		prof := result.Profiles[freq]
		logger.Info("Computed profile",
			slog.String("frequency", freq),
			slog.Int("rows", prof.Len()),
			slog.String("sheet_density_forward_cm2", fmt.Sprintf("%.3e", prof.SheetDensityForward)),
			slog.String("sheet_density_backward_cm2", fmt.Sprintf("%.3e", prof.SheetDensityBackward)))
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("Cannot create output directory", "path", *outDir, "error", err)
		os.Exit(1)
	}

	// Timestamps appear only in artifact names, never inside the tables.
	base := fmt.Sprintf("%s_cv_profiles_%s", result.SampleID, time.Now().Format("20060102_150405"))

	workbookPath := filepath.Join(*outDir, base+".xlsx")
	if err := report.WriteWorkbook(workbookPath, result, params); err != nil {
		logger.Error("Failed to write workbook", "path", workbookPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Wrote workbook", slog.String("path", workbookPath))

	gridPNG, err := report.RenderProfileGrid(result, params.InterfaceDepthNm)
	if err != nil {
		logger.Error("Failed to render plot grid", "error", err)
		os.Exit(1)
	}
	plotPath := filepath.Join(*outDir, base+".png")
	if err := os.WriteFile(plotPath, gridPNG, 0644); err != nil {
		logger.Error("Failed to write plot grid", "path", plotPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Wrote plot grid", slog.String("path", plotPath))

	plotImages := make(map[string][]byte, len(result.Frequencies))
	for _, freq := range result.Frequencies {
		img, err := report.RenderFrequencyRow(freq, result.Profiles[freq], params.InterfaceDepthNm)
		if err != nil {
			logger.Warn("Failed to render report plot", "frequency", freq, "error", err)
			continue
		}
		plotImages[freq] = img
	}
	pdfPath := filepath.Join(*outDir, base+"_report.pdf")
	if err := report.BuildPDFReport(pdfPath, result, params, plotImages); err != nil {
		logger.Error("Failed to write PDF report", "path", pdfPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Wrote PDF report", slog.String("path", pdfPath))

	logger.Info("Done",
		slog.String("sample", result.SampleID),
		slog.Int("frequencies", len(result.Frequencies)))
}

func logWarnings(logger *slog.Logger, warnings []string) {
	for _, w := range warnings {
		logger.Warn(w)
	}
}
