package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/cv_profiler_go/internal/session"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and flowing-content state for PDF
// generation.
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - (2 * pdfMargin),
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = s.contentTopY
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// writeTable renders a simple bordered table with the styler's current flow
// position.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string) {
	widthsAbs := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widthsAbs[i] = rel * pdfContentWidth
	}

	s.checkAddPage(s.lineHeight * float64(len(rows)+1))

	sY := s.currentY
	sX := pdfMargin
	s.applyStyle("tableHeader")
	for i, header := range headers {
		s.pdf.SetXY(sX, sY)
		s.pdf.CellFormat(widthsAbs[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
		sX += widthsAbs[i]
	}
	sY += s.lineHeight
	s.currentY = sY

	s.applyStyle("tableCell")
	for _, row := range rows {
		s.checkAddPage(s.lineHeight)
		sY = s.currentY
		sX = pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(sX, sY)
			s.pdf.CellFormat(widthsAbs[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += widthsAbs[i]
		}
		sY += s.lineHeight
		s.currentY = sY
	}
}

// BuildPDFReport writes the bundled report: run parameters, the sheet
// carrier densities per frequency, and one plot page per frequency.
// plotImages is keyed by frequency label.
func BuildPDFReport(path string, result *session.SampleResult, params session.Params, plotImages map[string][]byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph(fmt.Sprintf("C-V Carrier Density Profile Report - Sample %s", result.SampleID), "h1", "C")
	styler.addSpacer(5)
	styler.writeParagraph(fmt.Sprintf(
		"Capacitor diameter: %.3g um    Relative permittivity: %.4g    Expected interface depth: %.4g nm",
		params.DiameterUm, params.EpsilonR, params.InterfaceDepthNm), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Sheet Carrier Densities", "h2", "L")
	rows := make([][]string, 0, len(result.Frequencies))
	for _, freq := range result.Frequencies {
		prof := result.Profiles[freq]
		rows = append(rows, []string{
			freq,
			fmt.Sprintf("%.3e", prof.SheetDensityForward),
			fmt.Sprintf("%.3e", prof.SheetDensityBackward),
		})
	}
	styler.writeTable(
		[]string{"Frequency", "Sheet Density Forward (cm^-2)", "Sheet Density Backward (cm^-2)"},
		[]float64{0.4, 0.3, 0.3},
		rows,
	)
	styler.addSpacer(5)

	imgWidth := pdfContentWidth * 0.95
	imgHeight := imgWidth * (4.0 / 14.0) // panel pair aspect ratio

	for _, freq := range result.Frequencies {
		styler.pdf.AddPage()
		styler.currentY = styler.contentTopY
		styler.writeParagraph(fmt.Sprintf("Carrier Density Profile: %s", freq), "h2", "L")

		if imgBytes, ok := plotImages[freq]; ok && len(imgBytes) > 0 {
			caption := fmt.Sprintf("%s: Ncv vs Zcv, forward and backward sweeps (log density axis)", freq)
			styler.addImage(imgBytes, "plot_"+freq, imgWidth, imgHeight, caption)
		} else {
			styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", freq), "normal", "L")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}
