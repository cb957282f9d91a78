package report

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/heater_analyzer_go/internal/analysis"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manual Y tracking for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
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
	s.styles["small"] = func() {
		s.pdf.SetFont("Arial", "", 8)
		s.pdf.SetTextColor(90, 90, 90)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 8)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 8)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() { // non-finite or missing values
		s.pdf.SetFont("Arial", "B", 8)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(imageBytes))

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

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.ImageOptions(imageName, x, s.currentY, width, height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "small", "C")
	}
	s.addSpacer(2)
}

// writeTable draws a bordered table; widths are fractions of the content width.
// redCell marks cells drawn in the red style.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string, redCell func(row, col int) bool) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	header := func() {
		sX := pdfMargin
		s.applyStyle("tableHeader")
		for i, h := range headers {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			sX += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * 2)
	header()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			header()
		}
		sX := pdfMargin
		for c, cell := range row {
			if redCell != nil && redCell(r, c) {
				s.applyStyle("tableCellRed")
			} else {
				s.applyStyle("tableCell")
			}
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(widths[c], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += widths[c]
		}
		s.currentY += s.lineHeight
	}
}

func pdfNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

// TracePlotKey is the plot image key of a source file's trace plot.
func TracePlotKey(sourceFile string) string {
	return "trace_" + filepath.Base(sourceFile)
}

// BuildPDFReport writes the batch report: parameters, the results table,
// batch warnings and every plot found in plotImages.
func BuildPDFReport(path string, table *analysis.ResultsTable, cfg analysis.Config, plotImages map[string][]byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle("Heater Test Results", false)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	numRuns := 0
	if table != nil {
		numRuns = len(table.Rows)
	}
	styler.writeParagraph(fmt.Sprintf("Heater Test Thermal Cycling Report (%d Runs)", numRuns), "h1", "C")
	if table != nil && table.BatchID != "" {
		styler.writeParagraph(fmt.Sprintf("Batch %s, generated %s", table.BatchID, time.Now().Format("2006-01-02 15:04:05")), "small", "C")
	}
	styler.addSpacer(4)

	styler.writeParagraph("Analysis Parameters", "h2", "L")
	params := [][]string{
		{"Channel", cfg.Channel},
		{"Sync window (degC)", fmt.Sprintf("%g - %g, target %g", cfg.SyncLower, cfg.SyncUpper, cfg.SyncTarget)},
		{"Plateau window (samples)", fmt.Sprintf("%d", cfg.PlateauWindow)},
		{"Plateau threshold (degC)", fmt.Sprintf("%g", cfg.PlateauThreshold)},
		{"Plateau minimum temperature (degC)", fmt.Sprintf("%g", cfg.PlateauMinTemp)},
		{"Minimum plateau duration (s)", fmt.Sprintf("%g", cfg.MinPlateauDuration)},
		{"Heating ramp (degC)", fmt.Sprintf("start %g, %g to %g", cfg.HeatingStartTemp, cfg.HeatingTargetTemp, cfg.ReferenceTemp)},
		{"Cooling ramp (degC)", fmt.Sprintf("%g to %g, end %g", cfg.ReferenceTemp, cfg.CoolingTargetTemp, cfg.CoolingEndTemp)},
	}
	styler.writeTable([]string{"Parameter", "Value"}, []float64{0.4, 0.6}, params, nil)
	styler.addSpacer(5)

	styler.writeParagraph("Results", "h2", "L")
	if table == nil || len(table.Rows) == 0 {
		styler.writeParagraph("No runs were recorded.", "normal", "L")
	} else {
		headers := []string{"#", "Instrument ID", "Condition", "Min degC", "Max degC", "Mean degC",
			"Heat rate (degC/s)", "Heat time (s)", "Cool rate (degC/s)", "Cool time (s)"}
		rows := make([][]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			rec := row.Record
			cells := []string{fmt.Sprintf("%d", row.Index), rec.InstrumentID, rec.TempCondition}
			for _, v := range recordFields(rec) {
				cells = append(cells, pdfNumber(v))
			}
			rows = append(rows, cells)
		}
		styler.writeTable(headers, []float64{0.05, 0.13, 0.08, 0.09, 0.09, 0.09, 0.12, 0.11, 0.13, 0.11}, rows,
			func(r, c int) bool {
				return rows[r][c] == "n/a" || (c <= 2 && rows[r][c] == "")
			})
	}
	styler.addSpacer(5)

	if table != nil && len(table.AnalysisErrors) > 0 {
		styler.writeParagraph("Warnings", "h2", "L")
		for _, msg := range table.AnalysisErrors {
			styler.writeParagraph("- "+msg, "normal", "L")
		}
	}

	imgWidth := pdfContentWidth * 0.8
	imgHeight := imgWidth * (2.0 / 3.0)
	if img, ok := plotImages[RatesPlotKey]; ok && len(img) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addImage(img, RatesPlotKey, imgWidth, imgWidth*0.5, "Heating and cooling rate per run")
	}

	if table != nil {
		for _, row := range table.Rows {
			key := TracePlotKey(row.SourceFile)
			img, ok := plotImages[key]
			if !ok || len(img) == 0 {
				continue
			}
			styler.newPage()
			styler.writeParagraph(filepath.Base(row.SourceFile), "h2", "L")
			styler.addImage(img, key, imgWidth, imgHeight, "Synchronized trace, plateau samples in red")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}
