// Package pdfexport renders an assessment report as a downloadable PDF.
// The layout is intentionally plain: a title block, the system profile,
// the score table, the gap summary and the analysis text.
package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

const (
	fontFamily = "Helvetica"
	marginMM   = 15.0
)

// Render produces the PDF document for a report
func Render(report *model.Report) ([]byte, error) {
	if report == nil {
		return nil, goerr.New("report is required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.AddPage()

	writeTitle(pdf, report)
	writeProfile(pdf, report)
	writeScores(pdf, report)

	if report.Gap != nil {
		writeGap(pdf, report.Gap)
	}
	if len(report.Recommendations) > 0 {
		writeRecommendations(pdf, report.Recommendations)
	}
	if report.Analysis != nil {
		writeAnalysis(pdf, report.Analysis)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to render PDF", goerr.V("report_id", report.ID))
	}

	return buf.Bytes(), nil
}

func writeTitle(pdf *fpdf.Fpdf, report *model.Report) {
	pdf.SetFont(fontFamily, "B", 18)
	pdf.Cell(0, 10, "AI System Risk Assessment")
	pdf.Ln(10)

	pdf.SetFont(fontFamily, "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Report %s - generated %s - mode: %s - catalog %s",
		report.ID,
		report.GeneratedAt.Format("2006-01-02 15:04 MST"),
		report.Mode,
		report.CatalogVersion,
	))
	pdf.Ln(10)
}

func writeProfile(pdf *fpdf.Fpdf, report *model.Report) {
	writeHeading(pdf, "System Profile")

	pdf.SetFont(fontFamily, "", 10)
	rows := [][2]string{
		{"Model hosting", report.Profile.AIModel.String()},
		{"Use case", report.Profile.UseCase.String()},
		{"Data sensitivity", report.Profile.DataSensitivity.String()},
		{"Industry", report.Profile.Industry.String()},
		{"Accuracy requirement", report.Profile.AccuracyReq.String()},
	}
	for _, row := range rows {
		pdf.CellFormat(50, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeScores(pdf *fpdf.Fpdf, report *model.Report) {
	writeHeading(pdf, "Risk Scores")

	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(50, 7, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Framework", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Base", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "Adjusted", "1", 1, "C", false, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	for _, score := range report.Scores {
		framework := score.Framework.RefID
		if framework != "" {
			framework += " " + score.Framework.Name
		}
		pdf.CellFormat(50, 7, score.Category.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, framework, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", score.BaseScore), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", score.AdjustedScore), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont(fontFamily, "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Overall compliance score: %d/100", report.ComplianceScore))
	pdf.Ln(10)
}

func writeGap(pdf *fpdf.Fpdf, gap *model.GapAnalysis) {
	writeHeading(pdf, "Gap Analysis")

	pdf.SetFont(fontFamily, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Implemented controls: %d of %d (gap %.1f%%)",
		gap.ImplementedControls, gap.TotalControls, gap.GapPercentage))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total risk reduction achieved: %d points", gap.RiskReduction))
	pdf.Ln(10)
}

func writeRecommendations(pdf *fpdf.Fpdf, recs []model.Recommendation) {
	writeHeading(pdf, "Recommendations")

	pdf.SetFont(fontFamily, "", 10)
	for _, rec := range recs {
		pdf.MultiCell(0, 6, fmt.Sprintf("[%s / weight %d] %s", rec.Category, rec.Weight, rec.Purpose), "", "L", false)
	}
	pdf.Ln(4)
}

func writeAnalysis(pdf *fpdf.Fpdf, analysis *model.Analysis) {
	writeHeading(pdf, "Analysis")

	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(0, 6, analysis.Summary, "", "L", false)
	pdf.Ln(4)

	for _, risk := range analysis.Risks {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.Cell(0, 6, risk.Category.String())
		pdf.Ln(6)

		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, 6, risk.Analysis, "", "L", false)
		for _, mitigation := range risk.Mitigations {
			pdf.MultiCell(0, 6, "- "+mitigation, "", "L", false)
		}
		pdf.Ln(3)
	}
}

func writeHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(fontFamily, "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}
