package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
	"github.com/CSharon27/Resume-Evalution-System/internal/filtering"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Ranked Candidates"
	detailsSheet    = "Details"
)

var verdictColors = map[evaluation.Verdict]string{
	evaluation.VerdictHigh:   "C6EFCE",
	evaluation.VerdictMedium: "FFEB9C",
	evaluation.VerdictLow:    "FFC7CE",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteExcel writes ranked results to an .xlsx workbook and returns the
// final path; the extension is appended when missing.
func WriteExcel(path, jobTitle string, ranked []filtering.RankedResult) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", err
	}
	for _, name := range []string{candidatesSheet, detailsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", err
		}
	}

	if err := writeSummary(f, jobTitle, ranked); err != nil {
		return "", fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeCandidates(f, ranked); err != nil {
		return "", fmt.Errorf("ranked candidates sheet: %w", err)
	}
	if err := writeDetails(f, ranked); err != nil {
		return "", fmt.Errorf("details sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
}

func writeSummary(f *excelize.File, jobTitle string, ranked []filtering.RankedResult) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 40); err != nil {
		return err
	}

	items := make([]*evaluation.EvaluationResult, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, r.EvaluationResult)
	}
	stats := evaluation.Summarize(items)

	rows := [][]any{
		{"Job:", jobTitle},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Candidates:", stats.Count},
		{"Average Score:", fmt.Sprintf("%.2f", stats.AverageScore)},
		{"Highest Score:", fmt.Sprintf("%.2f", stats.MaxScore)},
		{"Lowest Score:", fmt.Sprintf("%.2f", stats.MinScore)},
	}
	for _, v := range evaluation.Verdicts {
		rows = append(rows, []any{fmt.Sprintf("%s suitability:", v), stats.VerdictCounts[v]})
	}

	_ = f.SetCellValue(summarySheet, "A1", "Resume Evaluation Report")
	_ = f.MergeCell(summarySheet, "A1", "B1")
	_ = f.SetCellStyle(summarySheet, "A1", "B1", header)

	for i, row := range rows {
		n := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", n), row[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", n), row[1])
		_ = f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), label)
	}
	return nil
}

func writeCandidates(f *excelize.File, ranked []filtering.RankedResult) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	styles := make(map[evaluation.Verdict]int, len(verdictColors))
	for v, color := range verdictColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		styles[v] = style
	}

	headers := []string{"Rank", "Candidate", "Resume ID", "Relevance", "Hard Match", "Semantic Match", "Verdict", "Missing Skills"}
	widths := []float64{8, 25, 20, 12, 12, 15, 10, 50}
	for col, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		colName, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(candidatesSheet, colName, colName, widths[col])
		_ = f.SetCellValue(candidatesSheet, cell, title)
		_ = f.SetCellStyle(candidatesSheet, cell, cell, header)
	}

	for i, r := range ranked {
		row := i + 2
		values := []any{
			r.Position,
			r.Name,
			r.ResumeID,
			r.RelevanceScore,
			r.HardMatchScore,
			r.SemanticMatchScore,
			string(r.Verdict),
			strings.Join(r.MissingSkills, ", "),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(candidatesSheet, cell, value)
		}
		if style, ok := styles[r.Verdict]; ok {
			_ = f.SetCellStyle(candidatesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), style)
		}
	}

	if len(ranked) > 0 {
		if err := f.AutoFilter(candidatesSheet, fmt.Sprintf("A1:H%d", len(ranked)+1), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return freezeHeader(f, candidatesSheet)
}

func writeDetails(f *excelize.File, ranked []filtering.RankedResult) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(detailsSheet, "A", "A", 8)
	_ = f.SetColWidth(detailsSheet, "B", "B", 25)
	_ = f.SetColWidth(detailsSheet, "C", "C", 22)
	_ = f.SetColWidth(detailsSheet, "D", "D", 80)

	for col, title := range []string{"Rank", "Candidate", "Category", "Details"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(detailsSheet, cell, title)
		_ = f.SetCellStyle(detailsSheet, cell, cell, header)
	}

	row := 2
	for _, r := range ranked {
		for _, entry := range detailEntries(r.EvaluationResult) {
			_ = f.SetCellValue(detailsSheet, fmt.Sprintf("A%d", row), r.Position)
			_ = f.SetCellValue(detailsSheet, fmt.Sprintf("B%d", row), r.Name)
			_ = f.SetCellValue(detailsSheet, fmt.Sprintf("C%d", row), entry[0])
			_ = f.SetCellValue(detailsSheet, fmt.Sprintf("D%d", row), entry[1])
			_ = f.SetCellStyle(detailsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), wrap)
			row++
		}
	}
	return freezeHeader(f, detailsSheet)
}

func detailEntries(r *evaluation.EvaluationResult) [][2]string {
	entries := [][2]string{
		{"Matched Skills", strings.Join(r.MatchedSkills, ", ")},
		{"Missing Skills", strings.Join(r.MissingSkills, ", ")},
		{"Missing Qualifications", strings.Join(r.MissingQualifications, ", ")},
		{"Suggested Projects", strings.Join(r.MissingProjects, "\n")},
		{"Suggested Certifications", strings.Join(r.MissingCertifications, "\n")},
		{"Strengths", strings.Join(r.Strengths, "\n")},
		{"Weaknesses", strings.Join(r.Weaknesses, "\n")},
		{"Improvement Suggestions", r.ImprovementSuggestions},
		{"Overall Feedback", r.OverallFeedback},
	}
	if r.Error != "" {
		entries = append(entries, [2]string{"Error", r.Error})
	}
	return entries
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
