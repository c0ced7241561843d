// Package export renders a batch report as an Excel workbook.
package export

import (
	"fmt"
	"time"

	"github.com/fmuoria/resume-ranker/internal/models"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetName = "Resume Scores"
	// widthPadding is added to every column on top of its longest value.
	widthPadding = 2
	// maxColumnWidth is the widest column excelize accepts.
	maxColumnWidth = 255
)

// SuggestedFilename returns the download filename for a report generated at
// the given time. Second granularity keeps repeated downloads in one session
// from colliding.
func SuggestedFilename(now time.Time) string {
	return fmt.Sprintf("resume_scores_%s.xlsx", now.Format("20060102_150405"))
}

// WriteReport renders the report as a single-sheet workbook and returns the
// encoded bytes. Columns are ordered Filename, Candidate Name, one score
// column per criterion, Total Score, Average Score, then one explanation
// column per criterion; criterion columns follow the criteria list order.
func WriteReport(report models.BatchReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headers := headerRow(report.Criteria)
	grid := make([][]any, 0, len(report.Rows)+1)
	grid = append(grid, headers)
	for _, row := range report.Rows {
		grid = append(grid, dataRow(row, report.Criteria))
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for r, cells := range grid {
		for c, value := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if r == 0 {
				f.SetCellStyle(sheetName, cell, cell, headerStyle)
			}
		}
	}

	if err := setColumnWidths(f, grid); err != nil {
		return nil, err
	}

	// Keep the header visible while scrolling.
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// headerRow builds the column headers in report order.
func headerRow(criteria []string) []any {
	headers := make([]any, 0, 2*len(criteria)+4)
	headers = append(headers, "Filename", "Candidate Name")
	for _, criterion := range criteria {
		headers = append(headers, criterion+" (Score)")
	}
	headers = append(headers, "Total Score", "Average Score")
	for _, criterion := range criteria {
		headers = append(headers, criterion+" (Explanation)")
	}
	return headers
}

// dataRow projects one batch row onto the header layout.
func dataRow(row models.BatchRow, criteria []string) []any {
	cells := make([]any, 0, 2*len(criteria)+4)
	cells = append(cells, row.Filename, row.CandidateName)
	for _, criterion := range criteria {
		cells = append(cells, row.Scores[criterion])
	}
	cells = append(cells, row.TotalScore, row.AverageScore)
	for _, criterion := range criteria {
		cells = append(cells, row.Explanations[criterion])
	}
	return cells
}

// setColumnWidths sizes each column to its longest stringified value,
// header included, plus a fixed padding, capped at the widest width the
// format allows.
func setColumnWidths(f *excelize.File, grid [][]any) error {
	if len(grid) == 0 {
		return nil
	}

	for c := range grid[0] {
		longest := 0
		for _, cells := range grid {
			if length := len(fmt.Sprint(cells[c])); length > longest {
				longest = length
			}
		}
		width := longest + widthPadding
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		column, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("failed to name column: %w", err)
		}
		if err := f.SetColWidth(sheetName, column, column, float64(width)); err != nil {
			return fmt.Errorf("failed to set width for column %s: %w", column, err)
		}
	}

	return nil
}
