// Package export materializes a form's fetched responses for the analytics
// view: a spreadsheet with one row per submission and one column per
// question, and per-value tallies for the charts.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/acad-forms/acad-forms/model"
)

const sheetName = "Responses"

// Spreadsheet writes an xlsx workbook to w. Columns follow the form's
// question order, keyed by label; rows follow the fetch order of the
// responses. Multi-choice answers are flattened to a ", " separated string.
func Spreadsheet(form model.Form, responses []model.Response, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for col, q := range form.Questions {
		if err := setCell(f, col+1, 1, q.Label); err != nil {
			return err
		}
	}
	for row, r := range responses {
		for col, q := range form.Questions {
			if err := setCell(f, col+1, row+2, answerText(r.Answers[q.ID])); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, value)
}

func answerText(value any) string {
	return strings.Join(answerValues(value), ", ")
}

func answerValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			values = append(values, fmt.Sprint(item))
		}
		return values
	}
	return []string{fmt.Sprint(value)}
}

// Tally counts, for one question, how many submissions picked each value.
// Multi-choice answers contribute one count per selected value.
func Tally(questionID string, responses []model.Response) map[string]int {
	counts := map[string]int{}
	for _, r := range responses {
		for _, v := range answerValues(r.Answers[questionID]) {
			counts[v]++
		}
	}
	return counts
}
