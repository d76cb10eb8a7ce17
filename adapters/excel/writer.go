// Package excel exports generated datasets as spreadsheets so learners can
// take a lesson's data into their own tools.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"statbook/internal/errors"
)

// LabeledGroups is a group set with display labels, one column per group.
type LabeledGroups struct {
	Labels []string    `json:"labels"`
	Groups [][]float64 `json:"groups"`
}

// Validate checks that labels align one-to-one with groups.
func (lg LabeledGroups) Validate() error {
	if len(lg.Groups) == 0 {
		return errors.InvalidInput("export requires at least one group")
	}
	if len(lg.Labels) != len(lg.Groups) {
		return errors.InvalidInput("labels must align one-to-one with groups")
	}
	return nil
}

// Writer renders labeled group sets to xlsx workbooks.
type Writer struct {
	sheet string
}

// NewWriter creates a writer targeting the given sheet name; empty means
// "Data".
func NewWriter(sheet string) *Writer {
	if sheet == "" {
		sheet = "Data"
	}
	return &Writer{sheet: sheet}
}

// Write renders the group set as one column per group, label in row 1, and
// returns the workbook bytes. Groups may have unequal sizes; short columns
// simply end early.
func (w *Writer) Write(lg LabeledGroups) ([]byte, error) {
	if err := lg.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(w.sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheet")
	}
	f.SetActiveSheet(index)
	// Drop the default sheet when it is not the target.
	if w.sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for col, label := range lg.Labels {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "failed to address header cell")
		}
		if err := f.SetCellValue(w.sheet, cell, label); err != nil {
			return nil, errors.Wrap(err, "failed to write header")
		}
		for row, v := range lg.Groups[col] {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, errors.Wrap(err, "failed to address data cell")
			}
			if err := f.SetCellValue(w.sheet, cell, v); err != nil {
				return nil, errors.Wrapf(err, "failed to write %s row %d", lg.Labels[col], row+2)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render workbook")
	}
	return buf.Bytes(), nil
}

// Filename suggests a download name for an exported dataset.
func Filename(name string) string {
	if name == "" {
		name = "dataset"
	}
	return fmt.Sprintf("%s.xlsx", name)
}
