// Package export renders championship and club data as files for download.
package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/natacion/clubmanager/internal/services"
)

const classificationSheet = "Classification"

var classificationHeader = []string{"Category", "Style", "#", "Swimmer", "Time", "Position"}

// ClassificationXLSX writes one row per classification entry. Categories and
// styles are sorted by name; entries keep their traversal order.
func ClassificationXLSX(title string, minutes int, c services.Classification) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", classificationSheet); err != nil {
		return nil, err
	}
	sh := classificationSheet

	if err := f.SetCellValue(sh, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sh, "A2", fmt.Sprintf("Estimated duration: %d min", minutes)); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	const headerRow = 4
	for i, h := range classificationHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sh, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sh, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sh, "A4", "F4", bold); err != nil {
		return nil, err
	}

	row := headerRow + 1
	for _, cat := range sortedKeys(c) {
		styles := c[cat]
		for _, style := range sortedKeys(styles) {
			for i, e := range styles[style] {
				values := []any{cat, style, i + 1, e.Swimmer, e.Time, e.Position}
				for col, v := range values {
					cell, err := excelize.CoordinatesToCellName(col+1, row)
					if err != nil {
						return nil, err
					}
					if err := f.SetCellValue(sh, cell, v); err != nil {
						return nil, err
					}
				}
				row++
			}
		}
	}

	if err := f.SetColWidth(sh, "A", "B", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sh, "D", "D", 32); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
