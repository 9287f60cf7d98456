package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"mediapulse/internal/campaign"
)

// ErrUnsupportedFormat indicates the file extension is not a supported
// tabular format.
var ErrUnsupportedFormat = fmt.Errorf("datasets: unsupported format")

// ErrFileTooLarge indicates the file exceeds the configured byte limit.
var ErrFileTooLarge = fmt.Errorf("datasets: file too large")

// LoadFile reads a CSV or XLSX file from disk and normalizes it into a
// campaign Dataset. The first non-blank row is the header.
func LoadFile(path string, maxBytes int64) (*campaign.Dataset, error) {
	if maxBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > maxBytes {
			return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, info.Size(), maxBytes)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func loadCSV(path string) (*campaign.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are tolerated; missing cells coerce downstream
	r.TrimLeadingSpace = true

	var header []string
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("datasets: read csv: %w", err)
		}
		if header == nil {
			header = rec
			continue
		}
		rows = append(rows, rec)
	}
	if header == nil {
		return nil, fmt.Errorf("datasets: empty file: %s", path)
	}
	return campaign.Normalize(header, rows)
}

func loadXLSX(path string) (*campaign.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("datasets: workbook has no sheets: %s", path)
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("datasets: empty sheet %q in %s", sheet, path)
	}
	return campaign.Normalize(all[0], all[1:])
}
