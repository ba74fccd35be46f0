package excel

import (
	"encoding/csv"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"glycorisk/domain/patient"
	"glycorisk/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader reads patient rows from Excel or CSV files. The first row holds
// field keys; every following row is one patient. Missing or unparsable cells
// fall back to the field default, out-of-range values are clamped.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadPatients returns one feature vector per data row
func (r *DataReader) ReadPatients() ([]patient.FeatureVector, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	return processRows(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Excel file %s", r.filePath)
	}
	defer f.Close()

	sheet := PatientsSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CSV file %s", r.filePath)
	}
	return rows, nil
}

// processRows converts raw string rows into feature vectors
func processRows(rows [][]string) ([]patient.FeatureVector, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("file must have a header row and at least one patient row")
	}

	headers := make([]string, len(rows[0]))
	known := 0
	for i, header := range rows[0] {
		headers[i] = normalizeHeader(header)
		if _, ok := patient.FieldByKey(patient.FieldKey(headers[i])); ok {
			known++
		}
	}
	if known == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("header row has none of the fields %s", strings.Join(patient.SchemaKeys(), ", ")))
	}

	patients := make([]patient.FeatureVector, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		form := url.Values{}
		for j, cell := range row {
			if j < len(headers) {
				form.Set(headers[j], strings.TrimSpace(cell))
			}
		}
		patients = append(patients, patient.ParseForm(form))
	}
	return patients, nil
}

// normalizeHeader accepts either a field key or its short column label
func normalizeHeader(header string) string {
	h := strings.TrimSpace(header)
	for _, f := range patient.Schema {
		if strings.EqualFold(h, string(f.Key)) || strings.EqualFold(h, f.Short) {
			return string(f.Key)
		}
	}
	return strings.ToLower(h)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
