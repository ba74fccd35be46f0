package excel

import (
	"io"

	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
	"glycorisk/internal/errors"

	"github.com/xuri/excelize/v2"
)

const (
	// PatientsSheet holds one row per patient keyed by field key, readable by DataReader
	PatientsSheet = "Patients"
	// SummarySheet is the human-readable report
	SummarySheet = "Summary"
)

// ContentType is the MIME type of written workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Report is one patient and the prediction made for them
type Report struct {
	Patient patient.FeatureVector
	Result  prediction.Result
}

// WriteReport writes the patient data and prediction as an xlsx workbook
func WriteReport(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PatientsSheet); err != nil {
		return errors.Wrap(err, "failed to name patients sheet")
	}
	if err := writePatients(f, []patient.FeatureVector{report.Patient}); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}
	if err := writeSummary(f, report); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

func writePatients(f *excelize.File, patients []patient.FeatureVector) error {
	header := make([]interface{}, len(patient.Schema))
	for i, key := range patient.SchemaKeys() {
		header[i] = key
	}
	if err := f.SetSheetRow(PatientsSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header row")
	}

	for i, fv := range patients {
		row := make([]interface{}, len(patient.Schema))
		for j, field := range patient.Schema {
			if field.Categorical() {
				row[j] = string(fv.Gender)
			} else {
				row[j] = fv.Value(field.Key)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "invalid cell")
		}
		if err := f.SetSheetRow(PatientsSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write patient row %d", i+1)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, report Report) error {
	rows := [][]interface{}{{"Field", "Patient data", "Unit"}}
	for _, field := range patient.Schema {
		var value interface{} = report.Patient.Value(field.Key)
		if field.Categorical() {
			value = report.Patient.Gender.Label()
		}
		rows = append(rows, []interface{}{field.Short, value, field.Unit})
	}

	verdict := report.Result.Verdict()
	rows = append(rows, []interface{}{}, []interface{}{"Verdict", verdict.Text}, []interface{}{"Class", "Probability"})
	for _, class := range prediction.Classes {
		rows = append(rows, []interface{}{class.Label(), report.Result.Probability(class)})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "invalid cell")
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return errors.Wrapf(err, "failed to write summary row %d", i+1)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 40)
}
