package app

import (
	"fmt"
	"strconv"

	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"

	"github.com/montanaflynn/stats"
)

// PieThreshold is the probability a class must exceed to get a pie slice
const PieThreshold = 0.01

// Metric is a labelled headline value
type Metric struct {
	Label string
	Value string
}

// TableRow is one line of the patient data table
type TableRow struct {
	Field string
	Value string
}

// Series is a categorical series for line and bar charts
type Series struct {
	Title  string
	Labels []string
	Values []float64
}

// PieSlice is one retained class of the probability pie
type PieSlice struct {
	Class       prediction.RiskClass
	Label       string
	Probability float64
	Percent     string
	Color       string
}

// round2 rounds for display the way the patient table shows values
func round2(v float64) float64 {
	rounded, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return rounded
}

func displayValue(fv patient.FeatureVector, key patient.FieldKey) float64 {
	return round2(fv.Value(key))
}

// TableRows echoes all thirteen fields, gender as its label and numbers rounded to 2 decimals
func TableRows(fv patient.FeatureVector) []TableRow {
	rows := make([]TableRow, 0, len(patient.Schema))
	for _, f := range patient.Schema {
		value := fv.Gender.Label()
		if !f.Categorical() {
			value = strconv.FormatFloat(displayValue(fv, f.Key), 'f', -1, 64)
		}
		rows = append(rows, TableRow{Field: f.Short, Value: value})
	}
	return rows
}

// HeadlineMetrics returns gender, age and BMI
func HeadlineMetrics(fv patient.FeatureVector) []Metric {
	return []Metric{
		{Label: "Gender", Value: fv.Gender.Label()},
		{Label: "Age", Value: fmt.Sprintf("%d years", int(displayValue(fv, patient.FieldAge)))},
		{Label: "BMI", Value: fmt.Sprintf("%.1f kg/m²", displayValue(fv, patient.FieldBMI))},
	}
}

// DerivedMetrics returns the three features computed from clinical values
func DerivedMetrics(fv patient.FeatureVector) []Metric {
	return []Metric{
		{Label: "Urea/Cr", Value: fmt.Sprintf("%.4f", fv.UreaCrRatio)},
		{Label: "BMI x HbA1c", Value: fmt.Sprintf("%.1f", displayValue(fv, patient.FieldBMIxHbA1c))},
		{Label: "AGE x BMI", Value: fmt.Sprintf("%.1f", displayValue(fv, patient.FieldAgexBMI))},
	}
}

func seriesOf(title string, fv patient.FeatureVector, keys []patient.FieldKey) Series {
	s := Series{Title: title, Labels: make([]string, len(keys)), Values: make([]float64, len(keys))}
	for i, key := range keys {
		f, _ := patient.FieldByKey(key)
		s.Labels[i] = f.Short
		s.Values[i] = displayValue(fv, key)
	}
	return s
}

// LabSeries is the line chart of the seven raw lab values
func LabSeries(fv patient.FeatureVector) Series {
	return seriesOf("Patient lab values", fv, patient.LabFields)
}

// KidneySeries is the kidney-function bar group
func KidneySeries(fv patient.FeatureVector) Series {
	return seriesOf("Kidney function & diabetes risk profile", fv, patient.KidneyFields)
}

// LipidSeries is the lipid-profile bar group
func LipidSeries(fv patient.FeatureVector) Series {
	return seriesOf("Lipid profile", fv, patient.LipidFields)
}

// PieSlices keeps classes with probability above PieThreshold. Percentages
// are relative to the retained total; a zero percentage has no label.
func PieSlices(result prediction.Result) []PieSlice {
	var kept []PieSlice
	total := 0.0
	for _, class := range prediction.Classes {
		p := result.Probability(class)
		if p <= PieThreshold {
			continue
		}
		total += p
		kept = append(kept, PieSlice{
			Class:       class,
			Label:       class.Label(),
			Probability: p,
			Color:       class.Color(),
		})
	}
	for i := range kept {
		kept[i].Percent = formatPercent(kept[i].Probability / total * 100)
	}
	return kept
}

func formatPercent(pct float64) string {
	if pct <= 0 {
		return ""
	}
	return fmt.Sprintf("%1.1f%%", pct)
}
