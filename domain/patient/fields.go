package patient

import "math"

// FieldKey identifies one input of the patient form
type FieldKey string

const (
	FieldGender      FieldKey = "gender"
	FieldAge         FieldKey = "age"
	FieldUrea        FieldKey = "urea"
	FieldCreatinine  FieldKey = "cr"
	FieldHbA1c       FieldKey = "hba1c"
	FieldCholesterol FieldKey = "chol"
	FieldHDL         FieldKey = "hdl"
	FieldLDL         FieldKey = "ldl"
	FieldVLDL        FieldKey = "vldl"
	FieldBMI         FieldKey = "bmi"
	FieldUreaCrRatio FieldKey = "urea_cr"
	FieldBMIxHbA1c   FieldKey = "bmi_hba1c"
	FieldAgexBMI     FieldKey = "age_bmi"
)

// FeatureCount is the length of every feature vector
const FeatureCount = 13

// Field describes a bounded form input. Bounds come from the range observed
// in the training data.
type Field struct {
	Key     FieldKey `json:"key"`
	Label   string   `json:"label"`
	Short   string   `json:"short"`
	Unit    string   `json:"unit,omitempty"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Default float64  `json:"default"`
	Step    float64  `json:"step,omitempty"`
	Integer bool     `json:"integer,omitempty"`
}

// Clamp limits v to the field's [Min, Max] range
func (f Field) Clamp(v float64) float64 {
	return math.Max(f.Min, math.Min(f.Max, v))
}

// Categorical reports whether the field is the gender selector
func (f Field) Categorical() bool {
	return f.Key == FieldGender
}

// Schema lists the fields in the order the scaler and model were trained on
var Schema = []Field{
	{Key: FieldGender, Label: "Gender", Short: "Gender", Min: 0, Max: 1, Default: 0, Integer: true},
	{Key: FieldAge, Label: "Age (years)", Short: "Age", Unit: "years", Min: 25, Max: 77, Default: 30, Step: 1, Integer: true},
	{Key: FieldUrea, Label: "Blood urea", Short: "Urea", Min: 1.1, Max: 26.4, Default: 5.0, Step: 0.1},
	{Key: FieldCreatinine, Label: "Blood creatinine", Short: "Cr", Min: 6, Max: 800, Default: 7, Step: 1, Integer: true},
	{Key: FieldHbA1c, Label: "HbA1c (glycated haemoglobin)", Short: "HbA1c", Min: 0.9, Max: 14.6, Default: 5.5, Step: 0.1},
	{Key: FieldCholesterol, Label: "Total cholesterol", Short: "Chol", Min: 0.5, Max: 9.5, Default: 3.0, Step: 0.1},
	{Key: FieldHDL, Label: "High-density lipoprotein", Short: "HDL", Min: 0.4, Max: 4.0, Default: 2.0, Step: 0.1},
	{Key: FieldLDL, Label: "Low-density lipoprotein", Short: "LDL", Min: 0.3, Max: 5.6, Default: 2.0, Step: 0.1},
	{Key: FieldVLDL, Label: "Very low-density lipoprotein", Short: "VLDL", Min: 0.2, Max: 31.8, Default: 2.0, Step: 0.1},
	{Key: FieldBMI, Label: "BMI (kg/m²)", Short: "BMI", Unit: "kg/m²", Min: 19.0, Max: 43.25, Default: 23.0, Step: 0.1},
	{Key: FieldUreaCrRatio, Label: "Urea/Creatinine ratio", Short: "Urea/Cr", Min: 0.0124, Max: 0.65, Default: 0.048, Step: 0.01},
	{Key: FieldBMIxHbA1c, Label: "BMI × HbA1c", Short: "BMI x HbA1c", Min: 19.8, Max: 475.2, Default: 175.2, Step: 0.1},
	{Key: FieldAgexBMI, Label: "Age × BMI", Short: "AGE x BMI", Min: 550, Max: 2553, Default: 750, Step: 1},
}

// FieldByKey looks up a schema field
func FieldByKey(key FieldKey) (Field, bool) {
	for _, f := range Schema {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// SchemaKeys returns the field keys in schema order
func SchemaKeys() []string {
	keys := make([]string, len(Schema))
	for i, f := range Schema {
		keys[i] = string(f.Key)
	}
	return keys
}

// Field groupings used by the chart views
var (
	LabFields     = []FieldKey{FieldUrea, FieldCreatinine, FieldHbA1c, FieldCholesterol, FieldHDL, FieldLDL, FieldVLDL}
	KidneyFields  = []FieldKey{FieldUrea, FieldCreatinine, FieldHbA1c}
	LipidFields   = []FieldKey{FieldCholesterol, FieldHDL, FieldLDL, FieldVLDL}
	DerivedFields = []FieldKey{FieldUreaCrRatio, FieldBMIxHbA1c, FieldAgexBMI}
)
