package patient

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"glycorisk/internal/errors"
)

// Gender is the binary categorical input
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ParseGender maps form input to a Gender; anything other than "male" is female
func ParseGender(s string) Gender {
	if strings.EqualFold(strings.TrimSpace(s), string(GenderMale)) {
		return GenderMale
	}
	return GenderFemale
}

// EncodeGender returns the model encoding: female 0, male 1
func EncodeGender(g Gender) int {
	if g == GenderMale {
		return 1
	}
	return 0
}

// Label returns the display name
func (g Gender) Label() string {
	if g == GenderMale {
		return "Male"
	}
	return "Female"
}

// FeatureVector is one patient's lab values in schema order
type FeatureVector struct {
	Gender      Gender  `json:"gender"`
	Age         float64 `json:"age"`
	Urea        float64 `json:"urea"`
	Creatinine  float64 `json:"cr"`
	HbA1c       float64 `json:"hba1c"`
	Cholesterol float64 `json:"chol"`
	HDL         float64 `json:"hdl"`
	LDL         float64 `json:"ldl"`
	VLDL        float64 `json:"vldl"`
	BMI         float64 `json:"bmi"`
	UreaCrRatio float64 `json:"urea_cr"`
	BMIxHbA1c   float64 `json:"bmi_hba1c"`
	AgexBMI     float64 `json:"age_bmi"`
}

// DefaultVector returns the form defaults
func DefaultVector() FeatureVector {
	values := make([]float64, FeatureCount)
	for i, f := range Schema {
		values[i] = f.Default
	}
	fv, _ := FromValues(values)
	return fv
}

// Values returns the encoded vector in schema order
func (fv FeatureVector) Values() []float64 {
	return []float64{
		float64(EncodeGender(fv.Gender)),
		fv.Age,
		fv.Urea,
		fv.Creatinine,
		fv.HbA1c,
		fv.Cholesterol,
		fv.HDL,
		fv.LDL,
		fv.VLDL,
		fv.BMI,
		fv.UreaCrRatio,
		fv.BMIxHbA1c,
		fv.AgexBMI,
	}
}

// Value returns a single encoded field
func (fv FeatureVector) Value(key FieldKey) float64 {
	switch key {
	case FieldGender:
		return float64(EncodeGender(fv.Gender))
	case FieldAge:
		return fv.Age
	case FieldUrea:
		return fv.Urea
	case FieldCreatinine:
		return fv.Creatinine
	case FieldHbA1c:
		return fv.HbA1c
	case FieldCholesterol:
		return fv.Cholesterol
	case FieldHDL:
		return fv.HDL
	case FieldLDL:
		return fv.LDL
	case FieldVLDL:
		return fv.VLDL
	case FieldBMI:
		return fv.BMI
	case FieldUreaCrRatio:
		return fv.UreaCrRatio
	case FieldBMIxHbA1c:
		return fv.BMIxHbA1c
	case FieldAgexBMI:
		return fv.AgexBMI
	}
	return math.NaN()
}

// FromValues builds a vector from an encoded slice in schema order
func FromValues(values []float64) (FeatureVector, error) {
	if len(values) != FeatureCount {
		return FeatureVector{}, errors.InvalidInput(fmt.Sprintf("expected %d features, got %d", FeatureCount, len(values)))
	}
	var gender Gender
	switch values[0] {
	case 0:
		gender = GenderFemale
	case 1:
		gender = GenderMale
	default:
		return FeatureVector{}, errors.InvalidInput(fmt.Sprintf("gender must be encoded as 0 or 1, got %v", values[0]))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureVector{}, errors.InvalidInput(fmt.Sprintf("feature %s is not a finite number", Schema[i].Key))
		}
	}
	return FeatureVector{
		Gender:      gender,
		Age:         values[1],
		Urea:        values[2],
		Creatinine:  values[3],
		HbA1c:       values[4],
		Cholesterol: values[5],
		HDL:         values[6],
		LDL:         values[7],
		VLDL:        values[8],
		BMI:         values[9],
		UreaCrRatio: values[10],
		BMIxHbA1c:   values[11],
		AgexBMI:     values[12],
	}, nil
}

// ParseForm assembles a vector from submitted form values. Missing or
// unparsable numbers fall back to the field default; out-of-range numbers
// are clamped.
func ParseForm(form url.Values) FeatureVector {
	values := make([]float64, FeatureCount)
	values[0] = float64(EncodeGender(ParseGender(form.Get(string(FieldGender)))))
	for i, f := range Schema[1:] {
		values[i+1] = parseBounded(f, form.Get(string(f.Key)))
	}
	fv, _ := FromValues(values)
	return fv
}

func parseBounded(f Field, raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return f.Default
	}
	if f.Integer {
		v = math.Round(v)
	}
	return f.Clamp(v)
}
