package api

import (
	"fmt"
	"math"

	"glycorisk/domain/patient"
	"glycorisk/internal/errors"

	"github.com/tidwall/gjson"
)

// decodePredictRequest accepts either {"features":[...13 numbers]} in schema
// order or {"patient":{key: value}}. Patient objects follow the form rules:
// missing keys take the field default and values are clamped to range.
func decodePredictRequest(body []byte) (patient.FeatureVector, error) {
	if !gjson.ValidBytes(body) {
		return patient.FeatureVector{}, errors.InvalidInput("request body is not valid JSON")
	}

	if features := gjson.GetBytes(body, "features"); features.Exists() {
		return decodeFeatures(features)
	}
	if obj := gjson.GetBytes(body, "patient"); obj.Exists() {
		return decodePatient(obj)
	}
	return patient.FeatureVector{}, errors.InvalidInput(`request needs "features" or "patient"`)
}

func decodeFeatures(features gjson.Result) (patient.FeatureVector, error) {
	if !features.IsArray() {
		return patient.FeatureVector{}, errors.InvalidInput("features must be an array")
	}
	items := features.Array()
	values := make([]float64, len(items))
	for i, item := range items {
		if item.Type != gjson.Number {
			return patient.FeatureVector{}, errors.InvalidInput(fmt.Sprintf("feature %d is not a number", i))
		}
		values[i] = item.Float()
	}
	return patient.FromValues(values)
}

func decodePatient(obj gjson.Result) (patient.FeatureVector, error) {
	if !obj.IsObject() {
		return patient.FeatureVector{}, errors.InvalidInput("patient must be an object")
	}

	values := patient.DefaultVector().Values()
	for i, field := range patient.Schema {
		v := obj.Get(string(field.Key))
		if !v.Exists() {
			continue
		}

		if field.Categorical() {
			if v.Type != gjson.String {
				return patient.FeatureVector{}, errors.InvalidInput("gender must be \"male\" or \"female\"")
			}
			values[i] = float64(patient.EncodeGender(patient.ParseGender(v.String())))
			continue
		}

		if v.Type != gjson.Number {
			return patient.FeatureVector{}, errors.InvalidInput(fmt.Sprintf("%s must be a number", field.Key))
		}
		n := v.Float()
		if field.Integer {
			n = math.Round(n)
		}
		values[i] = field.Clamp(n)
	}
	return patient.FromValues(values)
}
