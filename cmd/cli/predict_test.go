package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"glycorisk/adapters/api"
	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorFromFlags(t *testing.T) {
	fs := pflag.NewFlagSet("predict", pflag.ContinueOnError)
	values := make(map[patient.FieldKey]*float64)
	registerFieldFlags(fs, values)
	require.Len(t, values, patient.FeatureCount-1, "gender has its own string flag")

	require.NoError(t, fs.Parse([]string{"--age", "99", "--hba1c", "8.4", "--cr", "75.6"}))
	fv := vectorFromFlags("male", values)

	assert.Equal(t, patient.GenderMale, fv.Gender)
	assert.Equal(t, 77.0, fv.Age, "clamped to max")
	assert.Equal(t, 8.4, fv.HbA1c)
	assert.Equal(t, 76.0, fv.Creatinine, "integer field rounded")
	assert.Equal(t, 23.0, fv.BMI, "unset flag keeps default")
}

func TestPrintResult(t *testing.T) {
	result := prediction.Result{Class: prediction.ClassType2, Probabilities: []float64{0.1, 0.2, 0.7}}

	var text bytes.Buffer
	require.NoError(t, printResult(&text, outputText, result))
	assert.Contains(t, text.String(), "HIGH RISK of type 2 diabetes")
	assert.Contains(t, text.String(), "70.0%")

	var out bytes.Buffer
	require.NoError(t, printResult(&out, outputJSON, result))
	var resp api.PredictResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 2, resp.Class)
	assert.Equal(t, 0.2, resp.Probabilities["Type 1 diabetes"])

	assert.Error(t, printResult(&out, "yaml", result))
}

func TestPrintResults(t *testing.T) {
	results := []prediction.Result{
		{Class: prediction.ClassNoDiabetes, Probabilities: []float64{0.9, 0.05, 0.05}},
		{Class: prediction.ClassType1, Probabilities: []float64{0.2, 0.6, 0.2}},
	}

	var out bytes.Buffer
	require.NoError(t, printResults(&out, outputText, results))
	assert.Contains(t, out.String(), "NOT AT RISK")
	assert.Contains(t, out.String(), "60.0%")
}

func TestPrintFields(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printFields(&out))

	for _, key := range patient.SchemaKeys() {
		assert.Contains(t, out.String(), key)
	}
}
