package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
	"glycorisk/internal"
	"glycorisk/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, fv patient.FeatureVector) (prediction.Result, error) {
	args := m.Called(ctx, fv)
	return args.Get(0).(prediction.Result), args.Error(1)
}

func newTestHandler(p *MockPredictor) *Handler {
	return NewHandler(p, internal.NewLoggerTo(io.Discard, internal.LogLevelError))
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPredictFromFeatures(t *testing.T) {
	p := &MockPredictor{}
	fv := patient.DefaultVector()
	p.On("Predict", mock.Anything, fv).Return(prediction.Result{
		Class:         prediction.ClassType1,
		Probabilities: []float64{0.2, 0.7, 0.1},
	}, nil)

	values, err := json.Marshal(fv.Values())
	require.NoError(t, err)
	rec := post(newTestHandler(p), fmt.Sprintf(`{"features":%s}`, values))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Class)
	assert.Equal(t, "Type 1 diabetes", resp.Label)
	assert.Equal(t, 0.7, resp.Probabilities["Type 1 diabetes"])
	assert.Len(t, resp.Probabilities, prediction.ClassCount)
	assert.Equal(t, prediction.SeverityWarning, resp.Verdict.Severity)
	p.AssertExpectations(t)
}

func TestPredictFromPatientObject(t *testing.T) {
	p := &MockPredictor{}
	p.On("Predict", mock.Anything, mock.MatchedBy(func(fv patient.FeatureVector) bool {
		return fv.Gender == patient.GenderMale && fv.Age == 77 && fv.HbA1c == 9.2 && fv.BMI == 23
	})).Return(prediction.Result{
		Class:         prediction.ClassType2,
		Probabilities: []float64{0.1, 0.1, 0.8},
	}, nil)

	rec := post(newTestHandler(p), `{"patient":{"gender":"male","age":90,"hba1c":9.2}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "HIGH RISK of type 2 diabetes")
	p.AssertExpectations(t)
}

func TestPredictRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"features":`},
		{"empty object", `{}`},
		{"wrong length", `{"features":[1,2,3]}`},
		{"not an array", `{"features":"1,2,3"}`},
		{"string feature", `{"features":[0,"30",5,7,5.5,3,2,2,2,23,0.05,175,750]}`},
		{"bad gender encoding", `{"features":[3,30,5,7,5.5,3,2,2,2,23,0.05,175,750]}`},
		{"numeric gender", `{"patient":{"gender":1}}`},
		{"string age", `{"patient":{"age":"thirty"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MockPredictor{}
			rec := post(newTestHandler(p), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, errors.CodeInvalidInput, resp.Code)
			assert.NotEmpty(t, resp.Error)
			p.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
		})
	}
}

func TestPredictFailureIsServerError(t *testing.T) {
	p := &MockPredictor{}
	p.On("Predict", mock.Anything, mock.Anything).
		Return(prediction.Result{}, errors.PredictionFailed(fmt.Errorf("bad distribution")))

	rec := post(newTestHandler(p), `{"patient":{}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), errors.CodePredictionFailed)
}

func TestFieldsAndHealth(t *testing.T) {
	h := newTestHandler(&MockPredictor{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fields", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var fields []patient.Field
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Len(t, fields, patient.FeatureCount)
	assert.Equal(t, patient.FieldGender, fields[0].Key)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
