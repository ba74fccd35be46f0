package api

import (
	"encoding/json"
	"io"
	"net/http"

	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
	"glycorisk/internal"
	"glycorisk/internal/errors"
	"glycorisk/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds a predict request body
const maxBodyBytes = 64 << 10

// PredictResponse is the JSON shape of a prediction
type PredictResponse struct {
	Class         int                `json:"class"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
	Verdict       prediction.Verdict `json:"verdict"`
}

// ErrorResponse carries the error message and its application code
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handler serves the JSON prediction API
type Handler struct {
	router    *chi.Mux
	predictor ports.Predictor
	logger    *internal.Logger
}

// NewHandler builds the chi router for every /api route
func NewHandler(predictor ports.Predictor, logger *internal.Logger) *Handler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	h := &Handler{
		router:    chi.NewRouter(),
		predictor: predictor,
		logger:    logger,
	}

	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.Recoverer)
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/fields", h.handleFields)
		r.Post("/predict", h.handlePredict)
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, patient.Schema)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, errors.InvalidInput("request body too large or unreadable"))
		return
	}

	fv, err := decodePredictRequest(body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.predictor.Predict(r.Context(), fv)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewPredictResponse(result))
}

// NewPredictResponse maps a result to its JSON shape
func NewPredictResponse(result prediction.Result) PredictResponse {
	probs := make(map[string]float64, len(prediction.Classes))
	for _, class := range prediction.Classes {
		probs[class.Label()] = result.Probability(class)
	}
	return PredictResponse{
		Class:         int(result.Class),
		Label:         result.Class.Label(),
		Probabilities: probs,
		Verdict:       result.Verdict(),
	}
}

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("[API] %s %s (request %s): %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
