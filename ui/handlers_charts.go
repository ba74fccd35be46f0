package ui

import (
	"bytes"
	"io"
	"net/http"

	"glycorisk/app"
	"glycorisk/domain/patient"
	"glycorisk/internal/charts"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleLabChart(c *gin.Context) {
	s.serveSeriesChart(c, app.LabSeries, charts.Line)
}

func (s *Server) handleKidneyChart(c *gin.Context) {
	s.serveSeriesChart(c, app.KidneySeries, charts.Bar)
}

func (s *Server) handleLipidChart(c *gin.Context) {
	s.serveSeriesChart(c, app.LipidSeries, charts.Bar)
}

type seriesFunc func(patient.FeatureVector) app.Series

type renderFunc func(w io.Writer, title string, labels []string, values []float64) error

func (s *Server) serveSeriesChart(c *gin.Context, series seriesFunc, render renderFunc) {
	state := currentSession(c)
	if !state.HasData() {
		c.String(http.StatusNotFound, app.NoDataWarning)
		return
	}

	sr := series(*state.Features)
	var buf bytes.Buffer
	if err := render(&buf, sr.Title, sr.Labels, sr.Values); err != nil {
		s.logger.Error("[Charts] %s: %v", c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, "chart rendering failed")
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}

// handlePieChart plots the class probabilities above the pie threshold
func (s *Server) handlePieChart(c *gin.Context) {
	state := currentSession(c)
	if !state.HasData() {
		c.String(http.StatusNotFound, app.NoDataWarning)
		return
	}

	result, err := s.predictor.Predict(c.Request.Context(), *state.Features)
	if err != nil {
		s.logger.Error("[Charts] pie prediction for session %s: %v", state.ID, err)
		c.String(http.StatusInternalServerError, "prediction failed")
		return
	}

	pie := app.PieSlices(result)
	slices := make([]charts.Slice, len(pie))
	for i, p := range pie {
		slices[i] = charts.Slice{Label: p.Label + " " + p.Percent, Value: p.Probability, Color: p.Color}
	}

	var buf bytes.Buffer
	if err := charts.Pie(&buf, slices); err != nil {
		s.logger.Error("[Charts] pie: %v", err)
		c.String(http.StatusInternalServerError, "chart rendering failed")
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}
