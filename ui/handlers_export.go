package ui

import (
	"bytes"
	"net/http"

	"glycorisk/adapters/excel"
	"glycorisk/app"

	"github.com/gin-gonic/gin"
)

// handleExport downloads the patient data and prediction as xlsx
func (s *Server) handleExport(c *gin.Context) {
	state := currentSession(c)
	if !state.HasData() {
		c.String(http.StatusNotFound, app.NoDataWarning)
		return
	}

	result, err := s.predictor.Predict(c.Request.Context(), *state.Features)
	if err != nil {
		s.logger.Error("[Export] prediction for session %s: %v", state.ID, err)
		c.String(http.StatusInternalServerError, "prediction failed")
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, excel.Report{Patient: *state.Features, Result: result}); err != nil {
		s.logger.Error("[Export] workbook for session %s: %v", state.ID, err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="patient.xlsx"`)
	c.Data(http.StatusOK, excel.ContentType, buf.Bytes())
}
