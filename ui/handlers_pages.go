package ui

import (
	"html/template"
	"net/http"
	"strconv"

	"glycorisk/app"
	"glycorisk/domain/patient"
	"glycorisk/domain/session"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

const introMarkdown = `Fill in the patient data below to predict the likelihood of diabetes.
Values are saved as soon as they change.

This prediction is **not a medical diagnosis**. Always consult a qualified clinician.`

var introHTML = template.HTML(markdown.ToHTML([]byte(introMarkdown), nil, nil))

type navItem struct {
	Page   session.Page
	Title  string
	Active bool
}

type fieldView struct {
	patient.Field
	Value string
	Step  string
}

type pageData struct {
	Title   string
	Nav     []navItem
	HasData bool

	// input page
	Intro  template.HTML
	Gender patient.Gender
	Fields []fieldView

	// result pages
	View *app.ResultView
}

func navFor(current session.Page) []navItem {
	items := make([]navItem, len(session.Pages))
	for i, p := range session.Pages {
		items[i] = navItem{Page: p, Title: p.Title(), Active: p == current}
	}
	return items
}

// handleIndex renders whichever page the session is on
func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, currentSession(c))
}

// handleNavigate switches page from the sidebar form
func (s *Server) handleNavigate(c *gin.Context) {
	page, ok := session.ParsePage(c.PostForm("page"))
	if !ok {
		c.String(http.StatusBadRequest, "unknown page %q", c.PostForm("page"))
		return
	}

	state := currentSession(c)
	state.Navigate(page)
	if !s.saveSession(c, state) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// handlePage navigates by URL and renders in one step
func (s *Server) handlePage(c *gin.Context) {
	page, ok := session.ParsePage(c.Param("page"))
	if !ok {
		c.String(http.StatusNotFound, "page not found")
		return
	}

	state := currentSession(c)
	state.Navigate(page)
	if !s.saveSession(c, state) {
		return
	}
	s.renderPage(c, state)
}

// handleInput stores the submitted patient data and stays on the input page
func (s *Server) handleInput(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form: %v", err)
		return
	}

	state := currentSession(c)
	state.SetFeatures(patient.ParseForm(c.Request.PostForm))
	state.Navigate(session.PageInput)
	if !s.saveSession(c, state) {
		return
	}
	s.logger.Debug("[Input] session %s stored patient data", state.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) renderPage(c *gin.Context, state *session.State) {
	data := pageData{
		Title:   state.Page.Title(),
		Nav:     navFor(state.Page),
		HasData: state.HasData(),
	}

	if !state.Page.IsResult() {
		fv := patient.DefaultVector()
		if state.Features != nil {
			fv = *state.Features
		}
		data.Intro = introHTML
		data.Gender = fv.Gender
		data.Fields = inputFields(fv)
		s.renderTemplate(c, http.StatusOK, "input.html", data)
		return
	}

	view, err := s.presenter.Present(c.Request.Context(), state.Page, state.Features)
	if err != nil {
		s.logger.Error("[Results] %s for session %s: %v", state.Page, state.ID, err)
		c.String(http.StatusInternalServerError, "prediction failed")
		return
	}
	data.View = view
	s.renderTemplate(c, http.StatusOK, string(state.Page)+".html", data)
}

func inputFields(fv patient.FeatureVector) []fieldView {
	fields := make([]fieldView, 0, len(patient.Schema)-1)
	for _, f := range patient.Schema {
		if f.Categorical() {
			continue
		}
		step := "any"
		if f.Integer {
			step = strconv.FormatFloat(f.Step, 'f', -1, 64)
		}
		fields = append(fields, fieldView{
			Field: f,
			Value: strconv.FormatFloat(fv.Value(f.Key), 'f', -1, 64),
			Step:  step,
		})
	}
	return fields
}
