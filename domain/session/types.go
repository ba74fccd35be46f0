package session

import (
	"time"

	"glycorisk/domain/core"
	"glycorisk/domain/patient"
)

// Page selects which view renders
type Page string

const (
	PageInput     Page = "input"
	PageTable     Page = "table"
	PageLineChart Page = "line_chart"
	PagePieChart  Page = "pie_chart"
	PageBarChart  Page = "bar_chart"
)

// Pages lists every page in navigation order
var Pages = []Page{PageInput, PageTable, PageLineChart, PagePieChart, PageBarChart}

// ParsePage validates a page name
func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// IsResult reports whether the page shows a prediction
func (p Page) IsResult() bool {
	return p != PageInput
}

// Title returns the navigation label
func (p Page) Title() string {
	switch p {
	case PageInput:
		return "Patient data"
	case PageTable:
		return "Result by table"
	case PageLineChart:
		return "Result by line chart"
	case PagePieChart:
		return "Result by pie chart"
	case PageBarChart:
		return "Result by bar chart"
	}
	return string(p)
}

// State is everything kept for one browser session
type State struct {
	ID        core.ID                `json:"id"`
	Page      Page                   `json:"page"`
	Features  *patient.FeatureVector `json:"features,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// New starts a session on the input page with no patient data
func New(id core.ID) *State {
	return &State{ID: id, Page: PageInput, UpdatedAt: time.Now()}
}

// Navigate switches the current page
func (s *State) Navigate(p Page) {
	s.Page = p
	s.UpdatedAt = time.Now()
}

// SetFeatures replaces the current patient data
func (s *State) SetFeatures(fv patient.FeatureVector) {
	s.Features = &fv
	s.UpdatedAt = time.Now()
}

// HasData reports whether patient data has been entered
func (s *State) HasData() bool {
	return s.Features != nil
}
