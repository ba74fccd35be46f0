package app

import (
	"context"
	"fmt"

	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"
	"glycorisk/domain/session"
	"glycorisk/internal/errors"
	"glycorisk/ports"
)

// NoDataWarning is shown on every result page until patient data exists
const NoDataWarning = "Please fill in the patient data first on the Patient data page."

// ResultView is everything a result page template needs
type ResultView struct {
	Page     session.Page
	Title    string
	NoData   bool
	Warning  string
	Headline []Metric
	Table    []TableRow
	Lab      *Series
	Kidney   *Series
	Lipid    *Series
	Pie      []PieSlice
	Derived  []Metric
	Verdict  prediction.Verdict
	Result   prediction.Result
}

// ResultPresenter builds the view for a result page
type ResultPresenter struct {
	predictor ports.Predictor
}

// NewResultPresenter creates a presenter backed by predictor
func NewResultPresenter(predictor ports.Predictor) *ResultPresenter {
	return &ResultPresenter{predictor: predictor}
}

func titleFor(page session.Page) string {
	if page == session.PageTable {
		return "Patient data table"
	}
	return "Prediction result & probabilities"
}

// Present returns the view for page. With no patient data the view only
// carries the warning; the predictor is not called.
func (p *ResultPresenter) Present(ctx context.Context, page session.Page, fv *patient.FeatureVector) (*ResultView, error) {
	if !page.IsResult() {
		return nil, errors.InvalidInput(fmt.Sprintf("%s is not a result page", page))
	}

	view := &ResultView{Page: page, Title: titleFor(page)}
	if fv == nil {
		view.NoData = true
		view.Warning = NoDataWarning
		return view, nil
	}

	result, err := p.predictor.Predict(ctx, *fv)
	if err != nil {
		return nil, err
	}
	view.Result = result
	view.Verdict = result.Verdict()

	switch page {
	case session.PageTable:
		view.Table = TableRows(*fv)
	case session.PageLineChart:
		view.Headline = HeadlineMetrics(*fv)
		lab := LabSeries(*fv)
		view.Lab = &lab
		view.Derived = DerivedMetrics(*fv)
	case session.PagePieChart:
		view.Headline = HeadlineMetrics(*fv)
		view.Pie = PieSlices(result)
	case session.PageBarChart:
		view.Headline = HeadlineMetrics(*fv)
		kidney, lipid := KidneySeries(*fv), LipidSeries(*fv)
		view.Kidney = &kidney
		view.Lipid = &lipid
		view.Derived = DerivedMetrics(*fv)
	}
	return view, nil
}
