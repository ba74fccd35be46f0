package session

import (
	"testing"

	"glycorisk/domain/core"
	"glycorisk/domain/patient"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	for _, p := range Pages {
		got, ok := ParsePage(string(p))
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}

	_, ok := ParsePage("scatter_chart")
	assert.False(t, ok)
	_, ok = ParsePage("")
	assert.False(t, ok)
}

func TestNewSessionStartsOnInputWithoutData(t *testing.T) {
	s := New(core.ID("abc"))

	assert.Equal(t, PageInput, s.Page)
	assert.False(t, s.HasData())
	assert.False(t, s.Page.IsResult())
}

func TestNavigateKeepsFeatures(t *testing.T) {
	s := New(core.NewID())
	s.SetFeatures(patient.DefaultVector())
	s.Navigate(PagePieChart)

	assert.Equal(t, PagePieChart, s.Page)
	assert.True(t, s.Page.IsResult())
	assert.True(t, s.HasData())
	assert.Equal(t, 23.0, s.Features.BMI)
}
