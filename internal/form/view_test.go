package form

import (
	"testing"

	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildView_OneControlPerField(t *testing.T) {
	fields := domain.DefaultFields()
	s := domain.NewState(fields).With("total_donations", "120")

	v := BuildView(fields, s)

	require.Len(t, v.Controls, len(fields))
	for i, c := range v.Controls {
		assert.Equal(t, fields[i].Name, c.Name)
		assert.True(t, c.Required, c.Name)
	}
	assert.Equal(t, "total donations", v.Controls[2].Label)
	assert.Equal(t, "120", v.Controls[2].Value)
	assert.Equal(t, "Predict", v.SubmitLabel)
	assert.False(t, v.HasResult())
	assert.Empty(t, v.ResultText)
}

func TestBuildView_DerivesMissingLabel(t *testing.T) {
	fields := []domain.FieldDescriptor{{Name: "is_monsoon"}}

	v := BuildView(fields, domain.NewState(fields))

	assert.Equal(t, "is monsoon", v.Controls[0].Label)
}

func TestBuildView_Result(t *testing.T) {
	fields := domain.DefaultFields()
	s := domain.NewState(fields).WithResult(domain.Result{PredictedDemand: 42.5})

	v := BuildView(fields, s)

	assert.True(t, v.HasResult())
	assert.Equal(t, "42.50 units", v.ResultText)
}

func TestBuildView_ZeroResultIsShown(t *testing.T) {
	fields := domain.DefaultFields()
	s := domain.NewState(fields).WithResult(domain.Result{PredictedDemand: 0})

	assert.Equal(t, "0.00 units", BuildView(fields, s).ResultText)
}

func TestViewFor_CarriesAlert(t *testing.T) {
	fields := domain.DefaultFields()
	o := Outcome{
		State:   domain.NewState(fields),
		Alert:   AlertPredictionFailed,
		Missing: []string{"district"},
	}

	v := ViewFor(fields, o)

	assert.Equal(t, AlertPredictionFailed, v.Alert)
	assert.Equal(t, []string{"district"}, v.Missing)
}
