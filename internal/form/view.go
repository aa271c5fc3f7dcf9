package form

import "github.com/couchcryptid/blood-demand-predictor/internal/domain"

// Control is one labelled text input.
type Control struct {
	Name        string
	Label       string
	Help        string
	Value       string
	Suggestions []string
	Required    bool
}

// View is everything a front end needs to draw the form.
type View struct {
	Title       string
	SubmitLabel string
	Controls    []Control
	ResultText  string // empty when there is no result
	Alert       string
	Missing     []string
}

// HasResult reports whether a prediction should be displayed.
func (v View) HasResult() bool {
	return v.ResultText != ""
}

// BuildView derives the view from the field catalog and the current state.
// It has no side effects.
func BuildView(fields []domain.FieldDescriptor, s domain.State) View {
	v := View{
		Title:       "Blood Demand Predictor",
		SubmitLabel: "Predict",
		Controls:    make([]Control, 0, len(fields)),
	}
	for _, f := range fields {
		v.Controls = append(v.Controls, Control{
			Name:        f.Name,
			Label:       f.DisplayLabel(),
			Help:        f.Help,
			Value:       s.Value(f.Name),
			Suggestions: f.Suggestions,
			Required:    true,
		})
	}
	if r, ok := s.Result(); ok {
		v.ResultText = r.Text()
	}
	return v
}

// ViewFor builds the view for a submission outcome, carrying its alert and
// missing fields.
func ViewFor(fields []domain.FieldDescriptor, o Outcome) View {
	v := BuildView(fields, o.State)
	v.Alert = o.Alert
	v.Missing = o.Missing
	return v
}
