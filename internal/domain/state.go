package domain

// State is the current form content: one string value per field, in catalog
// order, plus the last prediction result if there is one.
//
// A State is a value. Update methods return a new State and never modify the
// receiver, so a State can be shared freely between goroutines.
type State struct {
	names  []string
	values map[string]string
	result *Result
}

// NewState returns a state holding an empty string for every field.
func NewState(fields []FieldDescriptor) State {
	names := FieldNames(fields)
	values := make(map[string]string, len(names))
	for _, n := range names {
		values[n] = ""
	}
	return State{names: names, values: values}
}

// With returns a copy of s with the named field set to value. Names that are
// not part of the form are ignored and s is returned unchanged.
func (s State) With(name, value string) State {
	if _, ok := s.values[name]; !ok {
		return s
	}
	next := s
	next.values = s.Values()
	next.values[name] = value
	return next
}

// WithResult returns a copy of s carrying r.
func (s State) WithResult(r Result) State {
	next := s
	next.result = &r
	return next
}

// Value returns the current value of a field.
func (s State) Value(name string) string {
	return s.values[name]
}

// Names returns the field names in form order.
func (s State) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Values returns a copy of the field mapping.
func (s State) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Missing lists, in form order, the fields that are still empty.
func (s State) Missing() []string {
	var missing []string
	for _, n := range s.names {
		if s.values[n] == "" {
			missing = append(missing, n)
		}
	}
	return missing
}

// Complete reports whether every field has a value.
func (s State) Complete() bool {
	return len(s.Missing()) == 0
}

// Result returns the stored prediction, if any.
func (s State) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
