// Command validate checks a field catalog and, optionally, that a running
// prediction service accepts a complete form built from it.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -fields internal/domain/fields.yaml \
//	  -sample testdata/sample.json \
//	  -probe http://127.0.0.1:5000/predict
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/blood-demand-predictor/internal/adapter/predict"
	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/observability"
)

const probeTimeout = 30 * time.Second

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fieldsPath := flag.String("fields", "", "field catalog YAML (default: built-in catalog)")
	samplePath := flag.String("sample", "", "JSON object of field values used for the probe (default: \"1\" for every field)")
	probeURL := flag.String("probe", "", "prediction endpoint to probe; skipped when empty")
	flag.Parse()

	os.Exit(run(*fieldsPath, *samplePath, *probeURL))
}

func run(fieldsPath, samplePath, probeURL string) int {
	fmt.Println("=== Prediction Form Validation ===")
	fmt.Println()

	fields := domain.DefaultFields()
	if fieldsPath != "" {
		data, err := os.ReadFile(fieldsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read field catalog: %v\n", err)
			return 1
		}
		if fields, err = domain.ParseFields(data); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
	}

	sample := map[string]string{}
	if samplePath != "" {
		var err error
		if sample, err = loadSample(samplePath); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load sample: %v\n", err)
			return 1
		}
	}

	state := domain.NewState(fields)
	for _, name := range state.Names() {
		v, ok := sample[name]
		if !ok {
			v = "1"
		}
		state = state.With(name, v)
	}

	phases := []*phase{
		validateCatalog(fields),
		validateSample(state, sample),
	}
	if probeURL != "" {
		phases = append(phases, validateProbe(probeURL, state))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		allPassed = false
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println()
	fmt.Println("All checks passed.")
	return 0
}

func loadSample(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// validateCatalog reports catalog entries that would render poorly.
func validateCatalog(fields []domain.FieldDescriptor) *phase {
	p := &phase{name: fmt.Sprintf("field catalog (%d fields)", len(fields))}
	for _, f := range fields {
		if f.Label == "" {
			p.errorf("%s: empty label", f.Name)
		}
		seen := map[string]bool{}
		for _, s := range f.Suggestions {
			if s == "" {
				p.errorf("%s: empty suggestion", f.Name)
			}
			if seen[s] {
				p.errorf("%s: duplicate suggestion %q", f.Name, s)
			}
			seen[s] = true
		}
	}
	return p
}

// validateSample checks that the sample covers the catalog and nothing else.
func validateSample(state domain.State, sample map[string]string) *phase {
	p := &phase{name: "sample values"}
	names := state.Names()
	for k := range sample {
		if !slices.Contains(names, k) {
			p.errorf("unknown field %q in sample", k)
		}
	}
	for _, name := range state.Missing() {
		p.errorf("%s: blank value", name)
	}
	return p
}

// validateProbe sends one prediction request and checks the answer is usable.
func validateProbe(endpoint string, state domain.State) *phase {
	p := &phase{name: "prediction service " + endpoint}
	if !state.Complete() {
		p.errorf("skipped: sample is incomplete")
		return p
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := predict.NewClient(endpoint, observability.NewMetricsForTesting(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	demand, err := client.Predict(ctx, domain.PredictionRequest{ID: "validate", Values: state.Values()})
	if err != nil {
		p.errorf("%s: %v", domain.Classify(err), err)
		return p
	}
	if math.IsNaN(demand) || math.IsInf(demand, 0) {
		p.errorf("non-finite prediction %v", demand)
		return p
	}
	fmt.Printf("probe: predicted demand %s\n", domain.NewResult("validate", demand).Text())
	return p
}
