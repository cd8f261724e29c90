package paired

import (
	"fmt"
	"strings"

	"gnnreport/domain/core"
)

// Columns is the tabular access the pairing needs. adapters/tabular.Table
// satisfies it.
type Columns interface {
	Len() int
	HasColumn(name string) bool
	Strings(name string) ([]string, error)
	Floats(name string) ([]float64, error)
}

type pairCol struct {
	observed  []float64
	predicted []float64
}

// Paired holds aligned observed and predicted values per attribute field
type Paired struct {
	Keys   []string
	fields map[string]pairCol
}

// Len returns the number of paired samples
func (p *Paired) Len() int {
	return len(p.Keys)
}

// Observed returns the observed values for a field, aligned with Keys
func (p *Paired) Observed(field string) []float64 {
	return p.fields[strings.ToLower(field)].observed
}

// Predicted returns the predicted values for a field, aligned with Keys
func (p *Paired) Predicted(field string) []float64 {
	return p.fields[strings.ToLower(field)].predicted
}

// Build inner-joins observed and predicted tables on joinField and extracts
// aligned numeric columns for the requested fields. The join enforces three
// integrity checks: every field present in both tables, no null values in the
// requested columns, and a merged length equal to one of the inputs.
func Build(obs, prd Columns, joinField string, fields []string) (*Paired, error) {
	if err := checkColumns(obs, joinField, fields); err != nil {
		return nil, fmt.Errorf("observed: %w", err)
	}
	if err := checkColumns(prd, joinField, fields); err != nil {
		return nil, fmt.Errorf("predicted: %w", err)
	}

	if err := checkNulls(obs, fields); err != nil {
		return nil, fmt.Errorf("observed: %w", err)
	}
	if err := checkNulls(prd, fields); err != nil {
		return nil, fmt.Errorf("predicted: %w", err)
	}

	obsKeys, err := obs.Strings(joinField)
	if err != nil {
		return nil, err
	}
	prdKeys, err := prd.Strings(joinField)
	if err != nil {
		return nil, err
	}

	prdIndex := make(map[string]int, len(prdKeys))
	for i, k := range prdKeys {
		if _, seen := prdIndex[k]; !seen {
			prdIndex[k] = i
		}
	}

	var keys []string
	var obsRows, prdRows []int
	for i, k := range obsKeys {
		if j, ok := prdIndex[k]; ok {
			keys = append(keys, k)
			obsRows = append(obsRows, i)
			prdRows = append(prdRows, j)
		}
	}

	if len(keys) != obs.Len() && len(keys) != prd.Len() {
		return nil, fmt.Errorf("%w: merged %d, observed %d, predicted %d",
			core.ErrLengthMismatch, len(keys), obs.Len(), prd.Len())
	}

	p := &Paired{Keys: keys, fields: make(map[string]pairCol, len(fields))}
	for _, field := range fields {
		obsCol, err := obs.Floats(field)
		if err != nil {
			return nil, fmt.Errorf("observed %s: %w", field, err)
		}
		prdCol, err := prd.Floats(field)
		if err != nil {
			return nil, fmt.Errorf("predicted %s: %w", field, err)
		}
		col := pairCol{
			observed:  make([]float64, len(keys)),
			predicted: make([]float64, len(keys)),
		}
		for n := range keys {
			col.observed[n] = obsCol[obsRows[n]]
			col.predicted[n] = prdCol[prdRows[n]]
		}
		p.fields[strings.ToLower(field)] = col
	}

	return p, nil
}

func checkColumns(t Columns, joinField string, fields []string) error {
	var missing []string
	if !t.HasColumn(joinField) {
		missing = append(missing, joinField)
	}
	for _, f := range fields {
		if !t.HasColumn(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return core.NewColumnMissingError(missing)
	}
	return nil
}

func checkNulls(t Columns, fields []string) error {
	for _, f := range fields {
		values, err := t.Strings(f)
		if err != nil {
			return err
		}
		for i, v := range values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: %s row %d", core.ErrNullValues, f, i+1)
			}
		}
	}
	return nil
}
