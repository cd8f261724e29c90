package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gnnreport/domain/core"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestReadCSV tests basic CSV ingestion
func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "FCID,BAPH_GE_3,VEGCLASS\n1001, 12.5 ,4\n1002,0.0,1\n")

	table, err := NewTableReader(path).Read()
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	if table.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", table.Len())
	}
	if !reflect.DeepEqual(table.Headers, []string{"FCID", "BAPH_GE_3", "VEGCLASS"}) {
		t.Errorf("Unexpected headers: %v", table.Headers)
	}

	vals, err := table.Floats("BAPH_GE_3")
	if err != nil {
		t.Fatalf("Floats() failed: %v", err)
	}
	if !reflect.DeepEqual(vals, []float64{12.5, 0.0}) {
		t.Errorf("Floats() = %v", vals)
	}
}

// TestReadMissingFile tests the not-found error path
func TestReadMissingFile(t *testing.T) {
	_, err := NewTableReader("/nonexistent/input.csv").Read()
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

// TestFloatsRejectsNulls tests that empty cells fail float parsing
func TestFloatsRejectsNulls(t *testing.T) {
	path := writeTempCSV(t, "FCID,BAPH_GE_3\n1001,\n")

	table, err := NewTableReader(path).Read()
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	if _, err := table.Floats("BAPH_GE_3"); err == nil {
		t.Error("Expected error parsing empty cell as float")
	}
	if !table.HasNulls("BAPH_GE_3") {
		t.Error("Expected HasNulls to detect the empty cell")
	}
}

// TestFilterAndUnique tests row filtering and distinct value extraction
func TestFilterAndUnique(t *testing.T) {
	path := writeTempCSV(t,
		"VARIABLE,DATASET,AREA\nBAPH_GE_3,OBSERVED,100\nBAPH_GE_3,PREDICTED,95\nTPH_GE_3,OBSERVED,50\n")

	table, err := NewTableReader(path).Read()
	if err != nil {
		t.Fatal(err)
	}

	observed := table.Filter(func(r Row) bool {
		return r.Get("DATASET") == "OBSERVED"
	})
	if observed.Len() != 2 {
		t.Errorf("Expected 2 observed rows, got %d", observed.Len())
	}

	vars := table.Unique("VARIABLE")
	if !reflect.DeepEqual(vars, []string{"BAPH_GE_3", "TPH_GE_3"}) {
		t.Errorf("Unique() = %v", vars)
	}
}

// TestSortBy tests comparator ordering without mutating the receiver
func TestSortBy(t *testing.T) {
	table := NewTable([]string{"SPECIES", "KAPPA"}, [][]string{
		{"TSHE", "0.41"},
		{"ABAM", "0.55"},
		{"PSME", "0.62"},
	})

	sorted := table.SortBy(func(a, b Row) bool {
		return a.Get("SPECIES") < b.Get("SPECIES")
	})

	got, err := sorted.Strings("SPECIES")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"ABAM", "PSME", "TSHE"}) {
		t.Errorf("SortBy order = %v", got)
	}
	if first := table.Cell(0, "SPECIES"); first != "TSHE" {
		t.Errorf("Expected original table unchanged, first row is %s", first)
	}
}

// TestUnknownColumn tests column lookup failures
func TestUnknownColumn(t *testing.T) {
	table := NewTable([]string{"A"}, [][]string{{"1"}})

	if _, err := table.Strings("B"); !errors.Is(err, core.ErrColumnMissing) {
		t.Errorf("Expected ErrColumnMissing for unknown column, got %v", err)
	}
	if table.HasColumn("B") {
		t.Error("Expected HasColumn to be false for unknown column")
	}
	if !table.HasColumn("a") {
		t.Error("Expected case-insensitive column match")
	}
}

// TestShortRowPadding tests that ragged rows align to headers
func TestShortRowPadding(t *testing.T) {
	table := NewTable([]string{"A", "B", "C"}, [][]string{{"1", "2"}})

	if got := table.Cell(0, "C"); got != "" {
		t.Errorf("Expected padded empty cell, got %q", got)
	}
}
