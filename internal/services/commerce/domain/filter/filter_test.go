package filter

import (
	"testing"
)

func TestParseProductFilterEmpty(t *testing.T) {
	t.Parallel()

	cond, err := ParseProductFilter("   ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "" || len(cond.Params) != 0 {
		t.Fatalf("expected empty condition, got %+v", cond)
	}
}

func TestParseProductFilterEquality(t *testing.T) {
	t.Parallel()

	cond, err := ParseProductFilter(`category = "snacks"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "category = ?" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	if len(cond.Params) != 1 || cond.Params[0] != "snacks" {
		t.Fatalf("params = %v", cond.Params)
	}
}

func TestParseProductFilterPriceRange(t *testing.T) {
	t.Parallel()

	cond, err := ParseProductFilter(`price >= 500 AND price < 2000`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "(price >= ? AND price < ?)" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	if len(cond.Params) != 2 {
		t.Fatalf("params = %v", cond.Params)
	}
	if cond.Params[0] != int64(500) || cond.Params[1] != int64(2000) {
		t.Fatalf("params = %v", cond.Params)
	}
}

func TestParseProductFilterOr(t *testing.T) {
	t.Parallel()

	cond, err := ParseProductFilter(`brand = "Northpeak" OR category = "snacks"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "(brand = ? OR category = ?)" {
		t.Fatalf("clause = %q", cond.Clause)
	}
}

func TestParseProductFilterUnknownField(t *testing.T) {
	t.Parallel()

	if _, err := ParseProductFilter(`sku = "abc"`); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseProductFilterMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseProductFilter(`price >=`); err == nil {
		t.Fatal("expected error for malformed filter")
	}
}
