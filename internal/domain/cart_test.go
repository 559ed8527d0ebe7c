package domain

import "testing"

func TestCartLinesAdd(t *testing.T) {
	var lines CartLines

	lines = lines.Add("prod-1", "pkg-1m")
	lines = lines.Add("prod-1", "pkg-1m")
	lines = lines.Add("prod-1", "pkg-1m")

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestCartLinesAddDistinctPackages(t *testing.T) {
	var lines CartLines

	// Same product, different package: separate lines.
	lines = lines.Add("prod-1", "pkg-1m")
	lines = lines.Add("prod-1", "pkg-6m")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines.Count() != 2 {
		t.Errorf("expected count 2, got %d", lines.Count())
	}
}

func TestCartLinesRemove(t *testing.T) {
	var lines CartLines
	lines = lines.Add("prod-1", "pkg-1m")
	lines = lines.Add("prod-2", "pkg-1m")

	lines = lines.Remove("prod-1", "pkg-1m")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line after remove, got %d", len(lines))
	}
	if lines[0].ProductID != "prod-2" {
		t.Errorf("wrong line removed, got %s", lines[0].ProductID)
	}

	// Removing an absent key is a no-op.
	lines = lines.Remove("prod-x", "pkg-x")
	if len(lines) != 1 {
		t.Errorf("remove of absent key changed line count: %d", len(lines))
	}
}

func TestCartLinesSetQuantity(t *testing.T) {
	var lines CartLines
	lines = lines.Add("prod-1", "pkg-1m")

	lines = lines.SetQuantity("prod-1", "pkg-1m", 5)
	if lines[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", lines[0].Quantity)
	}

	// Zero or negative removes the line.
	lines = lines.SetQuantity("prod-1", "pkg-1m", 0)
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after setting quantity 0, got %d lines", len(lines))
	}

	lines = lines.Add("prod-1", "pkg-1m")
	lines = lines.SetQuantity("prod-1", "pkg-1m", -2)
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after setting negative quantity, got %d lines", len(lines))
	}

	// Setting quantity on an absent key is a no-op.
	lines = lines.SetQuantity("prod-x", "pkg-x", 3)
	if len(lines) != 0 {
		t.Errorf("set quantity on absent key created a line")
	}
}

func TestCartLinesCount(t *testing.T) {
	var lines CartLines
	if lines.Count() != 0 {
		t.Errorf("empty cart count = %d, want 0", lines.Count())
	}

	lines = lines.Add("prod-1", "pkg-1m")
	lines = lines.Add("prod-1", "pkg-1m")
	lines = lines.Add("prod-2", "pkg-6m")
	if lines.Count() != 3 {
		t.Errorf("count = %d, want 3", lines.Count())
	}
}
