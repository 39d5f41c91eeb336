package scope

import "testing"

func TestBuildRowsPrecedence(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(testData())
	buf := NewBuffer()
	buf.Put(Key{L2ID: "A1", L3ID: "W2"}, Record{Active: true, Unit: "m", DesignQty: "99"})

	rows := BuildRows(snap, buf, "A1")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// W1: no baseline, no buffer -> blank with default unit, disabled.
	w1 := rows[0]
	if w1.Key.L3ID != "W1" {
		t.Fatalf("row order: got %s first, want W1", w1.Key.L3ID)
	}
	if w1.Record.Active || w1.Record.Unit != "EA" || w1.Enabled() {
		t.Fatalf("W1 = %+v, want inactive blank with unit EA", w1.Record)
	}

	// W2: buffer wins over baseline.
	w2 := rows[1]
	if w2.Record.Unit != "m" || w2.Record.DesignQty != "99" {
		t.Fatalf("W2 = %+v, want buffered values", w2.Record)
	}
}

func TestBuildRowsBaselineWhenNoBuffer(t *testing.T) {
	t.Parallel()

	rows := BuildRows(NewSnapshot(testData()), NewBuffer(), "A1")
	w2 := rows[1]
	if !w2.Record.Active || w2.Record.Unit != "km" || w2.Record.DesignQty != "12.5" || w2.Record.CompletedQty != "3" {
		t.Fatalf("W2 baseline = %+v", w2.Record)
	}
	if !w2.Enabled() {
		t.Fatalf("baseline-active row should be enabled")
	}
}

func TestBuildRowsUnknownBranch(t *testing.T) {
	t.Parallel()

	rows := BuildRows(NewSnapshot(testData()), NewBuffer(), "nope")
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestKeyRoundTrip(t *testing.T) {
	t.Parallel()

	k := Key{L2ID: "A1", L3ID: "W1"}
	parsed, ok := ParseKey(k.String())
	if !ok || parsed != k {
		t.Fatalf("ParseKey(%q) = %+v, %v", k.String(), parsed, ok)
	}
	if _, ok := ParseKey("no-separator"); ok {
		t.Fatalf("ParseKey should reject keys without a separator")
	}
	if _, ok := ParseKey("|x"); ok {
		t.Fatalf("ParseKey should reject an empty L2 id")
	}
}
