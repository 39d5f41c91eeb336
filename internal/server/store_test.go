package server

import (
	"context"
	"path/filepath"
	"testing"

	"geoflow-cli/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return s
}

func firstL2L3(t *testing.T, data *model.ScopeData) (string, string, model.WorkItem) {
	t.Helper()
	if len(data.L1List) == 0 {
		t.Fatalf("seeded catalog has no L1s")
	}
	l2s := data.L2ByL1[data.L1List[0].ID]
	if len(l2s) == 0 {
		t.Fatalf("first L1 has no L2s")
	}
	l3s := data.L3ByL2[l2s[0].ID]
	if len(l3s) == 0 {
		t.Fatalf("first L2 has no L3s")
	}
	return data.L1List[0].ID, l2s[0].ID, l3s[0]
}

func TestScopeDataShape(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	data, err := s.ScopeData(context.Background(), DemoProjectID)
	if err != nil {
		t.Fatalf("ScopeData: %v", err)
	}
	if data.Version != "v1" {
		t.Fatalf("version = %q", data.Version)
	}
	if len(data.L1List) != 3 {
		t.Fatalf("l1 count = %d, want 3", len(data.L1List))
	}
	_, l2, l3 := firstL2L3(t, data)
	if l3.UnitDef == "" {
		t.Fatalf("l3 %s has no unit_def", l3.ID)
	}
	if len(data.ProjectItems) != 0 {
		t.Fatalf("fresh project should have no baseline, got %d", len(data.ProjectItems))
	}
	_ = l2
}

func TestScopeDataUnknownProject(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.ScopeData(context.Background(), "nope"); err != ErrProjectNotFound {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestSaveScopeUpsertAndDefaults(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	data, err := s.ScopeData(ctx, DemoProjectID)
	if err != nil {
		t.Fatalf("ScopeData: %v", err)
	}
	_, l2, l3 := firstL2L3(t, data)

	err = s.SaveScope(ctx, DemoProjectID, []model.SaveItem{
		// Blank unit defaults to EA; unparseable qty stored as NULL.
		{Lv2ID: l2, Lv3ID: l3.ID, Active: true, Unit: "  ", DesignQty: "12.5", CompletedQty: "zelda"},
		// Inactive rows never materialize.
		{Lv2ID: l2, Lv3ID: "ghost", Active: false},
		// Rows with missing ids are skipped.
		{Lv2ID: "", Lv3ID: "x", Active: true},
	})
	if err != nil {
		t.Fatalf("SaveScope: %v", err)
	}

	data, err = s.ScopeData(ctx, DemoProjectID)
	if err != nil {
		t.Fatalf("ScopeData: %v", err)
	}
	if len(data.ProjectItems) != 1 {
		t.Fatalf("stored rows = %d, want 1 (%+v)", len(data.ProjectItems), data.ProjectItems)
	}
	v := data.ProjectItems[l2+"|"+l3.ID]
	if !v.Active || v.Unit != "EA" || v.DesignQty != "12.5" || v.CompletedQty != "" {
		t.Fatalf("stored values = %+v", v)
	}
}

func TestSaveScopeDeactivateDeletes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	data, _ := s.ScopeData(ctx, DemoProjectID)
	_, l2, l3 := firstL2L3(t, data)

	on := []model.SaveItem{{Lv2ID: l2, Lv3ID: l3.ID, Active: true, Unit: "km"}}
	if err := s.SaveScope(ctx, DemoProjectID, on); err != nil {
		t.Fatalf("activate: %v", err)
	}
	off := []model.SaveItem{{Lv2ID: l2, Lv3ID: l3.ID, Active: false, Unit: "km"}}
	if err := s.SaveScope(ctx, DemoProjectID, off); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	data, _ = s.ScopeData(ctx, DemoProjectID)
	if len(data.ProjectItems) != 0 {
		t.Fatalf("deactivated row still stored: %+v", data.ProjectItems)
	}
}
