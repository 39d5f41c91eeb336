package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geoflow-cli/internal/catalog"
	"geoflow-cli/internal/model"
	"geoflow-cli/internal/server"

	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := server.OpenStore(filepath.Join(t.TempDir(), "geoflow.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	ts := httptest.NewServer(server.New(store, log).Router())
	t.Cleanup(ts.Close)
	return ts
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScopeShowPrintsMergedRows(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	out, err := runCmd(t, "scope", "show", server.DemoProjectID, "--server", ts.URL)
	if err != nil {
		t.Fatalf("scope show: %v", err)
	}

	var rows []scopeRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(rows) == 0 {
		t.Fatal("expected seeded rows, got none")
	}
	for _, r := range rows {
		if r.Active {
			t.Fatalf("fresh project should have no active rows: %+v", r)
		}
		if r.Unit == "" {
			t.Fatalf("row %q should carry its catalog default unit", r.Code)
		}
	}
}

func TestScopeSaveFromFile(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	// Grab real catalog ids to build a valid payload.
	out, err := runCmd(t, "scope", "show", server.DemoProjectID, "--server", ts.URL)
	if err != nil {
		t.Fatalf("scope show: %v", err)
	}
	var rows []scopeRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode output: %v", err)
	}

	data, err := catalog.New(ts.URL, "", "dev").FetchScopeData(context.Background(), server.DemoProjectID)
	if err != nil {
		t.Fatalf("fetch scope data: %v", err)
	}
	var item model.SaveItem
	for _, l2s := range data.L2ByL1 {
		for _, l2 := range l2s {
			for _, it := range data.L3ByL2[l2.ID] {
				item = model.SaveItem{Lv2ID: l2.ID, Lv3ID: it.ID, Active: true, Unit: "km", DesignQty: "12.5"}
			}
		}
	}
	if item.Lv3ID == "" {
		t.Fatal("no catalog items in seeded data")
	}

	payload, err := json.Marshal(model.SaveRequest{Items: []model.SaveItem{item}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	file := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(file, payload, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, err = runCmd(t, "scope", "save", server.DemoProjectID, "--server", ts.URL, "--file", file)
	if err != nil {
		t.Fatalf("scope save: %v", err)
	}
	if !strings.Contains(out, `"ok":true`) {
		t.Fatalf("expected ok result, got %s", out)
	}

	// The saved row must round-trip through show.
	out, err = runCmd(t, "scope", "show", server.DemoProjectID, "--server", ts.URL)
	if err != nil {
		t.Fatalf("scope show after save: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	var active int
	for _, r := range rows {
		if r.Active {
			active++
			if r.Unit != "km" || r.DesignQty != "12.5" {
				t.Fatalf("saved row came back wrong: %+v", r)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected 1 active row after save, got %d", active)
	}
}

func TestReadSaveRequestRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := readSaveRequest(strings.NewReader(`{"items":[]}`)); err == nil {
		t.Fatal("expected error for empty items")
	}
	if _, err := readSaveRequest(strings.NewReader(`{"nope":1}`)); err == nil {
		t.Fatal("expected error for unknown fields")
	}
	req, err := readSaveRequest(strings.NewReader(`{"items":[{"lv2_id":"a","lv3_id":"b","active":true}]}`))
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if len(req.Items) != 1 || !req.Items[0].Active {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestProjectIDResolution(t *testing.T) {
	t.Parallel()

	app := &App{ProjectID: "from-flag"}
	if got, _ := app.projectID([]string{"from-arg"}); got != "from-arg" {
		t.Fatalf("argument should win, got %q", got)
	}
	if got, _ := app.projectID(nil); got != "from-flag" {
		t.Fatalf("flag should be the fallback, got %q", got)
	}
	if _, err := (&App{}).projectID(nil); err == nil {
		t.Fatal("expected error with no project anywhere")
	}
}
