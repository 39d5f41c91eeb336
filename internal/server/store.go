package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"geoflow-cli/internal/model"
	"geoflow-cli/internal/qty"

	_ "modernc.org/sqlite"
)

// ErrProjectNotFound is returned for scope operations on unknown projects.
var ErrProjectNotFound = errors.New("project not found")

// Store is the server's SQLite-backed catalog and scope storage.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_l1 (
			id   TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			ord  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_l2 (
			id    TEXT PRIMARY KEY,
			l1_id TEXT NOT NULL REFERENCES catalog_l1(id),
			code  TEXT NOT NULL,
			name  TEXT NOT NULL,
			ord   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_l3 (
			id       TEXT PRIMARY KEY,
			l2_id    TEXT NOT NULL REFERENCES catalog_l2(id),
			code     TEXT NOT NULL,
			name     TEXT NOT NULL,
			unit_def TEXT NOT NULL DEFAULT '',
			ord      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS scope_items (
			project_id    TEXT NOT NULL REFERENCES projects(id),
			lv2_id        TEXT NOT NULL,
			lv3_id        TEXT NOT NULL,
			unit          TEXT NOT NULL DEFAULT '',
			design_qty    TEXT,
			completed_qty TEXT,
			PRIMARY KEY (project_id, lv2_id, lv3_id)
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) CreateProject(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO projects(id, name) VALUES(?, ?)`, id, name)
	return err
}

func (s *Store) ProjectExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ScopeData assembles the full preload payload for one project: the whole
// catalog tree plus the project's stored scope rows keyed "l2|l3".
func (s *Store) ScopeData(ctx context.Context, projectID string) (*model.ScopeData, error) {
	ok, err := s.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProjectNotFound
	}

	data := &model.ScopeData{
		Version:      "v1",
		L2ByL1:       map[string][]model.CategoryNode{},
		L3ByL2:       map[string][]model.WorkItem{},
		ProjectItems: map[string]model.ScopeValues{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, ord FROM catalog_l1 ORDER BY ord, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var n model.CategoryNode
		if err := rows.Scan(&n.ID, &n.Code, &n.Name, &n.Ord); err != nil {
			return nil, err
		}
		data.L1List = append(data.L1List, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	l2rows, err := s.db.QueryContext(ctx,
		`SELECT id, l1_id, code, name, ord FROM catalog_l2 ORDER BY ord, name`)
	if err != nil {
		return nil, err
	}
	defer l2rows.Close()
	for l2rows.Next() {
		var n model.CategoryNode
		var l1ID string
		if err := l2rows.Scan(&n.ID, &l1ID, &n.Code, &n.Name, &n.Ord); err != nil {
			return nil, err
		}
		data.L2ByL1[l1ID] = append(data.L2ByL1[l1ID], n)
	}
	if err := l2rows.Err(); err != nil {
		return nil, err
	}

	l3rows, err := s.db.QueryContext(ctx,
		`SELECT id, l2_id, code, name, unit_def, ord FROM catalog_l3 ORDER BY ord, name`)
	if err != nil {
		return nil, err
	}
	defer l3rows.Close()
	for l3rows.Next() {
		var it model.WorkItem
		var l2ID string
		if err := l3rows.Scan(&it.ID, &l2ID, &it.Code, &it.Name, &it.UnitDef, &it.Ord); err != nil {
			return nil, err
		}
		data.L3ByL2[l2ID] = append(data.L3ByL2[l2ID], it)
	}
	if err := l3rows.Err(); err != nil {
		return nil, err
	}

	scopeRows, err := s.db.QueryContext(ctx,
		`SELECT lv2_id, lv3_id, unit, design_qty, completed_qty
		 FROM scope_items WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	defer scopeRows.Close()
	for scopeRows.Next() {
		var lv2, lv3, unit string
		var design, completed sql.NullString
		if err := scopeRows.Scan(&lv2, &lv3, &unit, &design, &completed); err != nil {
			return nil, err
		}
		// Stored rows are active by definition: deactivating deletes.
		data.ProjectItems[lv2+"|"+lv3] = model.ScopeValues{
			Active:       true,
			Unit:         unit,
			DesignQty:    design.String,
			CompletedQty: completed.String,
		}
	}
	return data, scopeRows.Err()
}

// SaveScope applies one save request atomically. Deactivated rows are
// deleted; active rows are upserted with the unit defaulted to "EA" when
// blank and quantities normalized (unparseable input becomes NULL).
func (s *Store) SaveScope(ctx context.Context, projectID string, items []model.SaveItem) error {
	ok, err := s.ProjectExists(ctx, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProjectNotFound
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, it := range items {
		if strings.TrimSpace(it.Lv2ID) == "" || strings.TrimSpace(it.Lv3ID) == "" {
			continue
		}
		if !it.Active {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM scope_items WHERE project_id = ? AND lv2_id = ? AND lv3_id = ?`,
				projectID, it.Lv2ID, it.Lv3ID); err != nil {
				return err
			}
			continue
		}

		unit := strings.TrimSpace(it.Unit)
		if unit == "" {
			unit = "EA"
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO scope_items
			 (project_id, lv2_id, lv3_id, unit, design_qty, completed_qty)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			projectID, it.Lv2ID, it.Lv3ID, unit,
			nullableQty(it.DesignQty), nullableQty(it.CompletedQty)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func nullableQty(raw string) any {
	d, ok := qty.Parse(raw)
	if !ok {
		return nil
	}
	return d.String()
}
