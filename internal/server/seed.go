package server

import (
	"context"

	"github.com/google/uuid"
)

// DemoProjectID is the project the seed fixture creates.
const DemoProjectID = "demo"

type seedL1 struct {
	code string
	name string
	l2s  []seedL2
}

type seedL2 struct {
	code string
	name string
	l3s  []seedL3
}

type seedL3 struct {
	code string
	name string
	unit string
}

var demoCatalog = []seedL1{
	{code: "SV", name: "Control Survey", l2s: []seedL2{
		{code: "SV-F", name: "Field Work", l3s: []seedL3{
			{code: "SV-F-01", name: "Benchmark installation", unit: "EA"},
			{code: "SV-F-02", name: "GNSS observation", unit: "EA"},
			{code: "SV-F-03", name: "Traverse survey", unit: "km"},
		}},
		{code: "SV-O", name: "Office Work", l3s: []seedL3{
			{code: "SV-O-01", name: "Network adjustment", unit: "EA"},
			{code: "SV-O-02", name: "Report compilation", unit: "EA"},
		}},
	}},
	{code: "TP", name: "Topographic Survey", l2s: []seedL2{
		{code: "TP-M", name: "Mapping", l3s: []seedL3{
			{code: "TP-M-01", name: "Detail survey", unit: "ha"},
			{code: "TP-M-02", name: "Contour generation", unit: "ha"},
			{code: "TP-M-03", name: "Map sheet drafting", unit: "sheet"},
		}},
	}},
	{code: "CD", name: "Cadastral", l2s: []seedL2{
		{code: "CD-B", name: "Boundary", l3s: []seedL3{
			{code: "CD-B-01", name: "Boundary relocation", unit: "parcel"},
			{code: "CD-B-02", name: "Subdivision survey", unit: "parcel"},
		}},
	}},
}

// Seed loads the demo catalog and a demo project. Idempotent enough for a
// dev fixture: catalog rows are keyed by fresh ids, so run it on a fresh db.
func (s *Store) Seed(ctx context.Context) error {
	for o1, l1 := range demoCatalog {
		l1ID := uuid.NewString()
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO catalog_l1(id, code, name, ord) VALUES(?, ?, ?, ?)`,
			l1ID, l1.code, l1.name, o1+1); err != nil {
			return err
		}
		for o2, l2 := range l1.l2s {
			l2ID := uuid.NewString()
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO catalog_l2(id, l1_id, code, name, ord) VALUES(?, ?, ?, ?, ?)`,
				l2ID, l1ID, l2.code, l2.name, o2+1); err != nil {
				return err
			}
			for o3, l3 := range l2.l3s {
				if _, err := s.db.ExecContext(ctx,
					`INSERT INTO catalog_l3(id, l2_id, code, name, unit_def, ord) VALUES(?, ?, ?, ?, ?, ?)`,
					uuid.NewString(), l2ID, l3.code, l3.name, l3.unit, o3+1); err != nil {
					return err
				}
			}
		}
	}
	return s.CreateProject(ctx, DemoProjectID, "Demo Project")
}
