package scope

import "geoflow-cli/internal/model"

// Row is one displayable work-item row for the currently selected L2.
// Record carries the row's live field values; the owning session mutates it
// through its edit methods.
type Row struct {
	Key    Key
	Item   model.WorkItem
	Record Record
}

// Enabled reports whether the row's value fields are editable.
// Disabled rows keep their values so re-enabling restores prior input.
func (r Row) Enabled() bool {
	return r.Record.Active
}

// BuildRows produces the rows to display for one L2 branch. Pure merge:
// buffered record if present, else the saved baseline, else a blank record
// with the unit defaulted from the work item. The default-unit fill on
// activation is not done here; that is ToggleActive's job.
func BuildRows(snap *Snapshot, buf Buffer, l2ID string) []Row {
	items := snap.ItemsFor(l2ID)
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		k := Key{L2ID: l2ID, L3ID: it.ID}
		rec, ok := snap.Baseline(k)
		if !ok {
			rec = Record{}
		}
		if rec.Unit == "" {
			rec.Unit = it.UnitDef
		}
		rows = append(rows, Row{Key: k, Item: it, Record: rec})
	}
	buf.Hydrate(rows)
	return rows
}
