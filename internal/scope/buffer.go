package scope

import (
	"sort"

	"geoflow-cli/internal/model"
)

// Record is the user's current intended state for one work item, whether or
// not its branch is on screen. Quantities stay raw strings until save.
type Record struct {
	Active       bool
	Unit         string
	DesignQty    string
	CompletedQty string
}

// Buffer overlays user edits on top of the baseline. It only ever holds keys
// for rows that have been rendered at least once this session; it is never
// pre-populated from the baseline, which bounds the save payload to rows the
// user could actually have touched.
type Buffer map[Key]Record

func NewBuffer() Buffer {
	return Buffer{}
}

// Seed writes the live values of every given row into the buffer,
// overwriting prior entries. Called right before the visible branch changes
// and again right before save; idempotent for unchanged rows.
func (b Buffer) Seed(rows []Row) {
	for _, r := range rows {
		b[r.Key] = r.Record
	}
}

func (b Buffer) Get(k Key) (Record, bool) {
	rec, ok := b[k]
	return rec, ok
}

func (b Buffer) Put(k Key, rec Record) {
	b[k] = rec
}

// Hydrate applies buffered records onto freshly built rows, overriding their
// baseline values. Rows without a buffered entry keep what they have.
func (b Buffer) Hydrate(rows []Row) {
	for i := range rows {
		if rec, ok := b[rows[i].Key]; ok {
			rows[i].Record = rec
		}
	}
}

// Flatten turns the buffer into save-request items. Order does not matter to
// the server; we sort by key so payloads (and tests) are deterministic.
func (b Buffer) Flatten() []model.SaveItem {
	items := make([]model.SaveItem, 0, len(b))
	for k, rec := range b {
		items = append(items, model.SaveItem{
			Lv2ID:        k.L2ID,
			Lv3ID:        k.L3ID,
			Active:       rec.Active,
			Unit:         rec.Unit,
			DesignQty:    rec.DesignQty,
			CompletedQty: rec.CompletedQty,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Lv2ID != items[j].Lv2ID {
			return items[i].Lv2ID < items[j].Lv2ID
		}
		return items[i].Lv3ID < items[j].Lv3ID
	})
	return items
}

func (b Buffer) Len() int {
	return len(b)
}
