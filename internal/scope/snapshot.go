package scope

import "geoflow-cli/internal/model"

// Snapshot is the immutable catalog + baseline loaded once per session.
// It is replaced wholesale on the next session, never mutated.
type Snapshot struct {
	data *model.ScopeData
}

func NewSnapshot(d *model.ScopeData) *Snapshot {
	return &Snapshot{data: d}
}

func (s *Snapshot) Version() string {
	return s.data.Version
}

func (s *Snapshot) L1List() []model.CategoryNode {
	return s.data.L1List
}

func (s *Snapshot) L2For(l1ID string) []model.CategoryNode {
	return s.data.L2ByL1[l1ID]
}

func (s *Snapshot) ItemsFor(l2ID string) []model.WorkItem {
	return s.data.L3ByL2[l2ID]
}

// Baseline returns the project's previously saved values for a key.
func (s *Snapshot) Baseline(k Key) (Record, bool) {
	v, ok := s.data.ProjectItems[k.String()]
	if !ok {
		return Record{}, false
	}
	return Record{
		Active:       v.Active,
		Unit:         v.Unit,
		DesignQty:    v.DesignQty,
		CompletedQty: v.CompletedQty,
	}, true
}

func (s *Snapshot) Empty() bool {
	return len(s.data.L1List) == 0
}

// FirstL2 returns the first sub-category under an L1, or "" if it has none.
func (s *Snapshot) FirstL2(l1ID string) string {
	l2s := s.data.L2ByL1[l1ID]
	if len(l2s) == 0 {
		return ""
	}
	return l2s[0].ID
}

// FirstSelection returns the initial (L1, L2) selection: the first top
// category and its first sub-category. Empty strings if the catalog is empty.
func (s *Snapshot) FirstSelection() (string, string) {
	if len(s.data.L1List) == 0 {
		return "", ""
	}
	l1 := s.data.L1List[0].ID
	return l1, s.FirstL2(l1)
}
