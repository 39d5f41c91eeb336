package scope

import (
	"context"
	"strings"

	"geoflow-cli/internal/model"
)

// API is the slice of the ops server the session talks to.
// catalog.Client implements it.
type API interface {
	FetchScopeData(ctx context.Context, projectID string) (*model.ScopeData, error)
	SaveScope(ctx context.Context, projectID string, req model.SaveRequest) (model.SaveResponse, error)
}

// Session owns one editing session: the catalog snapshot, the edit buffer,
// the current (L1, L2) selection and the live rows of the visible branch.
// There are no ambient globals; everything the components need hangs off the
// session and dies with it.
//
// A session is single-owner state driven from one event loop; it does its
// own reentrancy guarding for Open but is not safe for concurrent use.
type Session struct {
	api       API
	projectID string

	snap    *Snapshot
	buf     Buffer
	l1ID    string
	l2ID    string
	visible []Row

	loading bool
}

func NewSession(api API, projectID string) *Session {
	return &Session{
		api:       api,
		projectID: projectID,
		buf:       NewBuffer(),
	}
}

func (s *Session) ProjectID() string { return s.projectID }

// Open fetches the catalog snapshot and sets the initial selection.
// At most one network request per session no matter how often it is called:
// once loaded it is a no-op, and the loading flag stops a second open racing
// a slow first one (double-click protection).
func (s *Session) Open(ctx context.Context) error {
	if s.snap != nil || s.loading {
		return nil
	}
	s.loading = true
	defer func() { s.loading = false }()

	data, err := s.api.FetchScopeData(ctx, s.projectID)
	if err != nil {
		return &LoadError{Err: err}
	}
	s.snap = NewSnapshot(data)
	s.l1ID, s.l2ID = s.snap.FirstSelection()
	s.rebuild()
	return nil
}

func (s *Session) Loaded() bool       { return s.snap != nil }
func (s *Session) Snapshot() *Snapshot { return s.snap }
func (s *Session) SelectedL1() string { return s.l1ID }
func (s *Session) SelectedL2() string { return s.l2ID }

// Rows returns the live rows of the visible branch. Callers must not keep
// the slice across a navigation; edits go through the Set*/Toggle methods.
func (s *Session) Rows() []Row { return s.visible }

func (s *Session) Empty() bool {
	return s.snap == nil || s.snap.Empty()
}

// SelectL1 switches to a top category and its first sub-category.
func (s *Session) SelectL1(l1ID string) {
	if s.snap == nil || l1ID == s.l1ID {
		return
	}
	s.switchTo(l1ID, s.snap.FirstL2(l1ID))
}

// SelectL2 switches to a sub-category under the given top category.
func (s *Session) SelectL2(l1ID, l2ID string) {
	if s.snap == nil {
		return
	}
	if l1ID == s.l1ID && l2ID == s.l2ID {
		return
	}
	s.switchTo(l1ID, l2ID)
}

// switchTo is the single branch-change path. Seeding before the selection
// moves is what keeps in-flight edits alive; every transition must come
// through here rather than re-implementing the dance.
func (s *Session) switchTo(l1ID, l2ID string) {
	s.buf.Seed(s.visible)
	s.l1ID = l1ID
	s.l2ID = l2ID
	s.rebuild()
}

func (s *Session) rebuild() {
	s.visible = BuildRows(s.snap, s.buf, s.l2ID)
}

// ToggleActive flips a row's active flag. On the false→true edge an empty
// unit field is filled with the work item's default unit; this is the one
// view mutation that writes into edit state outside the plain field setters.
func (s *Session) ToggleActive(i int) {
	if i < 0 || i >= len(s.visible) {
		return
	}
	r := &s.visible[i]
	r.Record.Active = !r.Record.Active
	if r.Record.Active && strings.TrimSpace(r.Record.Unit) == "" {
		r.Record.Unit = r.Item.UnitDef
	}
	s.touch(i)
}

func (s *Session) SetUnit(i int, v string) {
	if i < 0 || i >= len(s.visible) {
		return
	}
	s.visible[i].Record.Unit = v
	s.touch(i)
}

func (s *Session) SetDesignQty(i int, v string) {
	if i < 0 || i >= len(s.visible) {
		return
	}
	s.visible[i].Record.DesignQty = v
	s.touch(i)
}

func (s *Session) SetCompletedQty(i int, v string) {
	if i < 0 || i >= len(s.visible) {
		return
	}
	s.visible[i].Record.CompletedQty = v
	s.touch(i)
}

// touch mirrors an edited row into the buffer immediately, the same write
// the pre-navigation seed would do. Seeding stays in place as the safety
// net; doing both is idempotent.
func (s *Session) touch(i int) {
	s.buf.Put(s.visible[i].Key, s.visible[i].Record)
}

// Flatten performs the final seed and returns the save payload without
// submitting it (used by scripted saves and tests).
func (s *Session) Flatten() []model.SaveItem {
	s.buf.Seed(s.visible)
	return s.buf.Flatten()
}

// Save flushes the visible rows into the buffer one last time and submits
// the whole buffer as a single request. On any failure the buffer and the
// visible rows are left untouched so the user can retry without re-entering
// data.
func (s *Session) Save(ctx context.Context) error {
	if s.snap == nil {
		return &SaveError{Reason: "catalog not loaded"}
	}
	req := model.SaveRequest{Items: s.Flatten()}
	resp, err := s.api.SaveScope(ctx, s.projectID, req)
	if err != nil {
		return &SaveError{Err: err}
	}
	if !resp.OK {
		return &SaveError{Reason: resp.Error}
	}
	return nil
}
