package model

// CategoryNode is one L1 or L2 catalog node.
type CategoryNode struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Ord  int    `json:"ord"`
}

// WorkItem is one L3 catalog leaf under an L2 node.
type WorkItem struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	UnitDef string `json:"unit_def"`
	Ord     int    `json:"ord"`
}

// ScopeValues is the persisted state of one (L2, L3) scope item.
// Quantities stay strings on the wire; parsing/formatting is the qty package's job.
type ScopeValues struct {
	Active       bool   `json:"active"`
	Unit         string `json:"unit"`
	DesignQty    string `json:"design_qty"`
	CompletedQty string `json:"completed_qty"`
}

// ScopeData is the full catalog + baseline payload served by
// GET /projects/{id}/scope-data/. Loaded once per editing session.
//
// ProjectItems is keyed "{l2_id}|{l3_id}".
type ScopeData struct {
	Version      string                    `json:"version"`
	L1List       []CategoryNode            `json:"l1_list"`
	L2ByL1       map[string][]CategoryNode `json:"l2_by_l1"`
	L3ByL2       map[string][]WorkItem     `json:"l3_by_l2"`
	ProjectItems map[string]ScopeValues    `json:"project_items"`
}

// SaveItem is one touched row in a scope-save request.
type SaveItem struct {
	Lv2ID        string `json:"lv2_id"`
	Lv3ID        string `json:"lv3_id"`
	Active       bool   `json:"active"`
	Unit         string `json:"unit"`
	DesignQty    string `json:"design_qty"`
	CompletedQty string `json:"completed_qty"`
}

// SaveRequest is the body of POST /projects/{id}/scope-save/.
type SaveRequest struct {
	Items []SaveItem `json:"items"`
}

// SaveResponse is the server's answer to a scope-save.
type SaveResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Project is a minimal project record (the server side owns the full shape).
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
