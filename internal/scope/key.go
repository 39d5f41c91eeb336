package scope

import "strings"

// Key identifies one work-scope row: an L3 work item under an L2 category.
// Its string form "{l2}|{l3}" is the wire key used by project_items.
type Key struct {
	L2ID string
	L3ID string
}

func (k Key) String() string {
	return k.L2ID + "|" + k.L3ID
}

func ParseKey(s string) (Key, bool) {
	l2, l3, ok := strings.Cut(s, "|")
	if !ok || l2 == "" || l3 == "" {
		return Key{}, false
	}
	return Key{L2ID: l2, L3ID: l3}, true
}
