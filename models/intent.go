package models

// IntentKind names a destructive operation awaiting confirmation.
type IntentKind string

const (
	IntentSingle   IntentKind = "single"
	IntentBulk     IntentKind = "bulk"
	IntentClearAll IntentKind = "clear"
)

// DeleteIntent is a transient confirmation request. It must be resolved
// (confirmed or aborted) before the same surface may mutate the catalog.
type DeleteIntent struct {
	ID        string     `json:"id"`
	Kind      IntentKind `json:"kind"`
	TargetID  string     `json:"target_id,omitempty"`
	TargetIDs []string   `json:"target_ids,omitempty"`
	Count     int        `json:"count"`
}
