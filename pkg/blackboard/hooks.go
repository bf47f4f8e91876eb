package blackboard

// CloneEvent summarises one clone operation.
type CloneEvent struct {
	SourceID   string   `json:"source_id"`
	CloneID    string   `json:"clone_id"`
	Slots      int      `json:"slots"`
	Cloned     int      `json:"cloned"`
	Overridden int      `json:"overridden"`
	Empty      int      `json:"empty"`
	Unmatched  []string `json:"unmatched,omitempty"`
}

// Hooks defines callbacks for registry observability.
type Hooks struct {
	OnClone func(CloneEvent)
}
