package domain

// IndexStats summarises the index contents.
type IndexStats struct {
	TotalDocs       int            `json:"total_docs"`
	TotalChunks     int            `json:"total_chunks"`
	Namespaces      map[string]int `json:"namespaces"`
	QuarantineCount int            `json:"quarantine_count"`
	PolicyHash      string         `json:"policy_hash"`
	PolicySource    PolicySource   `json:"policy_source"`
	Snapshots       int            `json:"decision_snapshots"`
	Outcomes        int            `json:"decision_outcomes"`
}
