package models

// DedupeStatus classifies an import item against previously stored flights
type DedupeStatus string

const (
	DedupeUnclassified      DedupeStatus = "unclassified"
	DedupeReady             DedupeStatus = "ready"
	DedupeDuplicate         DedupeStatus = "duplicate"
	DedupePossibleDuplicate DedupeStatus = "possible_duplicate"
	DedupeError             DedupeStatus = "error"
)

// ImportItem is one unit of reconciliation work in an import session
type ImportItem struct {
	LocalID              string            `json:"localId"`
	Type                 string            `json:"type"` // igc
	FileName             string            `json:"fileName,omitempty"`
	FilePath             string            `json:"filePath,omitempty"`
	Fingerprint          string            `json:"fingerprint,omitempty"`
	FileURL              string            `json:"fileUrl,omitempty"`
	FlightStats          *FlightStatistics `json:"flightStats,omitempty"`
	DedupeStatus         DedupeStatus      `json:"dedupeStatus"`
	DuplicateExplanation string            `json:"duplicateExplanation,omitempty"`
	ErrorMessage         string            `json:"errorMessage,omitempty"`
}

// PreviewRequest asks for a duplicate classification of pending import items
type PreviewRequest struct {
	UserID string       `json:"userId"`
	Items  []ImportItem `json:"items"`
}

// PreviewClassification is the server-side verdict for one item
type PreviewClassification struct {
	LocalID        string       `json:"localId"`
	Classification DedupeStatus `json:"classification"`
	Explanation    string       `json:"explanation,omitempty"`
}

// PreviewResponse carries one classification per recognized item
type PreviewResponse struct {
	Items []PreviewClassification `json:"items"`
}

// CommitRequest persists previously previewed items
type CommitRequest struct {
	UserID                    string       `json:"userId"`
	Items                     []ImportItem `json:"items"`
	ForcePossibleDuplicateIDs []string     `json:"forcePossibleDuplicateIds,omitempty"`
	SessionID                 string       `json:"sessionId,omitempty"`
}

// CommitItemResult reports the outcome for one committed item
type CommitItemResult struct {
	LocalID     string       `json:"localId"`
	Status      DedupeStatus `json:"status"`
	ActivityID  int64        `json:"activityId,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

// ImportCounts aggregates a commit round-trip
type ImportCounts struct {
	Imported         int `json:"imported"`
	DuplicateSkipped int `json:"duplicateSkipped"`
	PossibleSkipped  int `json:"possibleSkipped"`
	Errors           int `json:"errors"`
}

// CommitResponse is the result of a batch commit
type CommitResponse struct {
	Items     []CommitItemResult `json:"items"`
	Counts    ImportCounts       `json:"counts"`
	SessionID string             `json:"sessionId"`
}

// ParseFileResult is the per-file outcome of the upload pipeline. A batch of
// N files yields N results; failures populate ErrorMessage instead of Item.
type ParseFileResult struct {
	FileName     string      `json:"fileName"`
	FilePath     string      `json:"filePath,omitempty"`
	Item         *ImportItem `json:"item,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	RowErrors    []string    `json:"rowErrors,omitempty"`
}
