package dto

// ImportRowError is one persisted row-level parse failure, echoed to the caller.
type ImportRowError struct {
	RowNumber int    `json:"rowNumber"`
	Reason    string `json:"reason"`
}

// ImportResult summarizes one statement import.
type ImportResult struct {
	BatchID             string           `json:"batchID"`
	Inserted            int              `json:"inserted"`
	SkippedDuplicates   int              `json:"skippedDuplicates"`
	SuspectedDuplicates int              `json:"suspectedDuplicates"`
	Errors              []ImportRowError `json:"errors"`
}

// ImportStatementRequest carries the optional knobs of an import upload.
// The file itself arrives as multipart content.
type ImportStatementRequest struct {
	SkipDuplicates bool   `form:"skipDuplicates"`
	Notes          string `form:"notes"`
}
