package types

// SubjectRow is one line of the transcript GPA calculator.
// Percent and Credits are raw user input.
type SubjectRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Percent string `json:"percent"`
	Credits string `json:"credits"`
}

// SubjectRowResult is a SubjectRow after normalisation.
type SubjectRowResult struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Credits float64 `json:"credits"`
	GPA     float64 `json:"gpa"`
	Letter  string  `json:"letter"`
}

// TranscriptSummary is the credit-weighted result over a set of subject rows.
type TranscriptSummary struct {
	Rows            []SubjectRowResult `json:"rows"`
	TotalCredits    float64            `json:"total_credits"`
	WeightedPercent float64            `json:"weighted_percent"`
	WeightedGPA     float64            `json:"weighted_gpa"`
	Letter          string             `json:"letter"`
}
