package dto

// One row of a ranking. Value is omitted when the entity had
// insufficient data for the requested metric.
type RankEntryResponse struct {
	EntityID         int64    `json:"entity_id"`
	Value            *float64 `json:"value,omitempty"`
	InsufficientData bool     `json:"insufficient_data,omitempty"`
}

type RankingResponse struct {
	Metric  string              `json:"metric"`
	Entries []RankEntryResponse `json:"entries"`
}
