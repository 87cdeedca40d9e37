package dto

import "github.com/tr33-app/tr33-backend/internal/entity"

// ScanResultResponse is the identification outcome shown on the tree
// info screen. Confidence is the 0-100 percentage; CarbonScore is the
// points the user will earn if they commit.
type ScanResultResponse struct {
	ScanID         string  `json:"scan_id"`
	CommonName     string  `json:"common_name"`
	ScientificName string  `json:"scientific_name"`
	Description    string  `json:"description"`
	Confidence     float64 `json:"confidence"`
	ImageURL       string  `json:"image_url,omitempty"`
	CarbonScore    int     `json:"carbon_score"`
}

type CommitResponse struct {
	Message     string             `json:"message"`
	CarbonScore int                `json:"carbon_score"`
	Scan        entity.ScannedTree `json:"scan"`
}

type CollectionResponse struct {
	Scans       []entity.ScannedTree `json:"scans"`
	TotalPoints int                  `json:"total_points"`
}
