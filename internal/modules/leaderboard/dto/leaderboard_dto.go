package dto

// LeaderboardEntry is one ranked row. Position is assigned 1-based on
// the consumer side; IsCurrentUser flags the row whose nickname equals
// the session nickname.
type LeaderboardEntry struct {
	Position      int    `json:"position"`
	Nickname      string `json:"nickname"`
	TotalPoints   int    `json:"total_points"`
	IsCurrentUser bool   `json:"is_current_user"`
}
