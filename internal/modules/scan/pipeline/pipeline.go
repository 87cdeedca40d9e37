// Package pipeline holds the per-attempt state of one scan: the
// transient identification result and the legal state transitions
// between identifying a tree and committing it to the ledger.
package pipeline

import (
	"fmt"
	"math"
	"time"
)

type State string

const (
	// StateIdentified: the image resolved to a top-ranked match and the
	// result is held server-side awaiting an explicit commit.
	StateIdentified State = "identified"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	// StateCommitFailed is retryable: the attempt is preserved so the
	// user can commit again without re-scanning.
	StateCommitFailed State = "commit_failed"
)

var transitions = map[State][]State{
	StateIdentified:   {StateCommitting},
	StateCommitting:   {StateCommitted, StateCommitFailed},
	StateCommitFailed: {StateCommitting},
	StateCommitted:    {},
}

// Attempt is the ephemeral ScanResult plus its pipeline state. It lives
// in the pending-scan store until committed or expired, never in the
// ledger.
type Attempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	CommonName     string    `json:"common_name"`
	ScientificName string    `json:"scientific_name"`
	Description    string    `json:"description"`
	Confidence     float64   `json:"confidence"` // match probability in [0,1]
	ImageURL       string    `json:"image_url"`
	State          State     `json:"state"`
	CreatedAt      time.Time `json:"created_at"`
}

// Transition moves the attempt to the next state, rejecting anything
// the state machine does not allow.
func (a *Attempt) Transition(to State) error {
	for _, allowed := range transitions[a.State] {
		if allowed == to {
			a.State = to
			return nil
		}
	}
	return fmt.Errorf("illegal scan state transition: %s -> %s", a.State, to)
}

// CarbonScore derives the points for a scan from the identification
// confidence. The rule is round(confidence*100) with halves rounded
// away from zero, matching the mobile client's Math.round: 0 -> 0,
// 0.005 -> 1, 0.885 -> 89, 1 -> 100. Confidence is taken at face
// value, no clamping.
func CarbonScore(confidence float64) int {
	return int(math.Round(confidence * 100))
}
