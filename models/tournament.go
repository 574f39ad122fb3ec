package models

// Tournament is one immutable snapshot of a bracket. Every engine call returns a
// new snapshot; Rounds[CurrentRoundIndex] is the round being played and all
// earlier rounds are fully resolved.
type Tournament struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Items             []Item  `json:"items"`
	Rounds            []Round `json:"rounds"`
	CurrentRoundIndex int     `json:"current_round_index"`
	Completed         bool    `json:"completed"`
	Winner            *Item   `json:"winner"`
}

// CurrentRound returns the active round, or nil for an empty snapshot.
func (t Tournament) CurrentRound() Round {
	if t.CurrentRoundIndex < 0 || t.CurrentRoundIndex >= len(t.Rounds) {
		return nil
	}
	return t.Rounds[t.CurrentRoundIndex]
}

// Standing is one row of the derived placement table.
type Standing struct {
	Rank int  `json:"rank"`
	Item Item `json:"item"`
	// EliminatedInRound is 1-based; zero for the champion and undetermined items.
	EliminatedInRound int  `json:"eliminated_in_round,omitempty"`
	Undetermined      bool `json:"undetermined,omitempty"`
}
