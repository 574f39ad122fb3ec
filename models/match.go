package models

// Match is a head-to-head between two slots. SlotB == nil marks a bye,
// whose Winner is set to SlotA when the match is created.
type Match struct {
	ID     string `json:"id"`
	SlotA  *Item  `json:"slot_a"`
	SlotB  *Item  `json:"slot_b"`
	Winner *Item  `json:"winner"`
}

func (m Match) IsBye() bool {
	return m.SlotB == nil
}

func (m Match) IsResolved() bool {
	return m.Winner != nil
}

// Candidate returns the slot holding the item with the given id.
func (m Match) Candidate(itemID string) (*Item, bool) {
	if m.SlotA != nil && m.SlotA.ID == itemID {
		return m.SlotA, true
	}
	if m.SlotB != nil && m.SlotB.ID == itemID {
		return m.SlotB, true
	}
	return nil, false
}

// Loser returns the slot that did not win. Byes and unresolved matches have no loser.
func (m Match) Loser() *Item {
	if m.Winner == nil || m.SlotA == nil || m.SlotB == nil {
		return nil
	}
	if m.Winner.ID == m.SlotA.ID {
		return m.SlotB
	}
	return m.SlotA
}

// Round is an ordered group of matches that all resolve before the next one is built.
type Round []Match

func (r Round) Complete() bool {
	for _, m := range r {
		if m.Winner == nil {
			return false
		}
	}
	return true
}

// IndexOf returns the position of the match with the given id, or -1.
func (r Round) IndexOf(matchID string) int {
	for i, m := range r {
		if m.ID == matchID {
			return i
		}
	}
	return -1
}
