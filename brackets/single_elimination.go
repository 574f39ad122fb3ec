package brackets

import (
	"fmt"

	"github.com/Dosada05/versusite/models"
)

// SingleEliminationGenerator builds and advances knockout brackets. It holds no
// tournament state: every call takes a snapshot and returns a new one, so one
// generator can serve any number of tournaments concurrently.
type SingleEliminationGenerator struct {
	ids      IDGenerator
	shuffler Shuffler
}

func NewSingleEliminationGenerator(opts ...Option) *SingleEliminationGenerator {
	g := &SingleEliminationGenerator{
		ids:      UUIDGenerator{},
		shuffler: RandomShuffler,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// CreateTournament shuffles the items and pairs them sequentially into the
// first round. An odd item out gets a bye that is already resolved.
func (g *SingleEliminationGenerator) CreateTournament(title string, items []models.Item) (models.Tournament, error) {
	n := len(items)
	if n < 2 {
		return models.Tournament{}, fmt.Errorf("%w: at least 2 items required, got %d", ErrInvalidInput, n)
	}

	seen := make(map[string]struct{}, n)
	for i, item := range items {
		if item.ID == "" {
			return models.Tournament{}, fmt.Errorf("%w: item at position %d has no id", ErrInvalidInput, i)
		}
		if _, dup := seen[item.ID]; dup {
			return models.Tournament{}, fmt.Errorf("%w: duplicate item id %q", ErrInvalidInput, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	shuffled := make([]models.Item, n)
	copy(shuffled, items)
	g.shuffler.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	entrants := make([]*models.Item, n)
	for i := range shuffled {
		entrants[i] = &shuffled[i]
	}

	return models.Tournament{
		ID:                g.ids.NewID(),
		Title:             title,
		Items:             shuffled,
		Rounds:            []models.Round{g.pairRound(entrants)},
		CurrentRoundIndex: 0,
		Completed:         false,
		Winner:            nil,
	}, nil
}

// pairRound pairs entrants (0,1), (2,3), ... A trailing unpaired entrant
// becomes a bye that wins immediately.
func (g *SingleEliminationGenerator) pairRound(entrants []*models.Item) models.Round {
	round := make(models.Round, 0, (len(entrants)+1)/2)
	for i := 0; i < len(entrants); i += 2 {
		m := models.Match{ID: g.ids.NewID(), SlotA: entrants[i]}
		if i+1 < len(entrants) {
			m.SlotB = entrants[i+1]
		} else {
			m.Winner = entrants[i]
		}
		round = append(round, m)
	}
	return round
}

// ResolveMatch records winner for matchID in the active round and returns the
// resulting snapshot. When that completes the round it either finishes the
// tournament (single-match round) or appends the next round built from the
// winners in match order. The input snapshot is never modified.
func (g *SingleEliminationGenerator) ResolveMatch(t models.Tournament, matchID string, winner models.Item) (models.Tournament, error) {
	if t.Completed {
		return models.Tournament{}, fmt.Errorf("%w: tournament %s is already completed", ErrMatchNotFound, t.ID)
	}

	current := t.CurrentRound()
	idx := current.IndexOf(matchID)
	if idx < 0 {
		return models.Tournament{}, fmt.Errorf("%w: %q in round %d", ErrMatchNotFound, matchID, t.CurrentRoundIndex+1)
	}

	slot, ok := current[idx].Candidate(winner.ID)
	if !ok {
		return models.Tournament{}, fmt.Errorf("%w: item %q in match %q", ErrInvalidWinner, winner.ID, matchID)
	}

	round := make(models.Round, len(current))
	copy(round, current)
	round[idx].Winner = slot

	next := t
	next.Rounds = make([]models.Round, len(t.Rounds), len(t.Rounds)+1)
	copy(next.Rounds, t.Rounds)
	next.Rounds[t.CurrentRoundIndex] = round

	if !round.Complete() {
		return next, nil
	}

	if len(round) == 1 {
		next.Completed = true
		next.Winner = round[0].Winner
		return next, nil
	}

	winners := make([]*models.Item, len(round))
	for i, m := range round {
		winners[i] = m.Winner
	}
	next.Rounds = append(next.Rounds, g.pairRound(winners))
	next.CurrentRoundIndex++

	return next, nil
}

// NextMatch returns the first unresolved match of the active round. It returns
// nil for a missing or completed tournament, and also in the transient state
// where the active round has nothing left to play; callers should re-read the
// latest snapshot rather than treat that as a failure.
func NextMatch(t *models.Tournament) *models.Match {
	if t == nil || t.Completed {
		return nil
	}
	for _, m := range t.CurrentRound() {
		if m.Winner == nil {
			found := m
			return &found
		}
	}
	return nil
}
