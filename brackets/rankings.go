package brackets

import (
	"sort"

	"github.com/Dosada05/versusite/models"
)

// Rankings derives placements from elimination rounds. The champion is rank 1;
// an item knocked out in round e (1-based) of R played rounds gets R-e+2, so the
// final's loser is 2 and first-round losers share the worst rank. Ties keep the
// shuffled item order. Items still alive in an unfinished tournament are listed
// last with Undetermined set.
func Rankings(t models.Tournament) []models.Standing {
	totalRounds := len(t.Rounds)

	eliminatedIn := make(map[string]int, len(t.Items))
	for r, round := range t.Rounds {
		for _, m := range round {
			if loser := m.Loser(); loser != nil {
				eliminatedIn[loser.ID] = r + 1
			}
		}
	}

	standings := make([]models.Standing, 0, len(t.Items))
	var pending []models.Standing

	for _, item := range t.Items {
		switch round, out := eliminatedIn[item.ID]; {
		case t.Completed && t.Winner != nil && item.ID == t.Winner.ID:
			standings = append(standings, models.Standing{Rank: 1, Item: item})
		case out:
			standings = append(standings, models.Standing{
				Rank:              totalRounds - round + 2,
				Item:              item,
				EliminatedInRound: round,
			})
		default:
			pending = append(pending, models.Standing{Item: item, Undetermined: true})
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Rank < standings[j].Rank
	})

	return append(standings, pending...)
}
