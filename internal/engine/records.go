package engine

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/models"
)

// SeasonRecord derives a team's (wins, losses) for a season strictly
// from its qualifying games. There is no denormalized counter to
// drift out of sync with game history.
func (e *Engine) SeasonRecord(ctx context.Context, teamID, season int) (wins, losses int, err error) {
	games, err := e.db.Games.ListQualifyingByTeam(ctx, teamID, season)
	if err != nil {
		return 0, 0, err
	}

	return recordFromGames(teamID, games)
}

// StrengthOfSchedule derives a team's SOS for a season as the average
// of its opponents' current ratings over qualifying games. A team with
// zero qualifying games has SOS exactly 0.0.
//
// This is current-strength SOS: opponents are weighed at their rating
// now, not at the rating they had when the game was played.
func (e *Engine) StrengthOfSchedule(ctx context.Context, teamID, season int) (float64, error) {
	games, err := e.db.Games.ListQualifyingByTeam(ctx, teamID, season)
	if err != nil {
		return 0, err
	}
	if len(games) == 0 {
		return 0.0, nil
	}

	ratings := make(map[int]float64, len(games))
	for _, game := range games {
		oppID, ok := game.OpponentID(teamID)
		if !ok {
			continue
		}
		if _, seen := ratings[oppID]; seen {
			continue
		}
		opp, err := e.db.Teams.GetByID(ctx, oppID)
		if err != nil {
			return 0, err
		}
		ratings[oppID] = opp.Rating
	}

	return sosFromGames(teamID, games, ratings)
}

// recordFromGames tallies wins and losses for teamID over an already
// filtered set of qualifying games. A tie is an upstream data defect.
func recordFromGames(teamID int, games []*models.Game) (wins, losses int, err error) {
	for _, game := range games {
		if !game.HasFinalScore() {
			return 0, 0, fmt.Errorf("qualifying game id=%d missing scores: %w", game.ID, ErrInvalidGameState)
		}

		margin := game.Margin()
		if margin == 0 {
			return 0, 0, fmt.Errorf("qualifying game id=%d ended in a tie: %w", game.ID, ErrInvalidGameState)
		}

		homeWon := margin > 0
		switch teamID {
		case game.HomeTeamID:
			if homeWon {
				wins++
			} else {
				losses++
			}
		case game.AwayTeamID:
			if homeWon {
				losses++
			} else {
				wins++
			}
		}
	}

	return wins, losses, nil
}

// sosFromGames averages the opponents' current ratings for teamID over
// an already filtered set of qualifying games. Every opponent
// appearance counts, so playing a strong team twice weighs it twice.
func sosFromGames(teamID int, games []*models.Game, ratings map[int]float64) (float64, error) {
	var sum float64
	var count int

	for _, game := range games {
		oppID, ok := game.OpponentID(teamID)
		if !ok {
			continue
		}
		oppRating, ok := ratings[oppID]
		if !ok {
			return 0, fmt.Errorf("no rating for opponent team id=%d in game id=%d", oppID, game.ID)
		}
		sum += oppRating
		count++
	}

	if count == 0 {
		return 0.0, nil
	}
	return sum / float64(count), nil
}
