package engine

import (
	"context"
	"sort"
	"time"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// SaveWeeklyRankings computes and persists the ranking snapshot for a
// (season, week): one ranking_history row per team with rank, rating,
// SOS, SOS-rank and record as of this week.
//
// Teams are ranked by rating descending with team id as the secondary
// key, so equal ratings always resolve to the same order. The whole
// week is written in one transaction; if any team's computation fails,
// nothing is written. Re-saving the same week overwrites it row for
// row, which is how operators correct a week after fixing data.
func (e *Engine) SaveWeeklyRankings(ctx context.Context, season, week int) error {
	start := time.Now()

	teams, err := e.db.Teams.ListByRating(ctx)
	if err != nil {
		return &SnapshotError{Season: season, Week: week, Err: err}
	}

	games, err := e.db.Games.ListQualifying(ctx, season)
	if err != nil {
		return &SnapshotError{Season: season, Week: week, Err: err}
	}

	ratings := make(map[int]float64, len(teams))
	for _, team := range teams {
		ratings[team.ID] = team.Rating
	}

	gamesByTeam := make(map[int][]*models.Game, len(teams))
	for _, game := range games {
		gamesByTeam[game.HomeTeamID] = append(gamesByTeam[game.HomeTeamID], game)
		gamesByTeam[game.AwayTeamID] = append(gamesByTeam[game.AwayTeamID], game)
	}

	rows := make([]*models.RankingHistory, 0, len(teams))
	for i, team := range teams {
		teamGames := gamesByTeam[team.ID]

		wins, losses, err := recordFromGames(team.ID, teamGames)
		if err != nil {
			return &SnapshotError{Season: season, Week: week, TeamID: team.ID, Err: err}
		}

		sos, err := sosFromGames(team.ID, teamGames, ratings)
		if err != nil {
			return &SnapshotError{Season: season, Week: week, TeamID: team.ID, Err: err}
		}

		rows = append(rows, &models.RankingHistory{
			TeamID: team.ID,
			Season: season,
			Week:   week,
			Rank:   i + 1,
			Rating: team.Rating,
			SOS:    sos,
			Wins:   wins,
			Losses: losses,
		})
	}

	assignSOSRanks(rows)

	err = e.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, row := range rows {
			if err := e.db.Rankings.UpsertTx(ctx, tx, row); err != nil {
				return &SnapshotError{Season: season, Week: week, TeamID: row.TeamID, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		metrics.SnapshotsTotal.WithLabelValues("error").Inc()
		return err
	}

	e.invalidateRankingsCache(ctx, season, week)

	metrics.SnapshotsTotal.WithLabelValues("success").Inc()
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Int("season", season).
		Int("week", week).
		Int("teams", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("Weekly ranking snapshot saved")

	return nil
}

// assignSOSRanks orders the snapshot rows by SOS descending with team
// id as the tie-break, mirroring the rating rank rule.
func assignSOSRanks(rows []*models.RankingHistory) {
	bySOS := make([]*models.RankingHistory, len(rows))
	copy(bySOS, rows)

	sort.SliceStable(bySOS, func(i, j int) bool {
		if bySOS[i].SOS != bySOS[j].SOS {
			return bySOS[i].SOS > bySOS[j].SOS
		}
		return bySOS[i].TeamID < bySOS[j].TeamID
	})

	for i, row := range bySOS {
		row.SOSRank = i + 1
	}
}
