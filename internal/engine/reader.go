package engine

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"

	"github.com/rs/zerolog/log"
)

// CurrentRankings returns the snapshot for a season's current week,
// ordered by rank ascending and truncated to limit (0 = all). An empty
// slice means the week has not been computed yet; callers treat that as
// "not yet computed", never as a fault.
func (e *Engine) CurrentRankings(ctx context.Context, seasonYear, limit int) ([]*models.RankingHistory, error) {
	season, err := e.db.Seasons.GetByYear(ctx, seasonYear)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return []*models.RankingHistory{}, nil
	}

	if cached, ok := e.cachedRankings(ctx, season.Year, season.CurrentWeek, limit); ok {
		return cached, nil
	}

	rankings, err := e.db.Rankings.ListByWeek(ctx, season.Year, season.CurrentWeek, limit)
	if err != nil {
		return nil, err
	}
	if rankings == nil {
		rankings = []*models.RankingHistory{}
	}

	e.storeRankingsCache(ctx, season.Year, season.CurrentWeek, limit, rankings)

	return rankings, nil
}

// HistoricalRankings returns the snapshot for an explicit (season,
// week), with the same empty-means-uncomputed semantics.
func (e *Engine) HistoricalRankings(ctx context.Context, season, week, limit int) ([]*models.RankingHistory, error) {
	rankings, err := e.db.Rankings.ListByWeek(ctx, season, week, limit)
	if err != nil {
		return nil, err
	}
	if rankings == nil {
		rankings = []*models.RankingHistory{}
	}
	return rankings, nil
}

// TeamRank returns the most recent snapshot row for a team in a season,
// or nil when none exists (no games yet, or before the first weekly
// snapshot).
func (e *Engine) TeamRank(ctx context.Context, teamID, season int) (*models.RankingHistory, error) {
	return e.db.Rankings.GetLatestForTeam(ctx, teamID, season)
}

func rankingsCacheKey(season, week, limit int) string {
	return fmt.Sprintf("rankings:%d:%d:%d", season, week, limit)
}

func (e *Engine) cachedRankings(ctx context.Context, season, week, limit int) ([]*models.RankingHistory, bool) {
	if e.cache == nil {
		return nil, false
	}

	var rankings []*models.RankingHistory
	found, err := e.cache.GetJSON(ctx, rankingsCacheKey(season, week, limit), &rankings)
	if err != nil {
		log.Warn().Err(err).Msg("Rankings cache read failed, falling back to database")
		return nil, false
	}
	if !found {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	metrics.CacheHitsTotal.Inc()
	return rankings, true
}

func (e *Engine) storeRankingsCache(ctx context.Context, season, week, limit int, rankings []*models.RankingHistory) {
	if e.cache == nil {
		return
	}

	if err := e.cache.SetJSON(ctx, rankingsCacheKey(season, week, limit), rankings); err != nil {
		log.Warn().Err(err).Msg("Rankings cache write failed")
	}
}

// invalidateRankingsCache drops every cached variant for a week after a
// snapshot write.
func (e *Engine) invalidateRankingsCache(ctx context.Context, season, week int) {
	if e.cache == nil {
		return
	}

	pattern := fmt.Sprintf("rankings:%d:%d:*", season, week)
	if err := e.cache.DeletePattern(ctx, pattern); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("Rankings cache invalidation failed")
	}
}
