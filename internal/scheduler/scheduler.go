package scheduler

import (
	"context"
	"fmt"

	"cfbrank/engine/internal/config"
	"cfbrank/engine/internal/engine"
	"cfbrank/engine/internal/metrics"
	"cfbrank/engine/internal/models"
	"cfbrank/engine/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the weekly ranking pass on a cron schedule. The pass
// is a single serialized batch: apply new final games to ratings, save
// the week's snapshot, then generate prospective predictions for the
// following week. It is scheduled after the game-data import window,
// never concurrently with it.
type Scheduler struct {
	cfg    *config.Config
	eng    *engine.Engine
	db     *repository.Database
	cron   *cron.Cron
	cronID cron.EntryID
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, eng *engine.Engine, db *repository.Database) *Scheduler {
	return &Scheduler{
		cfg:  cfg,
		eng:  eng,
		db:   db,
		cron: cron.New(),
	}
}

// Start registers the weekly ranking cron job and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.cfg.WeeklyRankingsCron, func() {
		log.Info().Msg("Running weekly ranking pass...")
		if err := s.RunRankingPass(ctx); err != nil {
			metrics.RankingPassTotal.WithLabelValues("error").Inc()
			log.Error().Err(err).Msg("Weekly ranking pass failed")
			return
		}
		metrics.RankingPassTotal.WithLabelValues("success").Inc()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule weekly ranking pass: %w", err)
	}
	s.cronID = id

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.WeeklyRankingsCron).
		Msg("Weekly ranking pass scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// RunRankingPass executes one full batch for the configured season:
// process finals, snapshot the current week, predict the next one.
func (s *Scheduler) RunRankingPass(ctx context.Context) error {
	season, err := s.currentSeason(ctx)
	if err != nil {
		return err
	}
	if season == nil {
		log.Warn().Msg("No season configured, skipping ranking pass")
		return nil
	}

	processed, err := s.eng.ProcessSeason(ctx, season.Year)
	if err != nil {
		return fmt.Errorf("processing games: %w", err)
	}

	if err := s.eng.SaveWeeklyRankings(ctx, season.Year, season.CurrentWeek); err != nil {
		return fmt.Errorf("saving weekly rankings: %w", err)
	}

	predicted, err := s.eng.GeneratePredictions(ctx, season.Year, season.CurrentWeek+1)
	if err != nil {
		return fmt.Errorf("generating predictions: %w", err)
	}

	log.Info().
		Int("season", season.Year).
		Int("week", season.CurrentWeek).
		Int("games_processed", processed).
		Int("predictions", predicted).
		Msg("Weekly ranking pass complete")

	return nil
}

func (s *Scheduler) currentSeason(ctx context.Context) (*models.Season, error) {
	if s.cfg.Season > 0 {
		return s.db.Seasons.GetByYear(ctx, s.cfg.Season)
	}
	return s.db.Seasons.GetLatest(ctx)
}
