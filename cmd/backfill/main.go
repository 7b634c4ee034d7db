// Command backfill regenerates retrospective predictions for a past
// season's weeks from ranking history, so predicted results can be
// compared fairly against what actually happened (or against a human
// poll) without leaking future ratings into old games.
package main

import (
	"context"
	"flag"
	"strconv"

	"cfbrank/engine/internal/config"
	"cfbrank/engine/internal/engine"
	"cfbrank/engine/internal/rating"
	"cfbrank/engine/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	season := flag.Int("season", 0, "season year to backfill (required)")
	fromWeek := flag.Int("from-week", 1, "first week to backfill")
	toWeek := flag.Int("to-week", 0, "last week to backfill (required)")
	replay := flag.Bool("replay", false, "reset ratings and re-apply the season's games first")
	flag.Parse()

	if *season <= 0 || *toWeek <= 0 || *fromWeek > *toWeek {
		flag.Usage()
		log.Fatal().Msg("Usage: backfill -season 2025 -from-week 1 -to-week 15")
	}

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Validate database connectivity before touching anything
	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	eng := engine.New(db, rating.Params{
		KFactor:         cfg.RatingKFactor,
		Divisor:         cfg.RatingDivisor,
		HomeFieldBonus:  cfg.RatingHomeFieldBonus,
		InitialRating:   cfg.RatingInitial,
		PointsPerMargin: cfg.RatingPointsPerMargin,
	})

	if *replay {
		applied, err := eng.ReplaySeason(ctx, *season)
		if err != nil {
			log.Fatal().Err(err).Msg("Season replay failed")
		}
		log.Info().Int("season", *season).Int("games", applied).Msg("Season replayed from scratch")
	}

	totalSaved := 0
	failedWeeks := 0
	for week := *fromWeek; week <= *toWeek; week++ {
		saved, err := eng.BackfillPredictions(ctx, *season, week)
		if err != nil {
			log.Error().Err(err).Int("week", week).Msg("Backfill failed for week, continuing")
			failedWeeks++
			continue
		}
		totalSaved += saved
	}

	log.Info().
		Int("season", *season).
		Int("predictions", totalSaved).
		Int("failed_weeks", failedWeeks).
		Msg("Retrospective prediction backfill complete")
}
