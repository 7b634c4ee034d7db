// Package engine implements the rating and ranking engine: idempotent
// game processing, win/loss records and strength of schedule derived
// from game facts, immutable weekly ranking snapshots, and game
// predictions in prospective and retrospective modes.
//
// The engine runs as a serialized batch (one import-then-rank pass per
// week); read paths only touch committed snapshots.
package engine

import (
	"cfbrank/engine/internal/cache"
	"cfbrank/engine/internal/rating"
	"cfbrank/engine/internal/repository"
)

// Engine wires the rating model to the repositories.
type Engine struct {
	db     *repository.Database
	params rating.Params
	cache  *cache.RedisCache // optional, nil when Redis is unavailable
}

// New creates an engine on top of the given database with the given
// rating tuning.
func New(db *repository.Database, params rating.Params) *Engine {
	return &Engine{
		db:     db,
		params: params,
	}
}

// WithCache attaches a Redis cache for the read side. The engine works
// without one; every cache failure degrades to a database read.
func (e *Engine) WithCache(c *cache.RedisCache) *Engine {
	e.cache = c
	return e
}

// Params returns the rating tuning in use.
func (e *Engine) Params() rating.Params {
	return e.params
}
