package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PlayerChangesChannel is the NOTIFY channel fired on player updates and
// deletes.
const PlayerChangesChannel = "player_changes"

// PlayerWorker listens for player_changes notifications and evicts the
// changed players from the cache, so every instance sees writes made by the
// others. Evictions are batched per window.
type PlayerWorker struct {
	pool   *pgxpool.Pool
	cache  *CacheService
	window time.Duration
	log    zerolog.Logger

	mu      sync.Mutex
	pending map[int64]struct{}
}

func NewPlayerWorker(pool *pgxpool.Pool, cache *CacheService, log zerolog.Logger) *PlayerWorker {
	return &PlayerWorker{
		pool:    pool,
		cache:   cache,
		window:  time.Second,
		log:     log,
		pending: make(map[int64]struct{}),
	}
}

// Start listens until ctx is cancelled, reconnecting after errors.
func (w *PlayerWorker) Start(ctx context.Context) {
	w.log.Info().Dur("window", w.window).Msg("player-worker: starting")

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				w.log.Info().Msg("player-worker: stopping")
				return
			}
			w.log.Warn().Err(err).Msg("player-worker: listen error, reconnecting in 5s")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				w.log.Info().Msg("player-worker: stopping")
				return
			}
		}
	}
}

func (w *PlayerWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+PlayerChangesChannel); err != nil {
		return err
	}
	w.log.Info().Str("channel", PlayerChangesChannel).Msg("player-worker: listening")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		w.enqueue(n.Payload)
	}
}

// enqueue records a player id payload. Malformed payloads are ignored.
func (w *PlayerWorker) enqueue(payload string) {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || id <= 0 {
		return
	}
	w.mu.Lock()
	w.pending[id] = struct{}{}
	w.mu.Unlock()
}

func (w *PlayerWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and evicts each player.
func (w *PlayerWorker) flush(ctx context.Context) int {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return 0
	}
	batch := w.pending
	w.pending = make(map[int64]struct{})
	w.mu.Unlock()

	evicted := 0
	for id := range batch {
		if err := w.cache.InvalidatePlayer(ctx, id); err != nil {
			w.log.Warn().Err(err).Int64("player_id", id).Msg("player-worker: invalidate error")
			continue
		}
		evicted++
	}
	w.log.Debug().Int("evicted", evicted).Int("notifications", len(batch)).Msg("player-worker: batch complete")
	return evicted
}
