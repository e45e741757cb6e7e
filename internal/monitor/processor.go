package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legend-tracker/internal/cache"
	"legend-tracker/internal/constants"
	"legend-tracker/internal/domain"
	"legend-tracker/internal/observability"
	"legend-tracker/internal/storage"

	"github.com/rs/zerolog"
)

// Processor runs the per-player evaluation: fetch live state, diff against
// the last snapshot, append a trophy event on a legend-league change, and
// unconditionally refresh snapshot and cache.
type Processor struct {
	api       ClashAPI
	cache     cache.TrophyCache
	snapshots storage.SnapshotStore
	events    storage.EventStore
	metrics   *observability.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewProcessor(
	clash ClashAPI,
	trophyCache cache.TrophyCache,
	snapshots storage.SnapshotStore,
	events storage.EventStore,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		api:       clash,
		cache:     trophyCache,
		snapshots: snapshots,
		events:    events,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// EvalResult is the per-item success metadata.
type EvalResult struct {
	LegendLeague bool
	Changed      bool
}

func (p *Processor) EvaluatePlayer(ctx context.Context, rawTag string) (EvalResult, error) {
	start := time.Now()

	player, err := p.api.GetPlayer(ctx, rawTag)
	if err != nil {
		p.metrics.EvaluationsTotal.WithLabelValues("failed").Inc()
		return EvalResult{}, fmt.Errorf("fetch player %s: %w", rawTag, err)
	}

	tag := domain.NormalizeTag(player.Tag)
	isLegend := player.LeagueID() == domain.LegendLeagueID

	prior, found, err := p.lookupPrior(ctx, tag)
	if err != nil {
		p.metrics.EvaluationsTotal.WithLabelValues("failed").Inc()
		return EvalResult{}, fmt.Errorf("read prior state for %s: %w", tag, err)
	}

	res := EvalResult{LegendLeague: isLegend}
	if isLegend && found && player.Trophies != prior {
		diff := player.Trophies - prior
		if typ, ok := domain.Classify(diff); ok {
			res.Changed = true
			// The timestamp identifies the fan-out slot, not the
			// processing instant. A retried delivery of the same
			// observation stamps the same slot and collides on the
			// dedup index instead of landing as a second row.
			event := &domain.TrophyEvent{
				PlayerTag:      tag,
				PlayerName:     player.Name,
				ClanTag:        player.ClanTag(),
				Type:           typ,
				Diff:           diff,
				TrophiesResult: player.Trophies,
				Timestamp:      p.now().UTC().Truncate(constants.FanOutTickInterval),
			}
			err := p.events.Append(ctx, event)
			switch {
			case errors.Is(err, storage.ErrDuplicateKey):
				// Redelivered observation; the first delivery won.
				p.logger.Debug().Str("player_tag", tag).Msg("duplicate trophy event absorbed")
			case err != nil:
				p.metrics.EvaluationsTotal.WithLabelValues("failed").Inc()
				return EvalResult{}, fmt.Errorf("append trophy event: %w", err)
			default:
				p.metrics.TrophyEventsTotal.WithLabelValues(string(typ)).Inc()
				p.logger.Info().
					Str("player_tag", tag).
					Str("player_name", player.Name).
					Str("type", string(typ)).
					Int("diff", diff).
					Int("trophies", player.Trophies).
					Msg("trophy event recorded")
			}
		}
	}

	// Regardless of league or diff, the snapshot tracks the latest state;
	// the cache is refreshed write-through and allowed to fail.
	err = p.snapshots.Upsert(ctx, &domain.PlayerSnapshot{
		PlayerTag:      tag,
		PlayerName:     player.Name,
		LastTrophies:   player.Trophies,
		LastAttackWins: player.AttackWins,
		UpdatedAt:      p.now().UTC(),
	})
	if err != nil {
		p.metrics.EvaluationsTotal.WithLabelValues("failed").Inc()
		return EvalResult{}, fmt.Errorf("upsert snapshot: %w", err)
	}
	p.cache.SetTrophies(ctx, tag, player.Trophies)

	p.metrics.EvaluateDuration.Observe(time.Since(start).Seconds())
	switch {
	case !found:
		p.metrics.EvaluationsTotal.WithLabelValues("first").Inc()
	case res.Changed:
		p.metrics.EvaluationsTotal.WithLabelValues("changed").Inc()
	default:
		p.metrics.EvaluationsTotal.WithLabelValues("unchanged").Inc()
	}
	return res, nil
}

// lookupPrior is the cache-aside read: cache first, snapshot store on
// miss. Cache absence is never treated as "no prior state"; only a
// missing snapshot row means first observation. A store-tier error is a
// real failure, not a miss.
func (p *Processor) lookupPrior(ctx context.Context, tag string) (int, bool, error) {
	if trophies, hit := p.cache.GetTrophies(ctx, tag); hit {
		p.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return trophies, true, nil
	}
	p.metrics.CacheLookups.WithLabelValues("miss").Inc()

	snap, err := p.snapshots.Get(ctx, tag)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return snap.LastTrophies, true, nil
}
