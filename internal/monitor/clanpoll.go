package monitor

import (
	"context"
	"errors"
	"time"

	"legend-tracker/internal/api"
	"legend-tracker/internal/constants"
	"legend-tracker/internal/domain"
	"legend-tracker/internal/observability"
	"legend-tracker/internal/storage"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ClanPoller enumerates tracked clans on a fixed interval and registers
// any roster member not yet tracked. Strictly additive: a player who
// leaves the clan stays tracked.
type ClanPoller struct {
	api       ClashAPI
	clans     storage.ClanStore
	snapshots storage.SnapshotStore
	metrics   *observability.Metrics
	logger    zerolog.Logger
	interval  time.Duration
}

func NewClanPoller(
	clash ClashAPI,
	clans storage.ClanStore,
	snapshots storage.SnapshotStore,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *ClanPoller {
	return &ClanPoller{
		api:       clash,
		clans:     clans,
		snapshots: snapshots,
		metrics:   metrics,
		logger:    logger,
		interval:  constants.ClanPollInterval,
	}
}

// Run polls once immediately, then on the fixed interval until ctx is
// cancelled.
func (p *ClanPoller) Run(ctx context.Context) {
	p.PollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce processes every tracked clan independently: one clan's failure
// is logged and skipped, never retried within the same pass.
func (p *ClanPoller) PollOnce(ctx context.Context) {
	start := time.Now()

	pollID, err := gonanoid.New()
	if err != nil {
		pollID = "unknown"
	}
	log := p.logger.With().Str("poll_id", pollID).Logger()

	clanTags, err := p.clans.ListTags(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tracked clans")
		return
	}

	discovered := 0
	for _, clanTag := range clanTags {
		n, err := p.pollClan(ctx, log, clanTag)
		if err != nil {
			p.metrics.ClanPollFailures.Inc()
			if errors.Is(err, api.ErrRateLimited) {
				log.Debug().Str("clan_tag", clanTag).Msg("clan fetch rate limited, skipping")
			} else {
				log.Warn().Err(err).Str("clan_tag", clanTag).Msg("clan fetch failed, skipping")
			}
			continue
		}
		discovered += n
	}

	p.metrics.ClanPollDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Int("clans", len(clanTags)).
		Int("new_players", discovered).
		Dur("duration", time.Since(start)).
		Msg("clan poll completed")
}

func (p *ClanPoller) pollClan(ctx context.Context, log zerolog.Logger, clanTag string) (int, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	clan, err := p.api.GetClan(apiCtx, clanTag)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, member := range clan.Members {
		tag := domain.NormalizeTag(member.Tag)
		if tag == "" {
			continue
		}
		ok, err := p.snapshots.Register(ctx, tag, member.Name, clan.Tag, member.Trophies)
		if err != nil {
			log.Warn().Err(err).Str("player_tag", tag).Msg("failed to register player")
			continue
		}
		if ok {
			created++
			p.metrics.PlayersDiscovered.Inc()
			log.Debug().
				Str("player_tag", tag).
				Str("player_name", member.Name).
				Str("clan_tag", clan.Tag).
				Msg("new player tracked")
		}
	}
	return created, nil
}
