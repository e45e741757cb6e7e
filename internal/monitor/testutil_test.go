package monitor

import (
	"context"
	"sync"

	"legend-tracker/internal/api"
	"legend-tracker/internal/observability"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// stubAPI is an in-memory ClashAPI for tests.
type stubAPI struct {
	mu        sync.Mutex
	players   map[string]*api.Player
	clans     map[string]*api.Clan
	playerErr map[string]error
	clanErr   map[string]error
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		players:   make(map[string]*api.Player),
		clans:     make(map[string]*api.Clan),
		playerErr: make(map[string]error),
		clanErr:   make(map[string]error),
	}
}

func (s *stubAPI) GetPlayer(_ context.Context, tag string) (*api.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.playerErr[tag]; ok {
		return nil, err
	}
	if p, ok := s.players[tag]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, api.ErrNotFound
}

func (s *stubAPI) GetClan(_ context.Context, tag string) (*api.Clan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.clanErr[tag]; ok {
		return nil, err
	}
	if c, ok := s.clans[tag]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, api.ErrNotFound
}

func (s *stubAPI) setPlayer(p *api.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.Tag] = p
}

func (s *stubAPI) setClan(c *api.Clan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clans[c.Tag] = c
}

// brokenCache always misses and drops writes, simulating an unavailable
// cache engine.
type brokenCache struct{}

func (brokenCache) GetTrophies(context.Context, string) (int, bool) { return 0, false }
func (brokenCache) SetTrophies(context.Context, string, int)        {}

func testMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.NewRegistry())
}

func legendPlayer(tag, name string, trophies, attackWins int) *api.Player {
	return &api.Player{
		Tag:        tag,
		Name:       name,
		Trophies:   trophies,
		AttackWins: attackWins,
		League:     &api.League{ID: 29000022, Name: "Legend League"},
	}
}

var testLogger = zerolog.Nop()
