package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"legend-tracker/internal/config"

	"github.com/valyala/fasthttp"
)

const baseURL = "https://api.clashofclans.com/v1"

type ClashClient struct {
	token       string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo tracks what little the API reveals about throttling. The
// documented contract is only "429 happens"; Retry-After is best effort.
type RateLimitInfo struct {
	LastLimited time.Time `json:"last_limited"`
	RetryAfter  int       `json:"retry_after"` // seconds, 0 if unknown
	Total429s   int       `json:"total_429s"`
}

func NewClashClient(cfg *config.Config) *ClashClient {
	return &ClashClient{
		token: cfg.ClashAPIToken,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *ClashClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *ClashClient) recordRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	c.rateLimit.LastLimited = time.Now()
	c.rateLimit.Total429s++
	c.rateLimit.RetryAfter = 0
	if after := string(resp.Header.Peek("Retry-After")); after != "" {
		if val, err := strconv.Atoi(after); err == nil {
			c.rateLimit.RetryAfter = val
		}
	}
}

// GetPlayer fetches live player state. The tag is path-escaped, so the
// leading "#" becomes %23 as the API requires.
func (c *ClashClient) GetPlayer(ctx context.Context, tag string) (*Player, error) {
	reqURL := fmt.Sprintf("%s/players/%s", baseURL, url.PathEscape(tag))
	player, err := doRequest[Player](ctx, c, reqURL)
	if err != nil {
		return nil, err
	}
	if player.Tag == "" {
		return nil, fmt.Errorf("player response for %s: %w", tag, ErrMalformedResponse)
	}
	return player, nil
}

// GetClan fetches a clan with its current member list.
func (c *ClashClient) GetClan(ctx context.Context, tag string) (*Clan, error) {
	reqURL := fmt.Sprintf("%s/clans/%s", baseURL, url.PathEscape(tag))
	clan, err := doRequest[Clan](ctx, c, reqURL)
	if err != nil {
		return nil, err
	}
	if clan.Tag == "" {
		return nil, fmt.Errorf("clan response for %s: %w", tag, ErrMalformedResponse)
	}
	return clan, nil
}

func doRequest[T any](ctx context.Context, client *ClashClient, reqURL string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(reqURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+client.token)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusTooManyRequests:
		client.recordRateLimit(resp)
		return nil, ErrRateLimited
	case fasthttp.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &result, nil
}

type Player struct {
	Tag        string      `json:"tag"`
	Name       string      `json:"name"`
	Trophies   int         `json:"trophies"`
	AttackWins int         `json:"attackWins"`
	League     *League     `json:"league"`
	Clan       *PlayerClan `json:"clan"`
}

type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PlayerClan struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// LeagueID returns the league identifier, 0 when the player is unranked.
func (p *Player) LeagueID() int {
	if p.League == nil {
		return 0
	}
	return p.League.ID
}

// ClanTag returns the clan tag, empty when the player is clanless.
func (p *Player) ClanTag() string {
	if p.Clan == nil {
		return ""
	}
	return p.Clan.Tag
}

type Clan struct {
	Tag     string       `json:"tag"`
	Name    string       `json:"name"`
	Members []ClanMember `json:"memberList"`
}

type ClanMember struct {
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	Trophies int    `json:"trophies"`
}
