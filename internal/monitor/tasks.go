package monitor

import (
	"context"
	"fmt"
	"time"

	"legend-tracker/internal/api"
	"legend-tracker/internal/constants"
)

const (
	TaskTypeTick     = "monitor:tick"
	TaskTypeEvaluate = "monitor:evaluate"
)

// EvaluatePayload is the body of one per-player work item.
type EvaluatePayload struct {
	PlayerTag string `json:"player_tag"`
}

// ClashAPI is the slice of the external API this subsystem consumes.
type ClashAPI interface {
	GetPlayer(ctx context.Context, tag string) (*api.Player, error)
	GetClan(ctx context.Context, tag string) (*api.Clan, error)
}

func tickSlot(t time.Time) int64 {
	return t.Unix() / int64(constants.FanOutTickInterval/time.Second)
}

// TickTaskID is the deterministic trigger identifier for the 2-minute slot
// containing t. Determinism makes trigger creation idempotent across
// instances: concurrent creators collide on the same ID and the engine
// rejects all but one.
func TickTaskID(t time.Time) string {
	return fmt.Sprintf("%s:%d", TaskTypeTick, tickSlot(t))
}

// EvaluateTaskID dedups per-player work within one fan-out slot.
func EvaluateTaskID(playerTag string, t time.Time) string {
	return fmt.Sprintf("%s:%s:%d", TaskTypeEvaluate, playerTag, tickSlot(t))
}
