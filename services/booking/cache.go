package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonbook/models"
)

// Busy-slot snapshots change rarely relative to how often the public calendar
// polls them; a short TTL plus explicit invalidation keeps the cache honest
// without it ever being load-bearing for correctness.
const busyTTL = 30 * time.Second

func busyKey(date models.Date, publicOnly bool) string {
	scope := "all"
	if publicOnly {
		scope = "public"
	}
	return fmt.Sprintf("busy:%s:%s", date, scope)
}

func (s *DefaultBookingService) cachedBusy(ctx context.Context, date models.Date, publicOnly bool) ([]string, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, busyKey(date, publicOnly)).Result()
	if err != nil {
		return nil, false
	}
	var busy []string
	if err := json.Unmarshal([]byte(raw), &busy); err != nil {
		return nil, false
	}
	return busy, true
}

func (s *DefaultBookingService) storeBusy(ctx context.Context, date models.Date, publicOnly bool, busy []string) {
	if s.Cache == nil {
		return
	}
	if raw, err := json.Marshal(busy); err == nil {
		s.Cache.Set(ctx, busyKey(date, publicOnly), raw, busyTTL)
	}
}

func (s *DefaultBookingService) invalidateBusy(ctx context.Context, date models.Date) {
	if s.Cache == nil {
		return
	}
	s.Cache.Del(ctx, busyKey(date, false), busyKey(date, true))
}
