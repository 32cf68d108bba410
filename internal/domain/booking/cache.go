package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const availabilityTTL = 5 * time.Minute

// AvailabilityCache caches a venue day's bookings in redis. A nil
// *AvailabilityCache is safe to use and behaves as a permanent miss,
// so the service runs unchanged when redis is not configured.
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	if client == nil {
		return nil
	}
	return &AvailabilityCache{client: client}
}

func dayKey(venueID uuid.UUID, date string) string {
	return fmt.Sprintf("availability:%s:%s", venueID, date)
}

type cachedDay struct {
	Bookings      []*Booking `json:"bookings"`
	BufferMinutes int        `json:"buffer_minutes"`
}

// GetDay returns the cached bookings for a venue day, or ok=false on a
// miss.
func (c *AvailabilityCache) GetDay(ctx context.Context, venueID uuid.UUID, date string) ([]*Booking, int, bool) {
	if c == nil {
		return nil, 0, false
	}
	raw, err := c.client.Get(ctx, dayKey(venueID, date)).Bytes()
	if err != nil {
		return nil, 0, false
	}
	var day cachedDay
	if err := json.Unmarshal(raw, &day); err != nil {
		return nil, 0, false
	}
	return day.Bookings, day.BufferMinutes, true
}

// SetDay stores the bookings for a venue day.
func (c *AvailabilityCache) SetDay(ctx context.Context, venueID uuid.UUID, date string, bookings []*Booking, bufferMinutes int) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(cachedDay{Bookings: bookings, BufferMinutes: bufferMinutes})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dayKey(venueID, date), raw, availabilityTTL).Err()
}

// Invalidate drops the cached day after any booking mutation.
func (c *AvailabilityCache) Invalidate(ctx context.Context, venueID uuid.UUID, date string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, dayKey(venueID, date)).Err()
}
