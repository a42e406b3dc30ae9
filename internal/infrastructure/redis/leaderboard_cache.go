package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"habit-sync/internal/leaderboard"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps ranked weekly results in Redis: a sorted set
// orders users by percentage and a hash holds the serialized rows.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

// rankKey generates the sorted-set key for a week
func (c *LeaderboardCache) rankKey(weekID string) string {
	return fmt.Sprintf("leaderboard:%s:rank", weekID)
}

// dataKey generates the hash key holding serialized entries for a week
func (c *LeaderboardCache) dataKey(weekID string) string {
	return fmt.Sprintf("leaderboard:%s:data", weekID)
}

// SetWeek replaces the cached board for a week
func (c *LeaderboardCache) SetWeek(ctx context.Context, weekID string, entries []*leaderboard.Entry) error {
	rankKey := c.rankKey(weekID)
	dataKey := c.dataKey(weekID)

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, rankKey, dataKey)

	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal leaderboard entry: %w", err)
		}
		pipe.ZAdd(ctx, rankKey, redis.Z{Score: float64(entry.Percentage), Member: entry.UserID})
		pipe.HSet(ctx, dataKey, entry.UserID, data)
	}

	pipe.Expire(ctx, rankKey, c.ttl)
	pipe.Expire(ctx, dataKey, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}
	return nil
}

// GetWeek returns the cached board for a week, or nil on a miss
func (c *LeaderboardCache) GetWeek(ctx context.Context, weekID string) ([]*leaderboard.Entry, error) {
	userIDs, err := c.client.ZRevRange(ctx, c.rankKey(weekID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard ranking: %w", err)
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := c.client.HGetAll(ctx, c.dataKey(weekID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard entries: %w", err)
	}

	entries := make([]*leaderboard.Entry, 0, len(userIDs))
	for i, userID := range userIDs {
		raw, ok := rows[userID]
		if !ok {
			continue
		}
		var entry leaderboard.Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal leaderboard entry: %w", err)
		}
		// Ranks follow the sorted-set order, not the stored snapshot
		entry.Rank = i + 1
		entries = append(entries, &entry)
	}

	return entries, nil
}
