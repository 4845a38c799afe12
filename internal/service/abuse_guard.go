package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lgardea/tax-intake-service/pkg/database"
)

// IPBlocklist bans abusive source addresses for a while
type IPBlocklist interface {
	Ban(ctx context.Context, ip string, ttl time.Duration) error
	IsBanned(ctx context.Context, ip string) (bool, error)
}

// AbuseGuard keeps a Redis blocklist of IPs that tripped the contact-form
// honeypot
type AbuseGuard struct {
	redis *database.Redis
}

var _ IPBlocklist = &AbuseGuard{}

// NewAbuseGuard creates a new abuse guard
func NewAbuseGuard(redis *database.Redis) *AbuseGuard {
	return &AbuseGuard{redis: redis}
}

// Ban adds an IP to the blocklist for the given TTL
func (g *AbuseGuard) Ban(ctx context.Context, ip string, ttl time.Duration) error {
	key := fmt.Sprintf("abuse:ip:%s", ip)
	err := g.redis.Client.Set(ctx, key, "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to ban ip: %w", err)
	}
	return nil
}

// IsBanned checks whether an IP is currently blocklisted
func (g *AbuseGuard) IsBanned(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("abuse:ip:%s", ip)
	exists, err := g.redis.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check ip blocklist: %w", err)
	}
	return exists > 0, nil
}
