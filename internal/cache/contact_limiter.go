// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// contactKeyPrefix namespaces contact-form counters in Valkey.
	contactKeyPrefix = "contact:"

	// DefaultContactLimit is the number of submissions allowed per
	// sender email within the window.
	DefaultContactLimit = 3

	// DefaultContactWindow is the sliding window for contact submissions.
	DefaultContactWindow = time.Hour
)

// ContactLimiter counts contact-form submissions per sender email in
// Valkey so the limit holds across server instances.
type ContactLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewContactLimiter creates a limiter allowing limit submissions per window.
func NewContactLimiter(client *redis.Client, limit int, window time.Duration) *ContactLimiter {
	return &ContactLimiter{client: client, limit: limit, window: window}
}

// Allow records one submission attempt for the given email and reports
// whether it is within the limit. The counter's TTL starts on the first
// submission of the window.
func (l *ContactLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := contactKeyPrefix + strings.ToLower(strings.TrimSpace(email))

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("contact limiter incr: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("contact limiter expire: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}
