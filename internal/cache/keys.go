package cache

import (
	"fmt"
	"time"
)

// RateLimitWindow is the length of one fixed rate-limit window.
const RateLimitWindow = time.Minute

// RateLimitKey generates the Redis key counting a client's requests in the
// window that starts at windowStart.
func RateLimitKey(clientIP string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:ip:%s:%d", clientIP, windowStart.Unix())
}
