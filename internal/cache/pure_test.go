package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPKey(t *testing.T) {
	t.Parallel()

	key := ipKey("192.168.1.100")

	assert.Equal(t, key, ipKey("192.168.1.100"))
	assert.True(t, strings.HasPrefix(key, rateLimitIPPrefix))
	assert.Len(t, strings.TrimPrefix(key, rateLimitIPPrefix), 16)
	assert.NotContains(t, key, "192.168")

	for _, pair := range [][2]string{
		{"192.168.1.1", "192.168.1.2"},
		{"127.0.0.1", "::1"},
		{"8.8.8.8", ""},
	} {
		assert.NotEqual(t, ipKey(pair[0]), ipKey(pair[1]), pair)
	}
}

func TestBucketTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate, burst int
		want        time.Duration
	}{
		{rate: 5, burst: 10, want: 3 * time.Second},
		{rate: 1, burst: 1, want: 2 * time.Second},
		{rate: 3, burst: 1, want: 334*time.Millisecond + time.Second},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, bucketTTL(test.rate, test.burst), "rate=%d burst=%d", test.rate, test.burst)
	}
}
