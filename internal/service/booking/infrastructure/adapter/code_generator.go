package adapter

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"travelbooking/internal/pkg/redis"
)

const (
	codePrefix     = "BK"
	codeTimeLayout = "20060102150405"
	codeSeqModulo  = 10000

	bookingCodeScriptName = "booking_code_seq"
)

func formatCode(now time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", codePrefix, now.UTC().Format(codeTimeLayout), seq%codeSeqModulo)
}

// RedisCodeGenerator draws the per-second sequence from redis so codes stay
// unique across replicas.
type RedisCodeGenerator struct {
	redisClient *redis.Client
	now         func() time.Time
}

func NewRedisCodeGenerator(redisClient *redis.Client) (*RedisCodeGenerator, error) {
	if err := redisClient.LoadScriptFromContent(bookingCodeScriptName, bookingCodeScript); err != nil {
		return nil, errors.Wrap(err, "load booking code script")
	}
	return &RedisCodeGenerator{redisClient: redisClient, now: time.Now}, nil
}

func (g *RedisCodeGenerator) NextCode(ctx context.Context) (string, error) {
	now := g.now()
	key := "booking:code:seq:{" + now.UTC().Format(codeTimeLayout) + "}"

	result, err := g.redisClient.RunScript(ctx, bookingCodeScriptName, []string{key}, 2)
	if err != nil {
		return "", errors.Wrap(err, "run booking code script")
	}
	seq, ok := result.(int64)
	if !ok {
		return "", errors.Errorf("unexpected result type from booking code script: %T", result)
	}
	return formatCode(now, seq), nil
}

// TimeCodeGenerator is the single-process fallback.
type TimeCodeGenerator struct {
	seq atomic.Int64
	now func() time.Time
}

func NewTimeCodeGenerator() *TimeCodeGenerator {
	return &TimeCodeGenerator{now: time.Now}
}

func (g *TimeCodeGenerator) NextCode(context.Context) (string, error) {
	return formatCode(g.now(), g.seq.Add(1)), nil
}

// KEYS[1]: per-second sequence key
// ARGV[1]: ttl in seconds, set when the key is first created
var bookingCodeScript = `
local seq = redis.call('incr', KEYS[1])
if seq == 1 then
    redis.call('expire', KEYS[1], ARGV[1])
end
return seq
`
