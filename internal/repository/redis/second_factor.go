package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alexfer060900/seguridadInformacion/internal/core/port"
)

// claimScript deletes the stored code only when it matches the presented one,
// so exactly one concurrent caller can consume it.
var claimScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// SecondFactorStore keeps issued second-factor codes in Redis. Codes carry no
// TTL; they live until claimed or replaced by a newer login.
type SecondFactorStore struct {
	client *redis.Client
	prefix string
}

// NewSecondFactorStore constructs a store using the provided client and key
// prefix.
func NewSecondFactorStore(client *redis.Client, prefix string) *SecondFactorStore {
	if prefix == "" {
		prefix = "auth:2fa"
	}
	return &SecondFactorStore{client: client, prefix: prefix}
}

// Issue stores the code for a credential, replacing any previous one.
func (s *SecondFactorStore) Issue(ctx context.Context, credentialID, code string) error {
	if err := s.client.Set(ctx, s.key(credentialID), code, 0).Err(); err != nil {
		return fmt.Errorf("redis set second factor: %w", err)
	}
	return nil
}

// Claim atomically consumes the code when it matches.
func (s *SecondFactorStore) Claim(ctx context.Context, credentialID, code string) (bool, error) {
	res, err := claimScript.Run(ctx, s.client, []string{s.key(credentialID)}, code).Int64()
	if err != nil {
		return false, fmt.Errorf("redis claim second factor: %w", err)
	}
	return res == 1, nil
}

func (s *SecondFactorStore) key(credentialID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, credentialID)
}

var _ port.SecondFactorStore = (*SecondFactorStore)(nil)
