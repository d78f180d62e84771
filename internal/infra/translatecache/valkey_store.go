package translatecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/translate"
)

// ValkeyStore shares translations across instances using a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "translate"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (chat.Response, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return chat.Response{}, false, nil
		}
		return chat.Response{}, false, err
	}
	var record chat.Response
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return chat.Response{}, false, err
	}
	return record, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, value chat.Response) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// entryKey hashes the source text so arbitrary replies make safe, bounded keys.
func (s *ValkeyStore) entryKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:entry:%s", s.prefix, hex.EncodeToString(sum[:]))
}

var _ translate.Cache = (*ValkeyStore)(nil)
