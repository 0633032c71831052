package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	type row struct {
		ID    string  `json:"id"`
		Miles float64 `json:"miles"`
	}
	in := []row{{ID: "a", Miles: 1.25}, {ID: "b", Miles: 3.7}}

	key := client.GeoQueryKey(30.2672, -97.7431, 10)
	if err := client.SetJSON(ctx, key, in, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var out []row
	if err := client.GetJSON(ctx, key, &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].Miles != 3.7 {
		t.Fatalf("unexpected payload %+v", out)
	}
}

func TestGetJSONMiss(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	var out map[string]string
	if err := client.GetJSON(ctx, "cc:geo:missing", &out); err != redis.Nil {
		t.Fatalf("expected redis.Nil on miss, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.GeoQueryKey(30.26721, -97.74312, 10); got != "cc:geo:30.2672:-97.7431:10.0" {
		t.Fatalf("unexpected geo key %s", got)
	}
	if got := client.StoreDetailKey("store-1"); got != "cc:store:store-1" {
		t.Fatalf("unexpected store key %s", got)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
