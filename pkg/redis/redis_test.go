package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/minou2442/clinic/config"
)

func TestOptions(t *testing.T) {
	if _, err := Options(config.RedisConfig{}); !errors.Is(err, ErrNoAddr) {
		t.Fatalf("Options() error = %v, want ErrNoAddr", err)
	}

	opts, err := Options(config.RedisConfig{Addr: "cache:6379", DB: 2, ReadTimeoutSeconds: 7, PoolSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	if opts.DB != 2 || opts.PoolSize != 4 || opts.MinIdleConns != defaultMinIdleConns {
		t.Errorf("unexpected pool options %+v", opts)
	}
	if opts.ReadTimeout != 7*time.Second || opts.WriteTimeout != defaultIOTimeout || opts.DialTimeout != defaultDialTimeout {
		t.Errorf("unexpected timeouts read=%v write=%v dial=%v", opts.ReadTimeout, opts.WriteTimeout, opts.DialTimeout)
	}
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := New(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer rdb.Close()

	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatal(err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("value = %q", got)
	}
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := New(context.Background(), config.RedisConfig{Addr: addr, DialTimeoutSeconds: 1}); err == nil {
		t.Error("expected ping failure")
	}
}
