package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/reviewsense/config"
	"github.com/spacesedan/reviewsense/internal/artifacts"
	"github.com/valkey-io/valkey-go"
)

const VALKEY_RESULTS_PREFIX = "reviewsense:results:"

// ValkeyClient stores batch downloads under an expiring key.
type ValkeyClient struct {
	Client valkey.Client
	cfg    config.ValkeyConfig
	ttl    time.Duration
	mu     sync.Mutex
}

func NewValkeyClient(cfg config.ValkeyConfig, ttl time.Duration) (*ValkeyClient, error) {
	if ttl <= 0 {
		ttl = artifacts.DefaultTTL
	}

	client, err := connectValkey(cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeyClient{Client: client, cfg: cfg, ttl: ttl}, nil
}

func connectValkey(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Valkey client recreated")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

func (vc *ValkeyClient) Name() string { return "valkey" }

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	c := vc.client()
	return c.Do(ctx, c.B().Ping().Build()).Error()
}

func (vc *ValkeyClient) Put(ctx context.Context, id string, data []byte) error {
	c := vc.client()
	cmd := c.B().Set().Key(resultKey(id)).Value(valkey.BinaryString(data)).ExSeconds(int64(vc.ttl.Seconds())).Build().Pin()

	if err := vc.DoWithRetry(ctx, cmd, 3).Error(); err != nil {
		return fmt.Errorf("[ValkeyClient] failed to store results %s: %w", id, err)
	}

	slog.Info("[ValkeyClient] Stored batch results",
		slog.String("batch_id", id),
		slog.Int("bytes", len(data)))
	return nil
}

func (vc *ValkeyClient) Get(ctx context.Context, id string) ([]byte, error) {
	c := vc.client()
	res := vc.DoWithRetry(ctx, c.B().Get().Key(resultKey(id)).Build().Pin(), 3)

	data, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, artifacts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to fetch results %s: %w", id, err)
	}
	return data, nil
}

// DoWithRetry retries transport failures. A nil reply is a valid answer.
// Commands passed in must be pinned since they may be sent more than once.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.client().Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		if isConnectionError(err) {
			vc.recreateClient()
		}
		if ctx.Err() != nil {
			break
		}
		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func resultKey(id string) string {
	return VALKEY_RESULTS_PREFIX + id
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
