package artifacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultMaxBytes = 256 << 20

var ErrTooLarge = errors.New("artifact exceeds store capacity")

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps artifacts in process memory. Once the stored bytes would
// exceed maxBytes the entries closest to expiry are dropped first.
type MemoryStore struct {
	ttl       time.Duration
	maxBytes  int64
	usedBytes int64
	now       func() time.Time
	entries   map[string]memoryEntry
	mu        sync.Mutex
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		maxBytes: DefaultMaxBytes,
		now:      time.Now,
		entries:  make(map[string]memoryEntry),
	}
}

// WithMaxBytes caps the total size of stored artifacts.
func (m *MemoryStore) WithMaxBytes(maxBytes int64) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	if maxBytes > 0 {
		m.maxBytes = maxBytes
	}
	return m
}

func (m *MemoryStore) Put(_ context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := int64(len(data))
	if size > m.maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, size, m.maxBytes)
	}

	m.evictExpired()
	m.remove(id)
	for m.usedBytes+size > m.maxBytes {
		m.evictOldest()
	}

	m.entries[id] = memoryEntry{
		data:      append([]byte(nil), data...),
		expiresAt: m.now().Add(m.ttl),
	}
	m.usedBytes += size
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(entry.expiresAt) {
		m.remove(id)
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.data...), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Name() string { return "memory" }

// caller holds mu
func (m *MemoryStore) remove(id string) {
	if entry, ok := m.entries[id]; ok {
		m.usedBytes -= int64(len(entry.data))
		delete(m.entries, id)
	}
}

// caller holds mu
func (m *MemoryStore) evictExpired() {
	now := m.now()
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			m.remove(id)
		}
	}
}

// caller holds mu
func (m *MemoryStore) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, entry := range m.entries {
		if oldestID == "" || entry.expiresAt.Before(oldest) {
			oldestID, oldest = id, entry.expiresAt
		}
	}
	if oldestID == "" {
		return
	}

	slog.Warn("[MemoryStore] Capacity reached, dropping oldest artifact",
		slog.String("batch_id", oldestID),
		slog.Int64("max_bytes", m.maxBytes))
	m.remove(oldestID)
}
