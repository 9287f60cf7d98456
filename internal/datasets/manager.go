package datasets

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediapulse/config"
	"mediapulse/internal/campaign"
)

// Handle pairs a loaded, normalized dataset with metadata for TTL eviction.
// The dataset itself is immutable; only the expiry is mutated under the lock.
type Handle struct {
	ID        string
	Path      string
	Data      *campaign.Dataset
	LoadedAt  time.Time
	ExpiresAt time.Time
	mu        sync.RWMutex
}

// DatasetGate coordinates capacity for loaded dataset handles (backed by
// runtime.Controller).
type DatasetGate interface {
	AcquireDataset(ctx context.Context) error
	ReleaseDataset()
}

// PathValidator abstracts filesystem path validation. Implementations return
// a canonical absolute path when allowed, or an error when denied.
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// ErrHandleNotFound indicates an unknown or expired dataset handle ID.
var ErrHandleNotFound = errors.New("datasets: handle not found")

// Manager owns the lifecycle of loaded datasets: open (parse + normalize),
// TTL-based eviction, and capacity gating.
type Manager struct {
	mu           sync.RWMutex
	handles      map[string]*Handle
	ttl          time.Duration
	cleanupEvery time.Duration
	maxBytes     int64
	clock        func() time.Time
	gate         DatasetGate
	validator    PathValidator
	stopCh       chan struct{}
	cleanupWG    sync.WaitGroup
}

// NewManager constructs a Manager. Pass ttl or cleanupEvery <= 0 to use
// defaults from config. Gate and clock may be nil (no gating, time.Now).
func NewManager(ttl, cleanupEvery time.Duration, gate DatasetGate, clock func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = config.DefaultDatasetIdleTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultDatasetCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		handles:      make(map[string]*Handle),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		maxBytes:     config.DefaultMaxDatasetBytes,
		clock:        clock,
		gate:         gate,
		stopCh:       make(chan struct{}),
	}
}

// WithValidator installs a path validator consulted on every Open.
func (m *Manager) WithValidator(v PathValidator) *Manager {
	m.validator = v
	return m
}

// Start launches periodic eviction of expired handles.
func (m *Manager) Start() {
	m.cleanupWG.Add(1)
	ticker := time.NewTicker(m.cleanupEvery)
	go func() {
		defer m.cleanupWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.EvictExpired()
			}
		}
	}()
}

// Close stops background cleanup and drops all handles.
func (m *Manager) Close(ctx context.Context) error {
	close(m.stopCh)
	done := make(chan struct{})
	go func() { m.cleanupWG.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.handles {
		delete(m.handles, id)
		if m.gate != nil {
			m.gate.ReleaseDataset()
		}
	}
	return nil
}

// Open validates the path, loads and normalizes the file, and registers a
// TTL-bearing handle, returning its ID and canonical path. Schema errors from
// normalization surface unchanged so callers can report the missing columns.
func (m *Manager) Open(ctx context.Context, path string) (string, string, error) {
	if err := m.acquire(ctx); err != nil {
		return "", "", err
	}

	canonical := path
	if m.validator != nil {
		p, err := m.validator.ValidateOpenPath(path)
		if err != nil {
			m.release()
			return "", "", err
		}
		canonical = p
	}

	ds, err := LoadFile(canonical, m.maxBytes)
	if err != nil {
		m.release()
		return "", "", err
	}

	id := uuid.NewString()
	now := m.clock()
	h := &Handle{
		ID:        id,
		Path:      canonical,
		Data:      ds,
		LoadedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.handles[id] = h
	m.mu.Unlock()

	return id, canonical, nil
}

// Adopt registers an already-built dataset under a fresh handle. Intended for
// tests and embedding callers.
func (m *Manager) Adopt(ctx context.Context, ds *campaign.Dataset) (string, error) {
	if ds == nil {
		return "", errors.New("datasets: nil dataset")
	}
	if err := m.acquire(ctx); err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := m.clock()
	m.mu.Lock()
	m.handles[id] = &Handle{ID: id, Data: ds, LoadedAt: now, ExpiresAt: now.Add(m.ttl)}
	m.mu.Unlock()
	return id, nil
}

// Get returns the dataset for a handle and refreshes its TTL (idle timeout
// semantics).
func (m *Manager) Get(id string) (*campaign.Dataset, bool) {
	m.mu.RLock()
	h, ok := m.handles[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := m.clock()
	h.mu.Lock()
	h.ExpiresAt = now.Add(m.ttl)
	h.mu.Unlock()
	return h.Data, true
}

// CloseHandle removes a handle by ID, releasing capacity via the gate.
func (m *Manager) CloseHandle(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.handles[id]
	if ok {
		delete(m.handles, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrHandleNotFound
	}
	m.release()
	return nil
}

// EvictExpired drops handles whose TTL has lapsed.
func (m *Manager) EvictExpired() {
	now := m.clock()
	var expired []string

	m.mu.RLock()
	for id, h := range m.handles {
		h.mu.RLock()
		if now.After(h.ExpiresAt) {
			expired = append(expired, id)
		}
		h.mu.RUnlock()
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.mu.Lock()
		delete(m.handles, id)
		m.mu.Unlock()
		m.release()
	}
}

// Count returns the current number of cached handles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

func (m *Manager) acquire(ctx context.Context) error {
	if m.gate == nil {
		return nil
	}
	return m.gate.AcquireDataset(ctx)
}

func (m *Manager) release() {
	if m.gate == nil {
		return
	}
	m.gate.ReleaseDataset()
}
