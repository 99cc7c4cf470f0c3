package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/logging"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed holder can keep a distributed lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates workspace access. It uses reference counting to garbage
// collect unused locks.
type Manager struct {
	store ports.DocumentStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by workspace id

	locker  ports.DistributedLocker // optional
	lockTTL time.Duration
	wsOpts  []heddle.Option
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks (default DefaultLockTTL).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithWorkspaceOptions sets the options every opened or created workspace gets,
// e.g. a registry or lifecycle hooks.
func WithWorkspaceOptions(opts ...heddle.Option) Option {
	return func(m *Manager) {
		m.wsOpts = append(m.wsOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry when it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) workspaceOptions(id string) []heddle.Option {
	opts := append([]heddle.Option{heddle.WithLogger(m.logger)}, m.wsOpts...)
	return append(opts, heddle.WithID(id))
}

func (m *Manager) load(ctx context.Context, id string) (*heddle.Workspace, error) {
	doc, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	ws, err := document.Import(ctx, doc, m.workspaceOptions(id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore workspace %s: %w", id, err)
	}
	return ws, nil
}

// Create starts an empty workspace with a fresh id and persists it.
func (m *Manager) Create(ctx context.Context) (*heddle.Workspace, error) {
	ws := heddle.New(m.workspaceOptions(uuid.NewString())...)
	if err := m.Save(ctx, ws); err != nil {
		return nil, err
	}
	m.logger.Info("workspace created", "workspace", ws.ID())
	return ws, nil
}

// Open restores a stored workspace and recomputes its generated drafts.
// Returns domain.ErrWorkspaceNotFound if id is unknown.
func (m *Manager) Open(ctx context.Context, id string) (*heddle.Workspace, error) {
	var ws *heddle.Workspace
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		ws, err = m.load(ctx, id)
		return err
	})
	return ws, err
}

// OpenOrCreate restores id, or creates and persists an empty workspace under it.
func (m *Manager) OpenOrCreate(ctx context.Context, id string) (*heddle.Workspace, error) {
	var ws *heddle.Workspace
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		ws, err = m.load(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrWorkspaceNotFound) {
			return fmt.Errorf("failed to check workspace existence: %w", err)
		}

		ws = heddle.New(m.workspaceOptions(id)...)
		if err := m.store.Save(ctx, id, document.Export(ws)); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}
		return nil
	})
	return ws, err
}

// Save persists the workspace under its own id.
func (m *Manager) Save(ctx context.Context, ws *heddle.Workspace) error {
	return m.WithLock(ctx, ws.ID(), func(ctx context.Context) error {
		return m.store.Save(ctx, ws.ID(), document.Export(ws))
	})
}

// Update loads id, applies fn and saves the result, all under the workspace lock.
// Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, id string, fn func(ctx context.Context, ws *heddle.Workspace) error) (*heddle.Workspace, error) {
	var ws *heddle.Workspace
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		if ws, err = m.load(ctx, id); err != nil {
			return err
		}
		if err := fn(ctx, ws); err != nil {
			return err
		}
		return m.store.Save(ctx, id, document.Export(ws))
	})
	return ws, err
}

// Delete removes the workspace from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// WithLock executes fn while holding the lock for id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"workspace", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
