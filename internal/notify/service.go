// Package notify keeps per-user notification snapshots fresh through two
// redundant paths: hub invalidation signals published after every mutation,
// and a fixed-interval background poll. Both paths funnel into the same
// wholesale refresh, so whichever completes last wins; there is no ordering
// guarantee between them and none is needed.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
	"go.uber.org/zap"

	"github.com/trendmart/storefront/internal/models"
)

const (
	DefaultPollInterval = 30 * time.Second
	recentLimit         = 10
	refreshTimeout      = 10 * time.Second
)

type Repo interface {
	Insert(ctx context.Context, n *models.Notification) (int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, id int64) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, id int64) error
}

// Snapshot is the cached view backing the header bell and menu: the most
// recent notifications plus the unread count.
type Snapshot struct {
	Recent      []models.Notification `json:"recent"`
	UnreadCount int                   `json:"unread_count"`
	RefreshedAt time.Time             `json:"refreshed_at"`
}

type Service struct {
	repo     Repo
	hub      *Hub
	clock    clock.Clock
	log      *zap.Logger
	interval time.Duration

	mu        sync.RWMutex
	snapshots map[string]Snapshot

	quit    chan struct{}
	wg      sync.WaitGroup
	unsub   func()
	started bool
}

func NewService(repo Repo, hub *Hub, clk clock.Clock, log *zap.Logger, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Service{
		repo:      repo,
		hub:       hub,
		clock:     clk,
		log:       log,
		interval:  interval,
		snapshots: make(map[string]Snapshot),
		quit:      make(chan struct{}),
	}
}

// Start subscribes to the hub and launches the poll loop.
func (s *Service) Start() {
	if s.started {
		return
	}
	s.started = true

	s.unsub = s.hub.OnChange(func(userID string) {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := s.Refresh(ctx, userID); err != nil {
			s.log.Warn("refresh after invalidation failed",
				zap.String("userId", userID), zap.Error(err))
		}
	})

	s.wg.Add(1)
	go s.pollLoop()
}

// Stop unsubscribes from the hub and waits for the poll loop to exit.
func (s *Service) Stop() {
	if !s.started {
		return
	}
	if s.unsub != nil {
		s.unsub()
	}
	close(s.quit)
	s.wg.Wait()
}

func (s *Service) pollLoop() {
	defer s.wg.Done()
	timer := s.clock.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-timer.Chan():
			s.pollAll()
			timer.Reset(s.interval)
		}
	}
}

func (s *Service) pollAll() {
	s.mu.RLock()
	users := make([]string, 0, len(s.snapshots))
	for userID := range s.snapshots {
		users = append(users, userID)
	}
	s.mu.RUnlock()

	for _, userID := range users {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		if err := s.Refresh(ctx, userID); err != nil {
			s.log.Warn("poll refresh failed", zap.String("userId", userID), zap.Error(err))
		}
		cancel()
	}
}

// Refresh re-fetches the user's snapshot and replaces the cached one in
// place. Idempotent; safe to call from both propagation paths concurrently.
func (s *Service) Refresh(ctx context.Context, userID string) error {
	recent, err := s.repo.ListByUser(ctx, userID, recentLimit, 0)
	if err != nil {
		return err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshots[userID] = Snapshot{
		Recent:      recent,
		UnreadCount: unread,
		RefreshedAt: s.clock.Now(),
	}
	s.mu.Unlock()
	return nil
}

// Snapshot returns the cached view, refreshing on first access.
func (s *Service) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[userID]
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}
	if err := s.Refresh(ctx, userID); err != nil {
		return Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[userID], nil
}

// List returns a page of the user's notifications plus the total count.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, int, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	notifications, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// Notify inserts a notification and signals every subscriber.
func (s *Service) Notify(ctx context.Context, n *models.Notification) error {
	id, err := s.repo.Insert(ctx, n)
	if err != nil {
		return err
	}
	n.ID = id
	s.hub.Invalidate(n.UserID)
	return nil
}

func (s *Service) MarkRead(ctx context.Context, userID string, id int64) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	s.hub.Invalidate(userID)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.hub.Invalidate(userID)
	return nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.hub.Invalidate(userID)
	return nil
}
