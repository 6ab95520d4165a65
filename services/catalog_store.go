package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/repository"
)

// CatalogState is the health of the live subscription. In Forbidden and
// Unavailable the projection is kept as-is; callers must check the state
// before trusting emptiness.
type CatalogState string

const (
	CatalogLive        CatalogState = "live"
	CatalogForbidden   CatalogState = "forbidden"
	CatalogUnavailable CatalogState = "unavailable"
)

// CatalogUpdate is one full-snapshot event delivered to subscribers.
type CatalogUpdate struct {
	State    CatalogState     `json:"state"`
	Products []models.Product `json:"products"`
}

// CatalogStore holds a read-only projection of the product collection,
// ordered newest first, replaced wholesale on every remote change. No
// incremental diffing.
type CatalogStore struct {
	repo   repository.ProductRepository
	logger *zap.Logger

	mu         sync.RWMutex
	projection []models.Product
	state      CatalogState
	subs       map[uint64]chan CatalogUpdate
	nextSubID  uint64

	cancel context.CancelFunc
	done   chan struct{}
}

func NewCatalogStore(repo repository.ProductRepository, logger *zap.Logger) *CatalogStore {
	return &CatalogStore{
		repo:   repo,
		logger: logger,
		state:  CatalogLive,
		subs:   make(map[uint64]chan CatalogUpdate),
	}
}

// Start loads the initial snapshot and opens the live subscription. A
// denied or failed load does not abort startup: the store carries the
// corresponding error state instead, exactly as a torn subscription would.
func (s *CatalogStore) Start(ctx context.Context) {
	watchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.refresh(watchCtx)

	go func() {
		defer close(s.done)
		err := s.repo.Watch(watchCtx, func() { s.refresh(watchCtx) })
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("catalog subscription terminated", zap.Error(err))
			s.setState(classifyState(err))
		}
	}()
}

// Stop cancels the subscription deterministically so no update can reach
// a torn-down consumer.
func (s *CatalogStore) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

// refresh re-reads the entire collection and replaces the projection.
func (s *CatalogStore) refresh(ctx context.Context) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("catalog snapshot load failed", zap.Error(err))
		s.setState(classifyState(err))
		return
	}

	s.mu.Lock()
	s.projection = products
	s.state = CatalogLive
	update := CatalogUpdate{State: CatalogLive, Products: products}
	s.broadcastLocked(update)
	s.mu.Unlock()
}

func (s *CatalogStore) setState(state CatalogState) {
	s.mu.Lock()
	s.state = state
	// projection intentionally kept: a denied catalog is not an empty one
	s.broadcastLocked(CatalogUpdate{State: state, Products: s.projection})
	s.mu.Unlock()
}

// broadcastLocked delivers the update to every subscriber without
// blocking. Each event is a full snapshot, so a slow subscriber that
// drops an intermediate one still converges on the next.
func (s *CatalogStore) broadcastLocked(update CatalogUpdate) {
	for _, ch := range s.subs {
		select {
		case ch <- update:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- update:
			default:
			}
		}
	}
}

// Subscribe registers a snapshot listener. The returned cancel func must
// be called when the consumer goes away.
func (s *CatalogStore) Subscribe() (<-chan CatalogUpdate, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan CatalogUpdate, 1)
	s.subs[id] = ch

	// seed with the current snapshot so late subscribers render immediately
	ch <- CatalogUpdate{State: s.state, Products: s.projection}

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, unsubscribe
}

// Projection returns the current snapshot and subscription state.
func (s *CatalogStore) Projection() ([]models.Product, CatalogState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projection, s.state
}

// ProductByID looks a product up in the current projection.
func (s *CatalogStore) ProductByID(id string) (*models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.projection {
		if s.projection[i].ID == id {
			p := s.projection[i]
			return &p, true
		}
	}
	return nil, false
}

// Filtered returns the in-stock subsequence of the projection matching
// the category (All is the identity) and a case-insensitive title
// substring, in projection order. Errors when the subscription is not
// live so a denied catalog is never rendered as an empty one.
func (s *CatalogStore) Filtered(category models.Category, search string) ([]models.Product, *ServiceError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case CatalogForbidden:
		return nil, NewAccessDeniedError(repository.ErrAccessDenied)
	case CatalogUnavailable:
		return nil, NewOperationFailedError("Catalog unavailable", nil)
	}

	needle := strings.ToLower(search)
	filtered := make([]models.Product, 0, len(s.projection))
	for _, p := range s.projection {
		if category != models.CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if p.Status != models.StatusInStock {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func classifyState(err error) CatalogState {
	if errors.Is(err, repository.ErrAccessDenied) {
		return CatalogForbidden
	}
	return CatalogUnavailable
}
