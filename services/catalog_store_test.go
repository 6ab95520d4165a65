package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/repository"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

// ---- mock product repository ----

type mockProductRepo struct {
	mu       sync.Mutex
	snapshot []models.Product
	findErr  error
	watchErr error
	changes  chan struct{}
	fail     chan struct{}

	deletedMany [][]string
	deletedOne  []string
	removeErr   error
	inserted    []models.Product
	insertErr   error
	updateErr   error
}

func newMockProductRepo(snapshot ...models.Product) *mockProductRepo {
	return &mockProductRepo{
		snapshot: snapshot,
		changes:  make(chan struct{}, 8),
		fail:     make(chan struct{}),
	}
}

func (m *mockProductRepo) setSnapshot(products ...models.Product) {
	m.mu.Lock()
	m.snapshot = products
	m.mu.Unlock()
}

func (m *mockProductRepo) FindAll(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]models.Product, len(m.snapshot))
	copy(out, m.snapshot)
	return out, nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.snapshot {
		if m.snapshot[i].ID == id {
			p := m.snapshot[i]
			return &p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepo) Insert(_ context.Context, p *models.Product) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.mu.Lock()
	m.inserted = append(m.inserted, *p)
	m.mu.Unlock()
	return "generated-id", nil
}

func (m *mockProductRepo) Update(_ context.Context, _ string, _ *models.Product) error {
	return m.updateErr
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.mu.Lock()
	m.deletedOne = append(m.deletedOne, id)
	m.mu.Unlock()
	return nil
}

func (m *mockProductRepo) DeleteMany(_ context.Context, ids []string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.mu.Lock()
	m.deletedMany = append(m.deletedMany, ids)
	m.mu.Unlock()
	return nil
}

func (m *mockProductRepo) Watch(ctx context.Context, onChange repository.ChangeListener) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.fail:
			return m.watchErr
		case <-m.changes:
			onChange()
		}
	}
}

// ---- helpers ----

func newStartedStore(t *testing.T, repo *mockProductRepo) *services.CatalogStore {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	store := services.NewCatalogStore(repo, logger)
	store.Start(context.Background())
	t.Cleanup(store.Stop)
	return store
}

func waitForUpdate(t *testing.T, ch <-chan services.CatalogUpdate) services.CatalogUpdate {
	t.Helper()
	select {
	case update := <-ch:
		return update
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for catalog update")
		return services.CatalogUpdate{}
	}
}

var catalogFixture = []models.Product{
	{ID: "p3", Title: "Mocha", Price: 70, Category: models.CategoryCoffee, Status: models.StatusInStock},
	{ID: "p2", Title: "Croissant", Price: 55, Category: models.CategoryBakery, Status: models.StatusSoldOut},
	{ID: "p1", Title: "Iced Tea", Price: 40, Category: models.CategoryDrinks, Status: models.StatusInStock},
}

// ---- tests ----

func TestStart_LoadsInitialSnapshot(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	products, state := store.Projection()
	assert.Equal(t, services.CatalogLive, state)
	assert.Len(t, products, 3)
	assert.Equal(t, "p3", products[0].ID)
}

func TestChangeEvent_ReplacesProjectionWholesale(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()
	seed := waitForUpdate(t, updates)
	assert.Len(t, seed.Products, 3)

	repo.setSnapshot(catalogFixture[0])
	repo.changes <- struct{}{}

	update := waitForUpdate(t, updates)
	assert.Equal(t, services.CatalogLive, update.State)
	assert.Len(t, update.Products, 1)
	assert.Equal(t, "p3", update.Products[0].ID)

	products, _ := store.Projection()
	assert.Len(t, products, 1)
}

func TestFiltered_AllCategoryEmptySearchReturnsInStockSubsequence(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	products, svcErr := store.Filtered(models.CategoryAll, "")
	assert.Nil(t, svcErr)
	// exactly the in-stock subsequence, projection order preserved
	assert.Len(t, products, 2)
	assert.Equal(t, "p3", products[0].ID)
	assert.Equal(t, "p1", products[1].ID)
}

func TestFiltered_CategoryAndSearchPredicates(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	products, svcErr := store.Filtered(models.CategoryCoffee, "")
	assert.Nil(t, svcErr)
	assert.Len(t, products, 1)
	assert.Equal(t, "Mocha", products[0].Title)

	products, svcErr = store.Filtered(models.CategoryAll, "iCeD")
	assert.Nil(t, svcErr)
	assert.Len(t, products, 1)
	assert.Equal(t, "Iced Tea", products[0].Title)

	products, svcErr = store.Filtered(models.CategoryAll, "croissant")
	assert.Nil(t, svcErr)
	assert.Empty(t, products) // sold out never shows
}

func TestAccessDenied_ProducesForbiddenNotEmptyCatalog(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()
	waitForUpdate(t, updates)

	repo.watchErr = errors.Join(repository.ErrAccessDenied, errors.New("Unauthorized"))
	close(repo.fail)

	update := waitForUpdate(t, updates)
	assert.Equal(t, services.CatalogForbidden, update.State)
	// projection is kept, not cleared
	assert.Len(t, update.Products, 3)

	_, svcErr := store.Filtered(models.CategoryAll, "")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}

func TestSubscriptionFailure_ProducesUnavailable(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	repo.watchErr = errors.New("connection reset")
	close(repo.fail)

	assert.Eventually(t, func() bool {
		_, state := store.Projection()
		return state == services.CatalogUnavailable
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStop_TearsDownSubscription(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	logger, _ := zap.NewDevelopment()
	store := services.NewCatalogStore(repo, logger)
	store.Start(context.Background())

	store.Stop() // must not hang; watch loop exits on cancel

	products, state := store.Projection()
	assert.Equal(t, services.CatalogLive, state)
	assert.Len(t, products, 3)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	updates, unsubscribe := store.Subscribe()
	waitForUpdate(t, updates)
	unsubscribe()

	repo.changes <- struct{}{}

	assert.Eventually(t, func() bool {
		products, _ := store.Projection()
		return len(products) == 3
	}, 2*time.Second, 10*time.Millisecond)
	select {
	case <-updates:
		t.Fatal("update delivered after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProductByID_ReadsProjection(t *testing.T) {
	repo := newMockProductRepo(catalogFixture...)
	store := newStartedStore(t, repo)

	p, ok := store.ProductByID("p2")
	assert.True(t, ok)
	assert.Equal(t, "Croissant", p.Title)

	_, ok = store.ProductByID("nope")
	assert.False(t, ok)
}
