package cart

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
	"github.com/angelmondragon/bookstore-backend/pkg/metrics"
)

func newTestService(t *testing.T, repo SnapshotRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Snapshots: repo,
		Metrics:   metrics.NewCartMetrics(prometheus.NewRegistry()),
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without snapshots")
	}
	if _, err := NewService(ServiceParams{Snapshots: NewMemorySnapshotRepository()}); err == nil {
		t.Fatal("expected error without logger")
	}
}

func TestServiceCartFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, NewMemorySnapshotRepository())

	c, err := svc.Add(ctx, "s1", priced("b1", 10), 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.Subtotal != 20 || c.ItemCount != 2 {
		t.Fatalf("unexpected cart %+v", c)
	}

	c, err = svc.UpdateQuantity(ctx, "s1", "b1", 5)
	if err != nil || c.Total != 50 {
		t.Fatalf("update: %+v %v", c, err)
	}

	qty, err := svc.Quantity(ctx, "s1", "b1")
	if err != nil || qty != 5 {
		t.Fatalf("quantity: %d %v", qty, err)
	}
	if in, err := svc.Contains(ctx, "s1", "b1"); err != nil || !in {
		t.Fatalf("contains: %v %v", in, err)
	}

	c, err = svc.Remove(ctx, "s1", "b1")
	if err != nil || !c.IsEmpty() || c.Total != 0 {
		t.Fatalf("remove: %+v %v", c, err)
	}

	if _, err := svc.Add(ctx, "s1", priced("b2", 1), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err = svc.Clear(ctx, " s1 ")
	if err != nil || !c.IsEmpty() {
		t.Fatalf("clear: %+v %v", c, err)
	}
	got, err := svc.Get(ctx, "s1")
	if err != nil || !got.IsEmpty() {
		t.Fatalf("get after clear: %+v %v", got, err)
	}
}

func TestServiceValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, NewMemorySnapshotRepository())

	if _, err := svc.Get(ctx, "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank session, got %v", err)
	}
	if _, err := svc.Add(ctx, "s1", Book{}, 1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing book id, got %v", err)
	}
	if _, err := svc.SetBuyNow(ctx, "", priced("b1", 1), 1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank session, got %v", err)
	}
}

func TestServiceMapsPersistenceFailures(t *testing.T) {
	ctx := context.Background()
	repo := &failingSnapshots{MemorySnapshotRepository: NewMemorySnapshotRepository(), saveErr: errors.New("redis down")}
	svc := newTestService(t, repo)

	if _, err := svc.Add(ctx, "s1", priced("b1", 1), 1); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := svc.SetBuyNow(ctx, "s1", priced("b1", 1), 1); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	repo.saveErr = nil
	repo.loadErr = errors.New("redis down")
	if _, err := svc.Get(ctx, "s1"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error on load, got %v", err)
	}
}

func TestServiceBuyNowIsIndependentOfCart(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, NewMemorySnapshotRepository())

	if _, err := svc.Add(ctx, "s1", priced("b1", 10), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.SetBuyNow(ctx, "s1", priced("b9", 40), 2); err != nil {
		t.Fatalf("set buy now: %v", err)
	}

	item, err := svc.GetBuyNow(ctx, "s1")
	if err != nil || item == nil || item.Book.ID != "b9" || item.Quantity != 2 {
		t.Fatalf("unexpected buy now %+v %v", item, err)
	}
	c, _ := svc.Get(ctx, "s1")
	if c.IsInCart("b9") || c.ItemCount != 1 {
		t.Fatalf("buy now leaked into cart: %+v", c)
	}

	if err := svc.ClearBuyNow(ctx, "s1"); err != nil {
		t.Fatalf("clear buy now: %v", err)
	}
	if item, _ := svc.GetBuyNow(ctx, "s1"); item != nil {
		t.Fatalf("expected empty slot, got %+v", item)
	}
	if c, _ := svc.Get(ctx, "s1"); c.ItemCount != 1 {
		t.Fatalf("clearing buy now touched cart: %+v", c)
	}
}

func TestServiceSerializesConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, NewMemorySnapshotRepository())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Add(ctx, "s1", priced("b1", 2), 1); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	c, err := svc.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.ItemCount != 20 || c.Subtotal != 40 {
		t.Fatalf("lost updates under concurrency: %+v", c)
	}
}
