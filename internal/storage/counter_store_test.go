package storage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/vidora/adserve/internal/models"
	"github.com/vidora/adserve/internal/storage"
)

func TestIncrementCreatesRow(t *testing.T) {
	store := storage.NewInMemoryCounterStore()
	ctx := context.Background()
	key := models.CounterKey{PerformerID: "p-1", AdID: "ad-1", Date: "2024-05-01"}

	if err := store.Increment(ctx, key, models.EventView, 7.5); err != nil {
		t.Fatal(err)
	}

	rows, err := store.Read(ctx, storage.CounterMatch{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Views != 1 || row.WatchDurationSum != 7.5 {
		t.Errorf("row = %+v", row)
	}
	if row.CreatedAt.IsZero() {
		t.Error("CreatedAt not set on first write")
	}
}

func TestIncrementConcurrent(t *testing.T) {
	store := storage.NewInMemoryCounterStore()
	ctx := context.Background()
	key := models.CounterKey{PerformerID: "p-1", AdID: "ad-1", Date: "2024-05-01"}

	const workers = 32
	const perWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := store.Increment(ctx, key, models.EventView, 1); err != nil {
					t.Error(err)
					return
				}
				if err := store.Increment(ctx, key, models.EventClick, 0); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	rows, err := store.Read(ctx, storage.CounterMatch{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	want := int64(workers * perWorker)
	if row.Views != want || row.Clicks != want {
		t.Errorf("Views/Clicks = %d/%d, want %d each (no lost updates)", row.Views, row.Clicks, want)
	}
	if row.WatchDurationSum != float64(want) {
		t.Errorf("WatchDurationSum = %v, want %d", row.WatchDurationSum, want)
	}
}

func TestReadFilters(t *testing.T) {
	store := storage.NewInMemoryCounterStore()
	ctx := context.Background()

	seed := []models.CounterKey{
		{PerformerID: "p-1", AdID: "ad-1", Date: "2024-05-01"},
		{PerformerID: "p-1", AdID: "ad-2", Date: "2024-05-02"},
		{PerformerID: "p-2", AdID: "ad-3", Date: "2024-05-03"},
	}
	for _, key := range seed {
		if err := store.Increment(ctx, key, models.EventView, 1); err != nil {
			t.Fatal(err)
		}
	}

	byPerformer, err := store.Read(ctx, storage.CounterMatch{PerformerID: "p-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byPerformer) != 2 {
		t.Errorf("performer filter rows = %d, want 2", len(byPerformer))
	}

	byAd, err := store.Read(ctx, storage.CounterMatch{AdID: "ad-3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byAd) != 1 || byAd[0].PerformerID != "p-2" {
		t.Errorf("ad filter rows = %+v", byAd)
	}

	ranged, err := store.Read(ctx, storage.CounterMatch{Range: models.DateRange{From: "2024-05-02", To: "2024-05-02"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranged) != 1 || ranged[0].AdID != "ad-2" {
		t.Errorf("range filter rows = %+v", ranged)
	}

	all, err := store.Read(ctx, storage.CounterMatch{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Date > all[i].Date {
			t.Errorf("rows not sorted by date: %s before %s", all[i-1].Date, all[i].Date)
		}
	}
}

func TestCounterDeleteByAd(t *testing.T) {
	store := storage.NewInMemoryCounterStore()
	ctx := context.Background()

	for _, date := range []string{"2024-05-01", "2024-05-02"} {
		if err := store.Increment(ctx, models.CounterKey{PerformerID: "p-1", AdID: "ad-1", Date: date}, models.EventView, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Increment(ctx, models.CounterKey{PerformerID: "p-1", AdID: "ad-2", Date: "2024-05-01"}, models.EventView, 1); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteByAd(ctx, "ad-1"); err != nil {
		t.Fatal(err)
	}

	rows, err := store.Read(ctx, storage.CounterMatch{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].AdID != "ad-2" {
		t.Errorf("rows after delete = %+v, want only ad-2", rows)
	}
}

func TestReadReturnsCopies(t *testing.T) {
	store := storage.NewInMemoryCounterStore()
	ctx := context.Background()
	key := models.CounterKey{PerformerID: "p-1", AdID: "ad-1", Date: "2024-05-01"}
	if err := store.Increment(ctx, key, models.EventView, 1); err != nil {
		t.Fatal(err)
	}

	rows, _ := store.Read(ctx, storage.CounterMatch{})
	rows[0].Views = 999

	again, _ := store.Read(ctx, storage.CounterMatch{})
	if again[0].Views != 1 {
		t.Error("Read leaked internal state to the caller")
	}
}
