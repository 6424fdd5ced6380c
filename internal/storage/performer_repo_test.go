package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vidora/adserve/internal/models"
	"github.com/vidora/adserve/internal/storage"
)

func TestPerformerEmailConflict(t *testing.T) {
	repo := storage.NewInMemoryPerformerRepo()
	ctx := context.Background()

	if err := repo.CreatePerformer(ctx, &models.Performer{ID: "p-1", Name: "Acme", Email: "acme@example.com"}); err != nil {
		t.Fatal(err)
	}
	err := repo.CreatePerformer(ctx, &models.Performer{ID: "p-2", Name: "Copycat", Email: "acme@example.com"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}

	// The original record is untouched.
	performer, err := repo.GetPerformerByEmail(ctx, "acme@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if performer.ID != "p-1" {
		t.Errorf("ID = %s, want p-1", performer.ID)
	}
}

func TestPerformerAdMembership(t *testing.T) {
	repo := storage.NewInMemoryPerformerRepo()
	ctx := context.Background()

	if err := repo.CreatePerformer(ctx, &models.Performer{ID: "p-1", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}

	if err := repo.AddAd(ctx, "p-1", "ad-1"); err != nil {
		t.Fatal(err)
	}
	// Adding the same ad twice must not duplicate it.
	if err := repo.AddAd(ctx, "p-1", "ad-1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddAd(ctx, "p-1", "ad-2"); err != nil {
		t.Fatal(err)
	}

	performer, err := repo.GetPerformer(ctx, "p-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(performer.Ads) != 2 || performer.Ads[0] != "ad-1" || performer.Ads[1] != "ad-2" {
		t.Fatalf("Ads = %v, want [ad-1 ad-2]", performer.Ads)
	}

	if err := repo.RemoveAd(ctx, "p-1", "ad-1"); err != nil {
		t.Fatal(err)
	}
	performer, _ = repo.GetPerformer(ctx, "p-1")
	if len(performer.Ads) != 1 || performer.Ads[0] != "ad-2" {
		t.Errorf("Ads after remove = %v, want [ad-2]", performer.Ads)
	}
}

func TestGetPerformerMissing(t *testing.T) {
	repo := storage.NewInMemoryPerformerRepo()
	performer, err := repo.GetPerformer(context.Background(), "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if performer != nil {
		t.Errorf("performer = %+v, want nil for missing id", performer)
	}
}

func TestPerformerCopiesAreIndependent(t *testing.T) {
	repo := storage.NewInMemoryPerformerRepo()
	ctx := context.Background()

	if err := repo.CreatePerformer(ctx, &models.Performer{ID: "p-1", Email: "a@example.com", Ads: []string{"ad-1"}}); err != nil {
		t.Fatal(err)
	}

	performer, _ := repo.GetPerformer(ctx, "p-1")
	performer.Ads[0] = "mutated"

	again, _ := repo.GetPerformer(ctx, "p-1")
	if again.Ads[0] != "ad-1" {
		t.Error("GetPerformer leaked internal state to the caller")
	}
}
