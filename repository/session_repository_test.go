package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"sheet-storefront/db"
	"sheet-storefront/models"
)

func exerciseSessionRepository(t *testing.T, repo SessionRepositoryInterface) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get(unknown) err = %v, want ErrSessionNotFound", err)
	}

	session := &models.Session{
		ID:       id,
		SheetURL: "https://docs.google.com/spreadsheets/d/abc/edit",
		Cart: models.Cart{Items: []models.CartItem{
			{Key: "1-black", ProductID: 1, Name: "Shoe", Price: 10, Quantity: 2,
				Variants: map[string]models.VariantOption{"color": {Name: "Black", Value: "black"}}},
		}},
		Wishlist: []int{4, 1},
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SheetURL != session.SheetURL || len(got.Cart.Items) != 1 || got.Cart.Items[0].Quantity != 2 {
		t.Errorf("Get = %+v", got)
	}
	if got.Cart.Items[0].Variants["color"].Value != "black" {
		t.Errorf("variants not round-tripped: %+v", got.Cart.Items[0].Variants)
	}
	if len(got.Wishlist) != 2 || got.Wishlist[0] != 4 || got.Wishlist[1] != 1 {
		t.Errorf("wishlist = %v, want [4 1]", got.Wishlist)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
}

func TestMemorySessionRepository(t *testing.T) {
	exerciseSessionRepository(t, NewMemorySessionRepository(time.Hour))
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	if err := repo.Save(ctx, &models.Session{ID: "a"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, &models.Session{ID: "b"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	now = now.Add(30 * time.Second)
	if _, err := repo.Get(ctx, "a"); err != nil {
		t.Fatalf("session expired early: %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := repo.Get(ctx, "a"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired Get err = %v", err)
	}
	purged, err := repo.PurgeExpired(ctx)
	if err != nil || purged != 1 {
		t.Errorf("PurgeExpired = %d, %v; want 1", purged, err)
	}
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)
	ctx := context.Background()
	session := &models.Session{
		ID:       "s",
		Cart:     models.Cart{Items: []models.CartItem{{Key: "1-default", Quantity: 1}}},
		Wishlist: []int{1},
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	session.Cart.Items[0].Quantity = 99
	session.Wishlist[0] = 99

	got, _ := repo.Get(ctx, "s")
	if got.Cart.Items[0].Quantity != 1 {
		t.Errorf("stored session aliased caller slice: quantity = %d", got.Cart.Items[0].Quantity)
	}
	if got.Wishlist[0] != 1 {
		t.Errorf("stored session aliased caller wishlist: %v", got.Wishlist)
	}
}

func TestRedisSessionRepository(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := NewRedisClient(addr, os.Getenv("REDIS_PASS"))
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	exerciseSessionRepository(t, NewRedisSessionRepository(client, time.Minute))
}

func TestPostgresSessionRepository(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	if err := db.InitDB(ctx, url); err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	defer db.CloseDB()
	if err := db.EnsureSessionSchema(ctx, db.DB); err != nil {
		t.Fatalf("EnsureSessionSchema: %v", err)
	}
	exerciseSessionRepository(t, NewPostgresSessionRepository(db.DB, time.Minute))
}
