package catalog

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"promptshop/test/infra"
)

// TestPGRepository_Integration runs the repository against a real PostgreSQL.
// It uses DATABASE_URL when set and otherwise starts a container; the test is
// skipped when neither is available.
func TestPGRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgC, dsn, err := infra.StartPostgres16(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	defer pgC.Terminate(context.Background())

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, pgC.Shared())
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	if _, err := pool.Exec(ctx, `
		INSERT INTO catalog_items (id, title, author, rating, reviews, prompt_count, price, discount_price, category, tag, position)
		VALUES ('2', 'Cinematic drone shots', 'Rhea Banks', 4.5, '310', 40, 149.00, 49.99, 'Video', 'Drone', 1)
	`); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	repo := NewRepository(pool)

	featured, err := repo.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("get seeded item: %v", err)
	}
	if featured.Title != Featured.Title || featured.DiscountPrice != 99 || featured.Rating != 4.8 {
		t.Fatalf("unexpected seeded item: %+v", featured)
	}

	drone, err := repo.GetByID(ctx, "2")
	if err != nil {
		t.Fatalf("get inserted item: %v", err)
	}
	if drone.DiscountPrice != 49.99 || drone.PromptCount != 40 {
		t.Fatalf("unexpected inserted item: %+v", drone)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	items, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "1" || items[1].ID != "2" {
		t.Fatalf("unexpected list order: %+v", items)
	}
}
