package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sebak/authd/internal/common"
	"github.com/sebak/authd/internal/server/models"
)

func TestInMemory_CreateAndGet(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	acc, err := repo.Create(context.Background(), &models.Account{
		Email: "a@x.com", FullName: "Ann", PasswordHash: "h1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if acc.ID != 1 {
		t.Fatalf("id: got %d want 1", acc.ID)
	}
	if acc.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not set")
	}

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.FullName != "Ann" || got.PasswordHash != "h1" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestInMemory_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	if _, err := repo.Create(context.Background(), &models.Account{Email: "a@x.com", PasswordHash: "h1"}); err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	_, err := repo.Create(context.Background(), &models.Account{Email: "a@x.com", PasswordHash: "h2"})
	if !errors.Is(err, common.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	// The failed attempt must not have replaced the stored record.
	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil || got.PasswordHash != "h1" {
		t.Fatalf("stored record changed: %+v err=%v", got, err)
	}
}

func TestInMemory_NotFound(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	if _, err := repo.GetByEmail(context.Background(), "ghost@x.com"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestInMemory_ConcurrentRegistration(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), &models.Account{Email: "race@x.com", PasswordHash: "h"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, taken int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, common.ErrEmailTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || taken != n-1 {
		t.Fatalf("exactly one registration must win: ok=%d taken=%d", ok, taken)
	}
}

func TestInMemory_ReturnsCopies(t *testing.T) {
	t.Parallel()
	repo := NewInMemoryRepository()

	if _, err := repo.Create(context.Background(), &models.Account{Email: "a@x.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	first, _ := repo.GetByEmail(context.Background(), "a@x.com")
	first.PasswordHash = "mutated"

	second, _ := repo.GetByEmail(context.Background(), "a@x.com")
	if second.PasswordHash != "h" {
		t.Fatalf("repository leaked internal state")
	}
}
