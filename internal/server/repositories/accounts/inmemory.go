package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/sebak/authd/internal/common"
	"github.com/sebak/authd/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and for
// running the server without a database. The mutex makes Create an atomic
// insert-if-absent, mirroring the unique index of the Postgres schema.
type InMemoryRepository struct {
	mu      sync.Mutex
	byEmail map[string]*models.Account
	nextID  int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byEmail: make(map[string]*models.Account)}
}

func (r *InMemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrEmailTaken
	}

	r.nextID++
	stored := *account
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.byEmail[stored.Email] = &stored

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}

	result := *account
	return &result, nil
}
