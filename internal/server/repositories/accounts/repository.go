// Package accounts persists user accounts. The Repository interface is the
// only thing the service layer depends on; implementations must make Create
// atomic with respect to email uniqueness.
package accounts

import (
	"context"

	"github.com/sebak/authd/internal/server/models"
)

type Repository interface {
	// Create inserts the account and fills in the store-assigned ID and
	// CreatedAt. If an account with the same email already exists, it
	// returns common.ErrEmailTaken and leaves no partial state; the
	// check-and-insert is atomic even under concurrent registration.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail returns the account with the given (already normalized)
	// email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}
