package repository

import (
	"context"

	"github.com/aled/logistics-sandbox/internal/domain"
)

// DemoRepository persists the demo/user/role graph. Implementations return
// gorm.ErrRecordNotFound for unknown guids; the store maps that onto the
// domain error taxonomy.
type DemoRepository interface {
	// Create inserts a demo together with its users and roles in one
	// transaction.
	Create(ctx context.Context, demo *domain.Demo) error
	// GetByGUID loads a demo with its users (insertion order) and their
	// roles.
	GetByGUID(ctx context.Context, guid string) (*domain.Demo, error)
	// DeleteByGUID removes a demo and every user and role under it.
	DeleteByGUID(ctx context.Context, guid string) error
	// AddUser appends a user to the demo identified by guid, filling in
	// the user's DemoID.
	AddUser(ctx context.Context, guid string, user *domain.User) error
}

type Repositories struct {
	Demo DemoRepository
}
