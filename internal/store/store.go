// Package store owns the demo session graph: guid generation, seed user
// provisioning, and cascading deletion. It is the only component that
// mutates session state, and it serializes mutations per guid.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/erp"
	"github.com/aled/logistics-sandbox/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Store struct {
	repo       repository.DemoRepository
	erp        erp.Client
	adminToken string
	log        zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(repo repository.DemoRepository, erpClient erp.Client, adminToken string, log zerolog.Logger) *Store {
	return &Store{
		repo:       repo,
		erp:        erpClient,
		adminToken: adminToken,
		log:        log.With().Str("component", "store").Logger(),
		locks:      make(map[string]*sync.Mutex),
	}
}

// CreateDemo builds a new demo with one seed user carrying the
// supplychainmanager role. ERP-side provisioning happens first; if the
// graph insert fails afterwards, the provisioned resources are retracted so
// no partial demo is left on either side.
func (s *Store) CreateDemo(ctx context.Context) (*domain.Demo, error) {
	guid, err := NewGUID()
	if err != nil {
		return nil, &domain.APIError{Message: "failed to generate demo guid", Cause: err}
	}

	erpUser, err := s.erp.ProvisionSeedUser(ctx, guid)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	short := shortGUID(guid)
	demoID := uuid.New()
	userID := uuid.New()

	demo := &domain.Demo{
		ID:        demoID,
		GUID:      guid,
		Name:      fmt.Sprintf("Demo (%s)", short),
		CreatedAt: now,
		Users: []domain.User{{
			ID:        userID,
			DemoID:    demoID,
			Username:  fmt.Sprintf("Supply Chain Manager (%s)", short),
			Email:     fmt.Sprintf("chris.%s@acme.com", strings.ToLower(short)),
			ERPUser:   datatypes.JSON(erpUser),
			CreatedAt: now,
			Roles: []domain.Role{{
				ID:         uuid.New(),
				UserID:     userID,
				Name:       domain.RoleSupplyChainManager,
				CreatedAt:  now,
				ModifiedAt: now,
			}},
		}},
	}

	if err := s.repo.Create(ctx, demo); err != nil {
		if rerr := s.erp.RetractDemoUsers(ctx, guid); rerr != nil {
			s.log.Error().Err(rerr).Str("guid", guid).Msg("failed to retract erp users after aborted create")
		}
		return nil, &domain.APIError{Message: "failed to persist demo", Cause: err}
	}

	return demo, nil
}

func (s *Store) GetDemoByGUID(ctx context.Context, guid string) (*domain.Demo, error) {
	demo, err := s.repo.GetByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, &domain.APIError{Message: "failed to load demo", Cause: err}
	}
	return demo, nil
}

// DeleteDemoByGUID removes the demo, its users and roles, and the ERP-side
// resources tied to it. A second delete of the same guid fails with
// ErrResourceNotFound rather than succeeding silently.
func (s *Store) DeleteDemoByGUID(ctx context.Context, guid string) error {
	unlock := s.lockGUID(guid)
	defer unlock()

	if err := s.repo.DeleteByGUID(ctx, guid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrResourceNotFound
		}
		return &domain.APIError{Message: "failed to delete demo", Cause: err}
	}

	if err := s.erp.RetractDemoUsers(ctx, guid); err != nil {
		return &domain.APIError{Message: "failed to release erp resources", Cause: err}
	}

	s.mu.Lock()
	delete(s.locks, guid)
	s.mu.Unlock()
	return nil
}

// AddUserForRetailer appends a retailer-scoped user with no default role.
func (s *Store) AddUserForRetailer(ctx context.Context, guid, retailerID string) (*domain.User, error) {
	unlock := s.lockGUID(guid)
	defer unlock()

	user := &domain.User{
		ID:        uuid.New(),
		Username:  fmt.Sprintf("Retail Store Manager (%s)", retailerID),
		Email:     fmt.Sprintf("ruth.%s@acme.com", strings.ToLower(retailerID)),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.AddUser(ctx, guid, user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, &domain.APIError{Message: "failed to add demo user", Cause: err}
	}

	return user, nil
}

// ListRetailers returns the ERP retailers visible to the store's
// administrative credential.
func (s *Store) ListRetailers(ctx context.Context, guid string) ([]domain.Retailer, error) {
	if _, err := s.GetDemoByGUID(ctx, guid); err != nil {
		return nil, err
	}
	return s.erp.GetRetailers(ctx, s.adminToken)
}

// NewGUID derives an opaque, non-guessable demo identifier: the bcrypt
// digest of a fresh UUID, base64-encoded so it is URL-safe.
func NewGUID() (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(digest), nil
}

// shortGUID is the readable tail of a guid, used to derive seed user names.
// The head of every guid is the shared bcrypt prefix, so the tail is the
// distinguishing part.
func shortGUID(guid string) string {
	if len(guid) <= 8 {
		return guid
	}
	return guid[len(guid)-8:]
}

// lockGUID serializes mutations of one demo's user list. Different guids
// never contend.
func (s *Store) lockGUID(guid string) func() {
	s.mu.Lock()
	l, ok := s.locks[guid]
	if !ok {
		l = &sync.Mutex{}
		s.locks[guid] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
