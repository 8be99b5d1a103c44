// Package erpfake is an in-memory ERP backend for tests. It seeds a small
// but realistic data set and tracks issued credentials so authentication
// failures behave like the real backend.
package erpfake

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/google/uuid"
)

// AdminToken is accepted on every read call, standing in for the
// store-internal administrative credential.
const AdminToken = "erpfake-admin-token"

type Fake struct {
	mu sync.Mutex

	shipments []domain.Shipment
	centers   []domain.DistributionCenter
	retailers []domain.Retailer
	products  []domain.Product
	inventory map[string][]domain.InventoryItem

	provisioned map[string]domain.ERPUser // demo guid -> seed user record
	credentials map[string]bool           // issued ERP tokens

	// Failure injection, keyed by call name ("shipments",
	// "distribution-centers", "retailers", "provision").
	Fail map[string]error
	// Artificial latency per call name, for completion-order tests.
	Delay map[string]time.Duration
}

func New() *Fake {
	return &Fake{
		shipments: []domain.Shipment{
			{
				ID:                     "1001",
				Status:                 "SHIPPED",
				CreatedAt:              "2015-11-05T22:00:51Z",
				EstimatedTimeOfArrival: "2015-11-12T22:00:51Z",
				FromID:                 "201",
				ToID:                   "301",
				CurrentLocation: &domain.Address{
					City: "Raleigh", State: "North Carolina", Country: "US",
					Latitude: 35.71, Longitude: -78.63,
				},
			},
			{
				ID:                     "1002",
				Status:                 "NEW",
				CreatedAt:              "2015-11-06T09:12:08Z",
				EstimatedTimeOfArrival: "2015-11-19T09:12:08Z",
				FromID:                 "201",
				ToID:                   "302",
			},
		},
		centers: []domain.DistributionCenter{
			{
				ID: "201",
				Address: domain.Address{
					City: "Austin", State: "Texas", Country: "US",
					Latitude: 30.26, Longitude: -97.74,
				},
				ContactID: "901",
			},
		},
		retailers: []domain.Retailer{
			{
				ID: "301",
				Address: domain.Address{
					City: "Raleigh", State: "North Carolina", Country: "US",
					Latitude: 35.71, Longitude: -78.63,
				},
				ManagerID: "902",
			},
			{
				ID: "302",
				Address: domain.Address{
					City: "Portland", State: "Oregon", Country: "US",
					Latitude: 45.52, Longitude: -122.67,
				},
				ManagerID: "903",
			},
		},
		products: []domain.Product{
			{ID: "401", Name: "Dehumidifier", SupplierID: "501"},
			{ID: "402", Name: "Space Heater", SupplierID: "501"},
		},
		inventory: map[string][]domain.InventoryItem{
			"301": {
				{ID: "601", ProductID: "401", Quantity: 40, LocationID: "301", LocationType: "Retailer"},
				{ID: "602", ProductID: "402", Quantity: 12, LocationID: "301", LocationType: "Retailer"},
			},
			"302": {
				{ID: "603", ProductID: "401", Quantity: 7, LocationID: "302", LocationType: "Retailer"},
			},
		},
		provisioned: make(map[string]domain.ERPUser),
		credentials: make(map[string]bool),
		Fail:        make(map[string]error),
		Delay:       make(map[string]time.Duration),
	}
}

func (f *Fake) GetShipments(ctx context.Context, token string) ([]domain.Shipment, error) {
	if err := f.pre(ctx, "shipments", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Shipment(nil), f.shipments...), nil
}

func (f *Fake) GetDistributionCenters(ctx context.Context, token string) ([]domain.DistributionCenter, error) {
	if err := f.pre(ctx, "distribution-centers", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DistributionCenter(nil), f.centers...), nil
}

func (f *Fake) GetRetailers(ctx context.Context, token string) ([]domain.Retailer, error) {
	if err := f.pre(ctx, "retailers", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Retailer(nil), f.retailers...), nil
}

func (f *Fake) GetRetailer(ctx context.Context, token, retailerID string) (*domain.Retailer, error) {
	if err := f.pre(ctx, "retailers", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.retailers {
		if r.ID == retailerID {
			retailer := r
			return &retailer, nil
		}
	}
	return nil, domain.ErrResourceNotFound
}

func (f *Fake) GetRetailerInventory(ctx context.Context, token, retailerID string) ([]domain.InventoryItem, error) {
	if err := f.pre(ctx, "retailers", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	items, ok := f.inventory[retailerID]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return append([]domain.InventoryItem(nil), items...), nil
}

func (f *Fake) GetProducts(ctx context.Context, token string) ([]domain.Product, error) {
	if err := f.pre(ctx, "products", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Product(nil), f.products...), nil
}

func (f *Fake) GetUsers(ctx context.Context, token string) ([]domain.ERPUser, error) {
	if err := f.pre(ctx, "users", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]domain.ERPUser, 0, len(f.provisioned))
	for _, u := range f.provisioned {
		users = append(users, u)
	}
	return users, nil
}

func (f *Fake) AuthenticateUser(ctx context.Context, demoGUID string, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Fail["login"]; err != nil {
		return "", err
	}
	if _, ok := f.provisioned[demoGUID]; !ok {
		return "", domain.ErrAuthenticationFailed
	}

	token := "erp-" + uuid.NewString()
	f.credentials[token] = true
	return token, nil
}

func (f *Fake) RevokeCredential(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.credentials, token)
	return nil
}

func (f *Fake) ProvisionSeedUser(ctx context.Context, demoGUID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Fail["provision"]; err != nil {
		return nil, err
	}

	user := domain.ERPUser{
		ID:       uuid.NewString(),
		Username: fmt.Sprintf("erp-user-%s", demoGUID[:min(8, len(demoGUID))]),
		Email:    "seed@acme.com",
		DemoID:   demoGUID,
	}
	f.provisioned[demoGUID] = user
	return json.Marshal(user)
}

func (f *Fake) RetractDemoUsers(ctx context.Context, demoGUID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.provisioned, demoGUID)
	return nil
}

// Provisioned reports whether a demo still has ERP-side resources.
func (f *Fake) Provisioned(demoGUID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.provisioned[demoGUID]
	return ok
}

// CredentialValid reports whether an issued ERP token is still accepted.
func (f *Fake) CredentialValid(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credentials[token]
}

func (f *Fake) pre(ctx context.Context, call, token string) error {
	f.mu.Lock()
	delay := f.Delay[call]
	failure := f.Fail[call]
	valid := token == AdminToken || f.credentials[token]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failure != nil {
		return failure
	}
	if !valid {
		return domain.ErrAuthenticationFailed
	}
	return nil
}
