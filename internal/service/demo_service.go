package service

import (
	"context"
	"errors"

	"github.com/aled/logistics-sandbox/internal/aggregate"
	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/erp"
	"github.com/aled/logistics-sandbox/internal/store"
	"github.com/aled/logistics-sandbox/internal/token"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DemoService orchestrates the demo session lifecycle: create/get/delete,
// login/logout, and the aggregated admin view. It is the surface the API
// layer calls.
type DemoService struct {
	store  *store.Store
	erp    erp.Client
	codec  *token.Codec
	engine *aggregate.Engine
	log    zerolog.Logger
}

func NewDemoService(st *store.Store, erpClient erp.Client, codec *token.Codec, engine *aggregate.Engine, log zerolog.Logger) *DemoService {
	return &DemoService{
		store:  st,
		erp:    erpClient,
		codec:  codec,
		engine: engine,
		log:    log.With().Str("component", "demos").Logger(),
	}
}

// AdminData is the consolidated view for a logged-in user. The three
// sequences come back from the ERP backend unchanged.
type AdminData struct {
	Shipments           []domain.Shipment           `json:"shipments"`
	DistributionCenters []domain.DistributionCenter `json:"distribution-centers"`
	Retailers           []domain.Retailer           `json:"retailers"`
}

func (s *DemoService) CreateDemo(ctx context.Context) (*domain.Demo, error) {
	return s.store.CreateDemo(ctx)
}

func (s *DemoService) GetDemo(ctx context.Context, guid string) (*domain.Demo, error) {
	return s.store.GetDemoByGUID(ctx, guid)
}

func (s *DemoService) DeleteDemo(ctx context.Context, guid string) error {
	return s.store.DeleteDemoByGUID(ctx, guid)
}

func (s *DemoService) GetDemoRetailers(ctx context.Context, guid string) ([]domain.Retailer, error) {
	return s.store.ListRetailers(ctx, guid)
}

// CreateDemoUser requires both inputs before any lookup happens.
func (s *DemoService) CreateDemoUser(ctx context.Context, guid, retailerID string) (*domain.User, error) {
	if guid == "" || retailerID == "" {
		return nil, domain.ErrUnprocessableEntity
	}
	return s.store.AddUserForRetailer(ctx, guid, retailerID)
}

// Login resolves the session and user, exchanges the identity for an ERP
// credential, and issues a signed token embedding it.
func (s *DemoService) Login(ctx context.Context, guid string, userID uuid.UUID) (string, error) {
	demo, err := s.store.GetDemoByGUID(ctx, guid)
	if err != nil {
		return "", err
	}

	var found bool
	for _, u := range demo.Users {
		if u.ID == userID {
			found = true
			break
		}
	}
	if !found {
		return "", domain.ErrResourceNotFound
	}

	cred, err := s.erp.AuthenticateUser(ctx, guid, userID)
	if err != nil {
		return "", err
	}

	encoded, err := s.codec.Issue(guid, userID, cred)
	if err != nil {
		return "", &domain.APIError{Message: "failed to issue token", Cause: err}
	}
	return encoded, nil
}

// Logout revokes the ERP credential embedded in targetToken, but only when
// it is the token bound to the caller's own request (requestToken).
// Anything else is a no-op, not an error.
func (s *DemoService) Logout(ctx context.Context, requestToken, targetToken string) error {
	if requestToken == "" || requestToken != targetToken {
		return nil
	}

	tok, err := s.codec.Decode(targetToken)
	if err != nil {
		return err
	}
	return s.erp.RevokeCredential(ctx, tok.ERPToken)
}

// Authenticate decodes an inbound token. Missing or malformed tokens mean
// anonymous (nil); expiry is not judged here but at the protected
// operation.
func (s *DemoService) Authenticate(encoding string) *domain.AuthToken {
	if encoding == "" {
		return nil
	}
	tok, err := s.codec.Decode(encoding)
	if err != nil {
		return nil
	}
	return tok
}

// LoadAdminData fans out the three admin reads concurrently under the
// token's ERP credential. Any branch failure fails the whole call; no
// partial view is ever returned.
func (s *DemoService) LoadAdminData(ctx context.Context, tok *domain.AuthToken) (*AdminData, error) {
	if err := s.requireValid(ctx, tok); err != nil {
		return nil, err
	}

	cred := tok.ERPToken
	results, err := s.engine.Run(ctx, map[string]aggregate.Call{
		"shipments": func(ctx context.Context) (any, error) {
			return s.erp.GetShipments(ctx, cred)
		},
		"distribution-centers": func(ctx context.Context) (any, error) {
			return s.erp.GetDistributionCenters(ctx, cred)
		},
		"retailers": func(ctx context.Context) (any, error) {
			return s.erp.GetRetailers(ctx, cred)
		},
	})
	if err != nil {
		return nil, err
	}

	return &AdminData{
		Shipments:           results["shipments"].([]domain.Shipment),
		DistributionCenters: results["distribution-centers"].([]domain.DistributionCenter),
		Retailers:           results["retailers"].([]domain.Retailer),
	}, nil
}

// requireValid enforces full token validity at the point of protected use:
// signature already verified by decode, so what remains is expiry and that
// the demo still resolves.
func (s *DemoService) requireValid(ctx context.Context, tok *domain.AuthToken) error {
	if tok == nil || tok.Expired() {
		return domain.ErrAuthenticationFailed
	}
	if _, err := s.store.GetDemoByGUID(ctx, tok.DemoGUID); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return domain.ErrAuthenticationFailed
		}
		return err
	}
	return nil
}
