package service

import (
	"context"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/erp"
)

// ERPService exposes the authenticated pass-through reads. Each call
// requires an unexpired token and hands its embedded ERP credential
// straight to the backend; a revoked credential is rejected by the backend
// itself.
type ERPService struct {
	erp erp.Client
}

func NewERPService(erpClient erp.Client) *ERPService {
	return &ERPService{erp: erpClient}
}

func (s *ERPService) Shipments(ctx context.Context, tok *domain.AuthToken) ([]domain.Shipment, error) {
	if err := requireFresh(tok); err != nil {
		return nil, err
	}
	return s.erp.GetShipments(ctx, tok.ERPToken)
}

func (s *ERPService) DistributionCenters(ctx context.Context, tok *domain.AuthToken) ([]domain.DistributionCenter, error) {
	if err := requireFresh(tok); err != nil {
		return nil, err
	}
	return s.erp.GetDistributionCenters(ctx, tok.ERPToken)
}

func (s *ERPService) Retailers(ctx context.Context, tok *domain.AuthToken) ([]domain.Retailer, error) {
	if err := requireFresh(tok); err != nil {
		return nil, err
	}
	return s.erp.GetRetailers(ctx, tok.ERPToken)
}

func (s *ERPService) Retailer(ctx context.Context, tok *domain.AuthToken, retailerID string) (*domain.Retailer, error) {
	if err := requireFresh(tok); err != nil {
		return nil, err
	}
	return s.erp.GetRetailer(ctx, tok.ERPToken, retailerID)
}

func (s *ERPService) RetailerInventory(ctx context.Context, tok *domain.AuthToken, retailerID string) ([]domain.InventoryItem, error) {
	if err := requireFresh(tok); err != nil {
		return nil, err
	}
	return s.erp.GetRetailerInventory(ctx, tok.ERPToken, retailerID)
}

func (s *ERPService) Products(ctx context.Context, tok *domain.AuthToken) ([]domain.Product, error) {
	if err := requireFresh(tok); err != nil {
		return nil, err
	}
	return s.erp.GetProducts(ctx, tok.ERPToken)
}

func requireFresh(tok *domain.AuthToken) error {
	if tok == nil || tok.Expired() {
		return domain.ErrAuthenticationFailed
	}
	return nil
}
