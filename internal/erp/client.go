package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/google/uuid"
)

// Client is the uniform call surface over the external ERP backend. Every
// read takes the caller's ERP credential; failures map onto the domain
// error kinds (401 -> ErrAuthenticationFailed, 404 -> ErrResourceNotFound,
// anything else non-2xx -> *APIError).
type Client interface {
	GetShipments(ctx context.Context, token string) ([]domain.Shipment, error)
	GetDistributionCenters(ctx context.Context, token string) ([]domain.DistributionCenter, error)
	GetRetailers(ctx context.Context, token string) ([]domain.Retailer, error)
	GetRetailer(ctx context.Context, token, retailerID string) (*domain.Retailer, error)
	GetRetailerInventory(ctx context.Context, token, retailerID string) ([]domain.InventoryItem, error)
	GetProducts(ctx context.Context, token string) ([]domain.Product, error)
	GetUsers(ctx context.Context, token string) ([]domain.ERPUser, error)

	// AuthenticateUser exchanges a demo identity for an ERP credential.
	AuthenticateUser(ctx context.Context, demoGUID string, userID uuid.UUID) (string, error)
	// RevokeCredential invalidates a previously issued ERP credential.
	RevokeCredential(ctx context.Context, token string) error

	// ProvisionSeedUser registers a demo's seed user on the ERP side and
	// returns the raw backend user record.
	ProvisionSeedUser(ctx context.Context, demoGUID string) (json.RawMessage, error)
	// RetractDemoUsers releases every ERP-side resource tied to a demo.
	RetractDemoUsers(ctx context.Context, demoGUID string) error
}

// HTTPClient talks JSON to the ERP backend over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *HTTPClient) GetShipments(ctx context.Context, token string) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	if err := c.getJSON(ctx, "/shipments", token, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

func (c *HTTPClient) GetDistributionCenters(ctx context.Context, token string) ([]domain.DistributionCenter, error) {
	var centers []domain.DistributionCenter
	if err := c.getJSON(ctx, "/distribution-centers", token, &centers); err != nil {
		return nil, err
	}
	return centers, nil
}

func (c *HTTPClient) GetRetailers(ctx context.Context, token string) ([]domain.Retailer, error) {
	var retailers []domain.Retailer
	if err := c.getJSON(ctx, "/retailers", token, &retailers); err != nil {
		return nil, err
	}
	return retailers, nil
}

func (c *HTTPClient) GetRetailer(ctx context.Context, token, retailerID string) (*domain.Retailer, error) {
	var retailer domain.Retailer
	if err := c.getJSON(ctx, "/retailers/"+retailerID, token, &retailer); err != nil {
		return nil, err
	}
	return &retailer, nil
}

func (c *HTTPClient) GetRetailerInventory(ctx context.Context, token, retailerID string) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	if err := c.getJSON(ctx, "/retailers/"+retailerID+"/inventory", token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) GetProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products", token, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) GetUsers(ctx context.Context, token string) ([]domain.ERPUser, error) {
	var users []domain.ERPUser
	if err := c.getJSON(ctx, "/users", token, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) AuthenticateUser(ctx context.Context, demoGUID string, userID uuid.UUID) (string, error) {
	body := map[string]string{
		"guid":   demoGUID,
		"userId": userID.String(),
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := c.postJSON(ctx, "/users/login", "", body, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func (c *HTTPClient) RevokeCredential(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/users/logout", token, nil)
	if err != nil {
		return err
	}
	return c.doDiscard(req)
}

func (c *HTTPClient) ProvisionSeedUser(ctx context.Context, demoGUID string) (json.RawMessage, error) {
	body := map[string]string{"guid": demoGUID}

	var result json.RawMessage
	if err := c.postJSON(ctx, "/demos/users", "", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) RetractDemoUsers(ctx context.Context, demoGUID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/demos/"+demoGUID+"/users", "", nil)
	if err != nil {
		return err
	}
	return c.doDiscard(req)
}

func (c *HTTPClient) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, token, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *HTTPClient) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.APIError{Message: "erp request failed", Cause: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.APIError{Message: "failed to decode erp response", Cause: err}
	}
	return nil
}

func (c *HTTPClient) doDiscard(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.APIError{Message: "erp request failed", Cause: err}
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrAuthenticationFailed
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrResourceNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &domain.APIError{
			Message: fmt.Sprintf("erp returned status %d: %s", resp.StatusCode, string(body)),
		}
	}
}
