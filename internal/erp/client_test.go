package erp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/erp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodToken = "valid-erp-token"

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+goodToken {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /api/v1/shipments", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Shipment{
			{ID: "1001", Status: "SHIPPED", FromID: "201", ToID: "301"},
		})
	}))
	mux.HandleFunc("GET /api/v1/retailers", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Retailer{
			{ID: "301", Address: domain.Address{City: "Raleigh", State: "North Carolina", Country: "US", Latitude: 35.71, Longitude: -78.63}},
		})
	}))
	mux.HandleFunc("GET /api/v1/retailers/301", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Retailer{ID: "301"})
	}))
	mux.HandleFunc("GET /api/v1/retailers/999", authed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such retailer", http.StatusNotFound)
	}))
	mux.HandleFunc("GET /api/v1/distribution-centers", authed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	mux.HandleFunc("POST /api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GUID   string `json:"guid"`
			UserID string `json:"userId"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body.GUID)
		assert.NotEmpty(t, body.UserID)
		json.NewEncoder(w).Encode(map[string]string{"token": goodToken})
	})
	mux.HandleFunc("DELETE /api/v1/users/logout", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("POST /api/v1/demos/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.ERPUser{ID: "801", Username: "seed", Email: "seed@acme.com"})
	})
	mux.HandleFunc("DELETE /api/v1/demos/{guid}/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPClient_Reads(t *testing.T) {
	backend := newBackend(t)
	client := erp.NewHTTPClient(backend.URL)
	ctx := context.Background()

	shipments, err := client.GetShipments(ctx, goodToken)
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, "1001", shipments[0].ID)

	retailers, err := client.GetRetailers(ctx, goodToken)
	require.NoError(t, err)
	require.Len(t, retailers, 1)
	assert.Equal(t, "Raleigh", retailers[0].Address.City)

	retailer, err := client.GetRetailer(ctx, goodToken, "301")
	require.NoError(t, err)
	assert.Equal(t, "301", retailer.ID)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	backend := newBackend(t)
	client := erp.NewHTTPClient(backend.URL)
	ctx := context.Background()

	t.Run("invalid credential", func(t *testing.T) {
		_, err := client.GetShipments(ctx, "bad-token")
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("unknown resource", func(t *testing.T) {
		_, err := client.GetRetailer(ctx, goodToken, "999")
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})

	t.Run("backend failure", func(t *testing.T) {
		_, err := client.GetDistributionCenters(ctx, goodToken)
		var apiErr *domain.APIError
		assert.ErrorAs(t, err, &apiErr)
	})
}

func TestHTTPClient_AuthLifecycle(t *testing.T) {
	backend := newBackend(t)
	client := erp.NewHTTPClient(backend.URL)
	ctx := context.Background()

	cred, err := client.AuthenticateUser(ctx, "demo-guid", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, goodToken, cred)

	require.NoError(t, client.RevokeCredential(ctx, cred))
}

func TestHTTPClient_Provisioning(t *testing.T) {
	backend := newBackend(t)
	client := erp.NewHTTPClient(backend.URL)
	ctx := context.Background()

	raw, err := client.ProvisionSeedUser(ctx, "demo-guid")
	require.NoError(t, err)

	var user domain.ERPUser
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "801", user.ID)

	require.NoError(t, client.RetractDemoUsers(ctx, "demo-guid"))
}
