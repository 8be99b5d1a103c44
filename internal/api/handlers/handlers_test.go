package handlers_test

import (
	"net/http"
	"testing"

	"github.com/aled/logistics-sandbox/internal/api/handlers"
	"github.com/aled/logistics-sandbox/internal/api/middleware"
	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/service"
	"github.com/aled/logistics-sandbox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDemo(t *testing.T, ts *testutil.TestServer) domain.Demo {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/api/v1/demos", "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var demo domain.Demo
	testutil.AssertJSONResponse(t, resp, &demo)
	require.NotEmpty(t, demo.GUID)
	require.Len(t, demo.Users, 1)
	return demo
}

func loginSeedUser(t *testing.T, ts *testutil.TestServer, demo domain.Demo) string {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/api/v1/demos/"+demo.GUID+"/login", "",
		handlers.LoginRequest{UserID: demo.Users[0].ID.String()})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var login handlers.LoginResponse
	testutil.AssertJSONResponse(t, resp, &login)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestDemoLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)

	demo := createDemo(t, ts)
	require.Len(t, demo.Users[0].Roles, 1)
	assert.Equal(t, domain.RoleSupplyChainManager, demo.Users[0].Roles[0].Name)
	assert.True(t, ts.Fake.Provisioned(demo.GUID))

	resp := ts.Do(t, http.MethodGet, "/api/v1/demos/"+demo.GUID, "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var fetched domain.Demo
	testutil.AssertJSONResponse(t, resp, &fetched)
	assert.Equal(t, demo.GUID, fetched.GUID)
	assert.Equal(t, demo.Users[0].ID, fetched.Users[0].ID)

	resp = ts.Do(t, http.MethodDelete, "/api/v1/demos/"+demo.GUID, "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)
	assert.False(t, ts.Fake.Provisioned(demo.GUID))

	resp = ts.Do(t, http.MethodGet, "/api/v1/demos/"+demo.GUID, "", nil)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Resource does not exist")

	resp = ts.Do(t, http.MethodDelete, "/api/v1/demos/"+demo.GUID, "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestGetDemo_UnknownGUID(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := ts.Do(t, http.MethodGet, "/api/v1/demos/ABC123", "", nil)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Resource does not exist")
}

func TestLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	demo := createDemo(t, ts)

	t.Run("issues session token", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/"+demo.GUID+"/login", "",
			handlers.LoginRequest{UserID: demo.Users[0].ID.String()})
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var login handlers.LoginResponse
		testutil.AssertJSONResponse(t, resp, &login)

		tok, err := ts.Codec.Decode(login.Token)
		require.NoError(t, err)
		assert.Equal(t, demo.GUID, tok.DemoGUID)
		assert.Equal(t, demo.Users[0].ID, tok.UserID)
		assert.True(t, ts.Fake.CredentialValid(tok.ERPToken))

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == middleware.CookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie, "login should set the session cookie")
		assert.Equal(t, login.Token, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("missing user id", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/"+demo.GUID+"/login", "",
			handlers.LoginRequest{})
		testutil.AssertErrorResponse(t, resp, http.StatusUnprocessableEntity, "Required input is missing")
	})

	t.Run("malformed user id", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/"+demo.GUID+"/login", "",
			handlers.LoginRequest{UserID: "not-a-uuid"})
		testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)
	})

	t.Run("user outside the demo", func(t *testing.T) {
		other := createDemo(t, ts)
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/"+demo.GUID+"/login", "",
			handlers.LoginRequest{UserID: other.Users[0].ID.String()})
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})

	t.Run("unknown demo", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/ABC123/login", "",
			handlers.LoginRequest{UserID: demo.Users[0].ID.String()})
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})
}

func TestCreateDemoUser(t *testing.T) {
	ts := testutil.NewTestServer(t)
	demo := createDemo(t, ts)

	t.Run("creates retail manager", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/"+demo.GUID+"/users", "",
			handlers.CreateUserRequest{RetailerID: "301"})
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		var user domain.User
		testutil.AssertJSONResponse(t, resp, &user)
		assert.Equal(t, "Retail Store Manager (301)", user.Username)
		assert.Equal(t, "ruth.301@acme.com", user.Email)
		assert.Empty(t, user.Roles)
	})

	t.Run("missing retailer id", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/"+demo.GUID+"/users", "",
			handlers.CreateUserRequest{})
		testutil.AssertErrorResponse(t, resp, http.StatusUnprocessableEntity, "Required input is missing")
	})

	t.Run("unknown demo", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/api/v1/demos/ABC123/users", "",
			handlers.CreateUserRequest{RetailerID: "301"})
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})
}

func TestGetDemoRetailers(t *testing.T) {
	ts := testutil.NewTestServer(t)
	demo := createDemo(t, ts)

	resp := ts.Do(t, http.MethodGet, "/api/v1/demos/"+demo.GUID+"/retailers", "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var retailers []domain.Retailer
	testutil.AssertJSONResponse(t, resp, &retailers)
	require.Len(t, retailers, 2)
	assert.Equal(t, "301", retailers[0].ID)

	resp = ts.Do(t, http.MethodGet, "/api/v1/demos/ABC123/retailers", "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestAdminView(t *testing.T) {
	ts := testutil.NewTestServer(t)
	demo := createDemo(t, ts)
	token := loginSeedUser(t, ts, demo)

	t.Run("aggregates all branches", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/api/v1/admin", token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var data service.AdminData
		testutil.AssertJSONResponse(t, resp, &data)
		require.NotEmpty(t, data.Shipments)
		require.NotEmpty(t, data.DistributionCenters)
		require.NotEmpty(t, data.Retailers)
		assert.NotEmpty(t, data.Shipments[0].ID)
		assert.NotEmpty(t, data.DistributionCenters[0].ID)
		assert.NotEmpty(t, data.Retailers[0].ID)
	})

	t.Run("anonymous request", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/api/v1/admin", "", nil)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("branch failure surfaces as internal error", func(t *testing.T) {
		ts.Fake.Fail["retailers"] = domain.ErrResourceNotFound
		defer delete(ts.Fake.Fail, "retailers")

		resp := ts.Do(t, http.MethodGet, "/api/v1/admin", token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusInternalServerError)
	})

	t.Run("token over cookie", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/api/v1/admin", nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})

		resp, err := ts.Server.Client().Do(req)
		require.NoError(t, err)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes own credential", func(t *testing.T) {
		ts := testutil.NewTestServer(t)
		demo := createDemo(t, ts)
		token := loginSeedUser(t, ts, demo)

		tok, err := ts.Codec.Decode(token)
		require.NoError(t, err)

		resp := ts.Do(t, http.MethodDelete, "/api/v1/logout/"+token, token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusNoContent)
		assert.False(t, ts.Fake.CredentialValid(tok.ERPToken))

		// The revoked credential fails every downstream branch.
		resp = ts.Do(t, http.MethodGet, "/api/v1/admin", token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusInternalServerError)
	})

	t.Run("foreign token is a no-op", func(t *testing.T) {
		ts := testutil.NewTestServer(t)
		demo := createDemo(t, ts)
		token := loginSeedUser(t, ts, demo)

		tok, err := ts.Codec.Decode(token)
		require.NoError(t, err)

		resp := ts.Do(t, http.MethodDelete, "/api/v1/logout/some-other-token", token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusNoContent)
		assert.True(t, ts.Fake.CredentialValid(tok.ERPToken))
	})
}

func TestERPPassThrough(t *testing.T) {
	ts := testutil.NewTestServer(t)
	demo := createDemo(t, ts)
	token := loginSeedUser(t, ts, demo)

	t.Run("shipments", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/api/v1/shipments", token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var shipments []domain.Shipment
		testutil.AssertJSONResponse(t, resp, &shipments)
		require.NotEmpty(t, shipments)
		assert.Equal(t, "1001", shipments[0].ID)
	})

	t.Run("retailer inventory", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/api/v1/retailers/301/inventory", token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var items []domain.InventoryItem
		testutil.AssertJSONResponse(t, resp, &items)
		require.NotEmpty(t, items)
		assert.Equal(t, "301", items[0].LocationID)
	})

	t.Run("products", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/api/v1/products", token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var products []domain.Product
		testutil.AssertJSONResponse(t, resp, &products)
		require.NotEmpty(t, products)
	})

	t.Run("anonymous request", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/api/v1/shipments", "", nil)
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("stale downstream credential", func(t *testing.T) {
		stale, err := ts.Codec.Issue(demo.GUID, demo.Users[0].ID, "bogus-credential")
		require.NoError(t, err)

		resp := ts.Do(t, http.MethodGet, "/api/v1/shipments", stale, nil)
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := ts.Do(t, http.MethodGet, "/health", "", nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
