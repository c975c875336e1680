package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autochef0332/autochef/docs"
	"github.com/autochef0332/autochef/internal/api/handler"
	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ordering"
	"github.com/autochef0332/autochef/internal/core/ports"
	"github.com/autochef0332/autochef/internal/core/service"
	"github.com/autochef0332/autochef/internal/infrastructure/db/memory"
)

const testSecret = "router-test-secret"

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, domain.ChangeEvent) error { return nil }

type nopMedia struct{}

func (nopMedia) UploadImage(context.Context, string, ports.ImageUpload) (string, error) {
	return "", domain.ErrBackendUnavailable
}

func (nopMedia) DeleteImage(context.Context, string, string) {}

type testServer struct {
	e     *echo.Echo
	store *memory.Store
}

// newTestServer wires the real services over the in-memory backend.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	var changes ports.ChangeRecorder = nopRecorder{}

	deps := service.ManagerDeps{Locker: ordering.NewLocalLocker(), Workers: 4, Logger: log}
	sectionMgr := service.NewSectionManager(store.Sections(), nil, deps)
	itemMgr := service.NewItemManager(store.Items(), nil, deps)
	restaurants := service.NewRestaurantService(store.Restaurants(), changes, log)

	e := NewRouter(Deps{
		Auth:        service.NewAuthService(store.Users(), testSecret, time.Hour),
		Sessions:    service.NewSessionService(store.Restaurants()),
		Restaurants: restaurants,
		Sections:    service.NewSectionService(store.Restaurants(), store.Sections(), sectionMgr, itemMgr, nopMedia{}, changes, log),
		Items:       service.NewItemService(store.Restaurants(), store.Sections(), store.Items(), itemMgr, nopMedia{}, changes, log),
		Media:       nopMedia{},
		Menus:       service.NewMenuService(restaurants, sectionMgr, itemMgr),
		Health: []handler.Dependency{
			{Name: "memory", Ping: func(context.Context) error { return nil }},
		},
		JWTSecret:       testSecret,
		Logger:          log,
		MetricsRegistry: prometheus.NewRegistry(),
	})
	return &testServer{e: e, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body, token string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signUp registers and logs in an owner, returning the bearer token.
func (s *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	creds := `{"email":"` + email + `","password":"correct-horse"}`
	rec := s.do(t, http.MethodPost, "/auth/register", creds, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", creds, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func names(list []domain.MenuSection) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}

// ---------------------------------------------------------------------------
// Route guard
// ---------------------------------------------------------------------------

func TestRouter_GuardFollowsSessionState(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/session", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"anonymous"`)

	rec = s.do(t, http.MethodGet, "/v1/sections", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.signUp(t, "owner@example.com")

	rec = s.do(t, http.MethodGet, "/v1/sections", "", token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"setup"`)

	rec = s.do(t, http.MethodPost, "/v1/restaurant", `{"name":"Casa Pepe"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/restaurant", `{"name":"Casa Pepe 2"}`, token)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"operational"`)

	rec = s.do(t, http.MethodGet, "/v1/session", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"active"`)

	rec = s.do(t, http.MethodGet, "/v1/sections", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_InvalidTokenIsAnonymousForSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/session", "", "not-a-jwt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"anonymous"`)

	rec = s.do(t, http.MethodGet, "/v1/restaurant", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---------------------------------------------------------------------------
// Ordered collections
// ---------------------------------------------------------------------------

func TestRouter_SectionOrdering(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@example.com")
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/restaurant", `{"name":"Casa Pepe"}`, token).Code)

	ids := map[string]string{}
	for _, name := range []string{"Starters", "Mains", "Desserts"} {
		rec := s.do(t, http.MethodPost, "/v1/sections", `{"name":"`+name+`"}`, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids[name] = decode[domain.MenuSection](t, rec).ID
	}

	list := decode[[]domain.MenuSection](t, s.do(t, http.MethodGet, "/v1/sections", "", token))
	assert.Equal(t, []string{"Starters", "Mains", "Desserts"}, names(list))

	order := `{"ids":["` + ids["Desserts"] + `","` + ids["Starters"] + `","` + ids["Mains"] + `"]}`
	rec := s.do(t, http.MethodPut, "/v1/sections/order", order, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list = decode[[]domain.MenuSection](t, rec)
	assert.Equal(t, []string{"Desserts", "Starters", "Mains"}, names(list))
	for i, sec := range list {
		assert.Equal(t, i, sec.Position)
	}

	// Not a permutation of the current ids.
	rec = s.do(t, http.MethodPut, "/v1/sections/order", `{"ids":["`+ids["Mains"]+`"]}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sections/"+ids["Mains"]+"/move", `{"index":0}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Mains", "Desserts", "Starters"}, names(decode[[]domain.MenuSection](t, rec)))

	rec = s.do(t, http.MethodDelete, "/v1/sections/"+ids["Desserts"], "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	list = decode[[]domain.MenuSection](t, s.do(t, http.MethodGet, "/v1/sections", "", token))
	assert.Equal(t, []string{"Mains", "Starters"}, names(list))
	// Survivors keep their positions; the gap closes on the next reorder.
	assert.Equal(t, 2, list[1].Position)
}

func TestRouter_PartialReorderReportsFailedIDs(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@example.com")
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/restaurant", `{"name":"Casa Pepe"}`, token).Code)

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		rec := s.do(t, http.MethodPost, "/v1/sections", `{"name":"`+name+`"}`, token)
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decode[domain.MenuSection](t, rec).ID)
	}

	s.store.FailPositionWrites(ids[0])
	order := `{"ids":["` + ids[2] + `","` + ids[0] + `","` + ids[1] + `"]}`
	rec := s.do(t, http.MethodPut, "/v1/sections/order", order, token)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())

	resp := decode[errorResponse](t, rec)
	assert.Equal(t, []string{ids[0]}, resp.FailedIDs)

	s.store.ClearFailures()
	rec = s.do(t, http.MethodPut, "/v1/sections/order", order, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"C", "A", "B"}, names(decode[[]domain.MenuSection](t, rec)))
}

func TestRouter_Items(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@example.com")
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/restaurant", `{"name":"Casa Pepe"}`, token).Code)

	rec := s.do(t, http.MethodPost, "/v1/sections", `{"name":"Tacos"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	sectionID := decode[domain.MenuSection](t, rec).ID

	rec = s.do(t, http.MethodPost, "/v1/sections/"+sectionID+"/items", `{"name":"Pastor","price":"2.50"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[domain.MenuItem](t, rec)
	assert.Equal(t, "2.5", item.Price.String())
	assert.True(t, item.IsAvailable)

	rec = s.do(t, http.MethodPost, "/v1/sections/"+sectionID+"/items", `{"name":"Suadero","price":"abc"}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	path := "/v1/sections/" + sectionID + "/items/" + item.ID + "/availability"
	rec = s.do(t, http.MethodPatch, path, `{"is_available":false}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[domain.MenuItem](t, rec).IsAvailable)

	rec = s.do(t, http.MethodGet, "/v1/sections/00000000-0000-0000-0000-000000000000/items", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---------------------------------------------------------------------------
// Integrations
// ---------------------------------------------------------------------------

func TestRouter_IntegrationKeyRotation(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "owner@example.com")

	rec := s.do(t, http.MethodPost, "/v1/restaurant", `{"name":"Casa Pepe"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	oldKey := decode[struct {
		SecretKey string `json:"secret_key"`
	}](t, rec).SecretKey
	require.Len(t, oldKey, domain.SecretKeyLength)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/v1/sections", `{"name":"Drinks"}`, token).Code)

	rec = s.do(t, http.MethodGet, "/integrations/v1/menu", "", "", "X-Restaurant-Key", oldKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Drinks"`)
	assert.NotContains(t, rec.Body.String(), oldKey)

	rec = s.do(t, http.MethodPost, "/v1/restaurant/secret-key/reset", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	newKey := decode[struct {
		SecretKey string `json:"secret_key"`
	}](t, rec).SecretKey
	require.NotEqual(t, oldKey, newKey)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/integrations/v1/menu", "", "", "X-Restaurant-Key", oldKey).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/integrations/v1/menu", "", "", "X-Restaurant-Key", newKey).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/integrations/v1/menu", "", "").Code)
}

// ---------------------------------------------------------------------------
// Probes
// ---------------------------------------------------------------------------

func TestRouter_Probes(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", "").Code)

	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "autochef_requests_total")
}

func TestRouter_APIDocsMatchRoutes(t *testing.T) {
	s := newTestServer(t)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	methods := map[string]bool{
		http.MethodGet: true, http.MethodPost: true, http.MethodPut: true,
		http.MethodPatch: true, http.MethodDelete: true,
	}
	param := regexp.MustCompile(`:(\w+)`)
	routed := map[string]bool{}
	for _, r := range s.e.Routes() {
		// group catch-alls, metrics and the docs themselves are not part of the API
		if !methods[r.Method] || strings.Contains(r.Path, "*") || r.Path == "/v1" || r.Path == "/metrics" {
			continue
		}
		path := param.ReplaceAllString(r.Path, "{$1}")
		routed[r.Method+" "+path] = true
		_, ok := doc.Paths[path][strings.ToLower(r.Method)]
		assert.True(t, ok, "%s %s is missing from the API docs", r.Method, path)
	}

	for path, ops := range doc.Paths {
		for method := range ops {
			assert.True(t, routed[strings.ToUpper(method)+" "+path], "docs describe %s %s but no route serves it", method, path)
		}
	}
}
