package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/memstore"
	"github.com/light-bringer/pav-service/internal/config"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/services"
	httphandler "github.com/light-bringer/pav-service/internal/transport/http"
)

type testServer struct {
	mem  *memstore.Store
	echo *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mem := memstore.New()
	cfg := &config.Config{
		Backend:     config.BackendMemory,
		Inheritance: config.Inheritance{RelationInheritance: true},
	}
	clk := clock.NewTickingClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), time.Second)
	opts := services.Wire(services.MemoryRepositories(mem), cfg, clk, zap.NewNop())
	e := httphandler.NewServer(opts.Handler(), opts.Catalog, zap.NewNop())
	return &testServer{mem: mem, echo: e}
}

func (s *testServer) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func (s *testServer) seed() {
	s.mem.PutProduct(&domain.Product{ID: "p", Name: "Parent"})
	s.mem.PutProduct(&domain.Product{ID: "c", Name: "Child"})
	s.mem.Link("p", "c", false)
	s.mem.PutAttribute(&domain.Attribute{
		ID:        "color",
		Name:      "Color",
		Type:      domain.TypeVarchar,
		MaxLength: domain.Ptr(int64(5)),
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateValue(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(t, http.MethodPost, "/api/v1/values",
		`{"productId":"p","attributeId":"color","value":"red"}`,
		httphandler.HeaderUserID, "u1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Values []map[string]any `json:"values"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Values, 1)
	assert.Equal(t, "p", body.Values[0]["productId"])
	assert.Equal(t, "Color", body.Values[0]["attributeName"])
	assert.Equal(t, "red", body.Values[0]["value"])

	live := s.mem.LiveValues()
	require.Len(t, live, 1)
	assert.Equal(t, "u1", live[0].CreatedByID)

	// the child receives a cascade job
	rec = s.do(t, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs struct {
		Jobs []httphandler.Job `json:"jobs"`
	}
	decode(t, rec, &jobs)
	require.NotEmpty(t, jobs.Jobs)
	assert.Equal(t, string(domain.ActionCreate), jobs.Jobs[0].Action)
	assert.Equal(t, string(domain.JobPending), jobs.Jobs[0].Status)
}

func TestCreateValue_ValidationErrorIsLocalized(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(t, http.MethodPost, "/api/v1/values",
		`{"productId":"p","attributeId":"color","value":"magenta"}`,
		"Accept-Language", "de-DE,de;q=0.9")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body httphandler.ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, httphandler.CodeInvalidArgument, body.Code)
	assert.Equal(t, domain.KeyMaxLengthIsExceeded, body.Key)
	assert.Contains(t, body.Message, "Color")
	assert.Contains(t, body.Message, "erlaubt")
	assert.Empty(t, s.mem.LiveValues())
}

func TestCreateValue_Duplicate(t *testing.T) {
	s := newTestServer(t)
	s.seed()
	body := `{"productId":"p","attributeId":"color","value":"red"}`

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/values", body).Code)
	rec := s.do(t, http.MethodPost, "/api/v1/values", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp httphandler.ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, httphandler.CodeConflict, resp.Code)
}

func TestCreateValue_MalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/values", `{"productId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetValue_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/values/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body httphandler.ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, httphandler.CodeNotFound, body.Code)
}

func TestUpdateAndDeleteValue(t *testing.T) {
	s := newTestServer(t)
	s.seed()
	s.mem.PutValue(&domain.Value{
		ID:            "v1",
		ProductID:     "c",
		AttributeID:   "color",
		Scope:         domain.ScopeGlobal,
		Language:      domain.LanguageMain,
		AttributeType: domain.TypeVarchar,
		VarcharValue:  domain.Ptr("red"),
	})

	rec := s.do(t, http.MethodPatch, "/api/v1/values/v1", `{"value":"blue"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]any
	decode(t, rec, &updated)
	assert.Equal(t, "blue", updated["value"])

	rec = s.do(t, http.MethodDelete, "/api/v1/values/v1?simple=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := s.mem.Value("v1")
	require.True(t, ok)
	assert.Empty(t, s.mem.LiveValues())

	rec = s.do(t, http.MethodDelete, "/api/v1/values/v1?simple=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListValues(t *testing.T) {
	s := newTestServer(t)
	s.seed()
	s.mem.PutValue(&domain.Value{
		ID:            "v1",
		ProductID:     "p",
		AttributeID:   "color",
		Scope:         domain.ScopeGlobal,
		Language:      domain.LanguageMain,
		AttributeType: domain.TypeVarchar,
		VarcharValue:  domain.Ptr("red"),
	})

	rec := s.do(t, http.MethodGet, "/api/v1/products/p/values", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Values []map[string]any `json:"values"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Values, 1)
	assert.Equal(t, "v1", body.Values[0]["id"])

	rec = s.do(t, http.MethodGet, "/api/v1/products/nope/values", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListGroups_NoGroupLabelFollowsLocale(t *testing.T) {
	s := newTestServer(t)
	s.seed()
	s.mem.PutValue(&domain.Value{
		ID:            "v1",
		ProductID:     "p",
		AttributeID:   "color",
		Scope:         domain.ScopeGlobal,
		Language:      domain.LanguageMain,
		AttributeType: domain.TypeVarchar,
		VarcharValue:  domain.Ptr("red"),
	})

	rec := s.do(t, http.MethodGet, "/api/v1/products/p/groups?locale=de_DE", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Groups []map[string]any `json:"groups"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Groups, 1)
	assert.Equal(t, "Keine Gruppe", body.Groups[0]["label"])
}

func TestSaveHierarchyAndUnlinkChild(t *testing.T) {
	s := newTestServer(t)
	s.mem.PutProduct(&domain.Product{ID: "a", Name: "A"})
	s.mem.PutProduct(&domain.Product{ID: "b", Name: "B"})

	rec := s.do(t, http.MethodPut, "/api/v1/hierarchy", `{"parentId":"a","childId":"b","mainChild":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var edge httphandler.EdgeResponse
	decode(t, rec, &edge)
	assert.NotEmpty(t, edge.ID)
	assert.Equal(t, "b", edge.ChildID)
	assert.True(t, edge.MainChild)

	rec = s.do(t, http.MethodDelete, "/api/v1/products/a/children/b", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.mem.Edges("a"))

	rec = s.do(t, http.MethodDelete, "/api/v1/products/a/children/b", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearAssetReferences(t *testing.T) {
	s := newTestServer(t)
	s.mem.PutProduct(&domain.Product{ID: "a", Name: "A", ImageID: "f1"})
	s.mem.PutProduct(&domain.Product{ID: "b", Name: "B", ImageID: "f2"})

	rec := s.do(t, http.MethodPost, "/api/v1/files/f1/removed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cleared":1}`, rec.Body.String())

	p, ok := s.mem.Product("a")
	require.True(t, ok)
	assert.Empty(t, p.ImageID)
}

func TestListJobs_InvalidLimit(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/jobs?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health", "")
	rec := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
