package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostmap/hostmap/internal/config"
	"github.com/hostmap/hostmap/internal/core"
	"github.com/hostmap/hostmap/internal/extract"
	"github.com/hostmap/hostmap/internal/resolve"
	"github.com/hostmap/hostmap/internal/source"
)

func newTestServer() *Server {
	assets := &source.Static{Table: [][]string{
		{"hostname", "ip", "os", "env", "dc", "owner", "support_group"},
		{"WEB01", "", "", "", "", "", "NETOPS"},
		{"DB02", "", "", "", "", "", "DBTEAM"},
	}}
	contacts := &source.Static{Table: [][]string{
		{"support_group", "app_owner", "email_distros", "individual_contacts", "notes"},
		{"NETOPS", "Alice Chen", "netops@example.com", "", ""},
	}}

	groups := &resolve.GroupResolver{Source: assets, HostnameColumn: 0, GroupColumn: 6}
	contactResolver := &resolve.ContactResolver{
		Source:  contacts,
		Columns: resolve.ContactColumns{Group: 0, Owner: 1, Emails: 2, Individuals: 3, Notes: 4},
	}

	return New(config.ServerConfig{Host: "127.0.0.1", Port: 0}, Deps{
		Pipeline: &resolve.Pipeline{
			Extractor: &extract.PatternExtractor{},
			Groups:    groups,
			Contacts:  contactResolver,
		},
		Groups:   groups,
		Contacts: contactResolver,
		Version:  "test",
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "test", body["version"])
}

func TestResolveEndpoint(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve",
		strings.NewReader(`{"ticket": "Server: WEB01 unreachable"}`))
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result core.TicketResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 100, result.Summary.CoveragePercent)
	require.Equal(t, []string{"WEB01"}, result.Groups["NETOPS"].Hostnames)
}

func TestResolveEndpointRejectsEmptyTicket(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", strings.NewReader(`{"ticket": ""}`))
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHostnameEndpoint(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hostnames/DB02", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var lookup core.SupportGroupLookup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lookup))
	require.Equal(t, "DBTEAM", lookup.SupportGroup)
}

func TestHostnameEndpointNotFound(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hostnames/GHOST99", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroupContactsEndpoint(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/groups/NETOPS/contacts", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var bundle core.ContactBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
	require.Equal(t, "Alice Chen", bundle.AppOwner)
}

func TestGroupContactsEndpointNotFound(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/groups/STORAGE/contacts", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
