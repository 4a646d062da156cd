package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alfredjeanlab/audit/internal/model"
)

// Paths that skip bearer-token authentication.
const (
	healthPath  = "/admin/health"
	metricsPath = "/metrics"
)

// maxTenantBody bounds the tenant attributes document.
const maxTenantBody = 1 << 20

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except health and metrics) must
// include a valid Authorization: Bearer <token> header.
func (s *TenantServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /_/tenant", s.handleProvision)
	mux.HandleFunc("DELETE /_/tenant", s.handleDeprovision)
	mux.HandleFunc("GET /_/tenant", s.handleExists)
	mux.HandleFunc("GET "+healthPath, s.handleHealth)
	mux.Handle("GET "+metricsPath, promhttp.Handler())
	return AuthMiddleware(authToken, mux)
}

// handleProvision handles POST /_/tenant.
func (s *TenantServer) handleProvision(w http.ResponseWriter, r *http.Request) {
	attrs, err := decodeAttributes(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.tenants.Provision(r.Context(), attrs, model.HeadersFromHTTP(r.Header))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeResult(w, res)
}

// handleDeprovision handles DELETE /_/tenant.
func (s *TenantServer) handleDeprovision(w http.ResponseWriter, r *http.Request) {
	res, err := s.tenants.Deprovision(r.Context(), model.HeadersFromHTTP(r.Header))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeResult(w, res)
}

// handleExists handles GET /_/tenant.
func (s *TenantServer) handleExists(w http.ResponseWriter, r *http.Request) {
	ok, err := s.tenants.Exists(r.Context(), model.HeadersFromHTTP(r.Header))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

// handleHealth handles GET /admin/health.
func (s *TenantServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAttributes reads the tenant attributes document. An empty body is
// treated as an empty document.
func decodeAttributes(r *http.Request) (*model.TenantAttributes, error) {
	attrs := &model.TenantAttributes{}
	err := json.NewDecoder(io.LimitReader(r.Body, maxTenantBody)).Decode(attrs)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid tenant attributes: " + err.Error())
	}
	return attrs, nil
}

func (s *TenantServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrMissingTenant) || errors.Is(err, model.ErrInvalidTenant) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("tenant request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// writeResult writes a lifecycle result with its own status, content type
// and body.
func writeResult(w http.ResponseWriter, res *model.Result) {
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if len(res.Body) > 0 && res.ContentType != "" {
		w.Header().Set("Content-Type", res.ContentType)
	}
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
