// Package api - thin HTTP layer over the pricing engine. The API is
// only responsible for input ingestion, engine orchestration, and
// output serialization; it never performs pricing logic.
package api

import (
	"encoding/json"
	"net/http"

	"cloudprice/core/catalog"
	"cloudprice/core/engine"
	"cloudprice/internal/errors"
)

// Server is the API server.
type Server struct {
	engine  *engine.Engine
	mux     *http.ServeMux
	version string
}

// NewServer creates an API server over the given engine.
func NewServer(e *engine.Engine, version string) *Server {
	s := &Server{
		engine:  e,
		mux:     http.NewServeMux(),
		version: version,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /price/instance", s.handleInstancePrice)
	s.mux.HandleFunc("POST /price/volume", s.handleVolumePrice)
	s.mux.HandleFunc("POST /matrix", s.handleMatrix)

	// Supporting endpoints
	s.mux.HandleFunc("GET /regions", s.handleRegions)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleInstancePrice handles POST /price/instance
func (s *Server) handleInstancePrice(w http.ResponseWriter, r *http.Request) {
	var req InstancePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Validation("invalid JSON: "+err.Error()))
		return
	}

	opts := req.instanceOptions()

	// A gateway SKU name overrides the cluster's default gateway rate.
	if req.GatewaySKU != "" {
		rate, err := s.engine.GatewayRate(r.Context(), req.GatewaySKU)
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.GatewayOverridePrice = rate
	}

	hourly, err := s.engine.SingleInstancePrice(r.Context(),
		catalog.Provider(req.Provider), catalog.ProductLine(req.Product),
		req.InstanceType, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, PriceResponse{HourlyUSD: hourly.String()}, http.StatusOK)
}

// handleVolumePrice handles POST /price/volume
func (s *Server) handleVolumePrice(w http.ResponseWriter, r *http.Request) {
	var req VolumePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Validation("invalid JSON: "+err.Error()))
		return
	}

	hourly, err := s.engine.VolumePrice(r.Context(),
		catalog.Provider(req.Provider), catalog.ProductLine(req.Product),
		catalog.Options{
			Region:      req.Region,
			VolumeType:  req.VolumeType,
			StorageType: req.StorageType,
			VolumeSize:  req.VolumeSize,
		})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, PriceResponse{HourlyUSD: hourly.String()}, http.StatusOK)
}

// handleMatrix handles POST /matrix
func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Validation("invalid JSON: "+err.Error()))
		return
	}

	matrix, err := s.engine.RegionalMatrix(r.Context(),
		catalog.Provider(req.Provider), catalog.ProductLine(req.Product),
		req.matrixOptions())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, MatrixResponse{
		Provider: req.Provider,
		Region:   req.Region,
		Rows:     matrix.Table(),
	}, http.StatusOK)
}

// handleRegions handles GET /regions
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	provider := catalog.Provider(r.URL.Query().Get("provider"))
	regions, err := s.engine.ManagedRegions(r.Context(), provider)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string][]string{"regions": regions}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"version": s.version}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps a typed error to its HTTP status and envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.TypeInternal
	var typed *errors.Error
	if e, ok := err.(*errors.Error); ok {
		typed = e
		code = e.Type
	}

	status := http.StatusInternalServerError
	switch code {
	case errors.TypeValidation, errors.TypeConfig:
		status = http.StatusBadRequest
	case errors.TypeNotFound, errors.TypeNoPrice:
		status = http.StatusNotFound
	case errors.TypeAmbiguous:
		status = http.StatusConflict
	case errors.TypeTransport:
		status = http.StatusBadGateway
	}

	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    string(code),
			"message": err.Error(),
		},
	}
	if typed != nil && len(typed.Context) > 0 {
		body["error"].(map[string]interface{})["context"] = typed.Context
	}
	s.writeJSON(w, body, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
