// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-logr/logr"
	lru "github.com/hashicorp/golang-lru/v2"

	"diet-optimizer/internal/catalog"
	"diet-optimizer/internal/diet"
	"diet-optimizer/internal/metrics"
	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
	"diet-optimizer/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Host      string
	Port      int
	DBPath    string
	Backend   string
	CacheSize int
	// Scenario holds the defaults that tool arguments override.
	Scenario diet.Scenario
	Version  string
}

type DietServer struct {
	info       protocol.Implementation
	httpServer *http.Server
	storage    *storage.SQLiteStorage
	catalog    *catalog.Catalog
	registry   *solver.Registry
	cache      *lru.Cache[string, *diet.Outcome]
	metrics    *metrics.Recorder
	log        logr.Logger
	config     *Config
	tools      map[string]toolHandler
}

func NewDietServer(cfg *Config, foods *catalog.Catalog, registry *solver.Registry, rec *metrics.Recorder, logger logr.Logger) (*DietServer, error) {
	if foods == nil || foods.Len() == 0 {
		return nil, errors.New("no foods to optimize over")
	}
	if rec == nil {
		rec = metrics.NewRecorder()
	}

	// Initialize database
	stor, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	dietServer := &DietServer{
		info:     protocol.Implementation{Name: "diet-optimizer", Version: version},
		storage:  stor,
		catalog:  foods,
		registry: registry,
		metrics:  rec,
		log:      logger.WithName("server"),
		config:   cfg,
	}

	if cfg.CacheSize > 0 {
		dietServer.cache, err = lru.New[string, *diet.Outcome](cfg.CacheSize)
		if err != nil {
			stor.Close()
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
	}

	dietServer.registerTools()

	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	mux.HandleFunc("/tools", dietServer.handleListTools)
	mux.HandleFunc("/", dietServer.handleHTTP)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dietServer.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return dietServer, nil
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *DietServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *DietServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	switch r.Method {
	case http.MethodOptions:
		return
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.info); err != nil {
			s.log.Error(err, "Failed to encode server info")
		}
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		s.log.Info("Tool call failed", "tool", request.Name, "error", err.Error())
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.log.Error(err, "Failed to encode response", "tool", request.Name)
	}
}

// statusFor maps domain errors onto HTTP statuses; anything unrecognized
// is a server failure.
func statusFor(err error) int {
	var (
		paramErr *paramError
		modelErr *diet.ModelError
		dataErr  *models.DataError
		compErr  *models.ComputationError
	)
	switch {
	case errors.As(err, &paramErr), errors.As(err, &modelErr), errors.As(err, &dataErr), errors.As(err, &compErr):
		return http.StatusBadRequest
	case errors.Is(err, solver.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *DietServer) Start(ctx context.Context) error {
	s.log.Info("Starting diet optimizer server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *DietServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.storage != nil {
		if cerr := s.storage.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (s *DietServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
