package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mevwatcher/config"
	"mevwatcher/evm"
	"mevwatcher/logger"
	"mevwatcher/utils"
)

// DetectServer exposes the detector as a stateless request/response endpoint.
type DetectServer struct {
	server *http.Server
}

// DetectResponse is the body of every /detect answer. Error is set only for malformed input.
type DetectResponse struct {
	Sandwich bool   `json:"sandwich"`
	Error    string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

var startTime = time.Now()

func NewDetectServer(addr string, finder evm.SandwichFinder) *DetectServer {
	return &DetectServer{
		server: &http.Server{
			Addr:         addr,
			Handler:      NewHandler(finder),
			ReadTimeout:  config.DefaultReadTimeout,
			WriteTimeout: config.DefaultWriteTimeout,
		},
	}
}

// NewHandler returns the routes without binding a listener.
func NewHandler(finder evm.SandwichFinder) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/detect", detectHandler(finder))
	mux.HandleFunc("/health", healthHandler)
	return mux
}

func (ds *DetectServer) Start() error {
	logger.GlobalLogger.Info("Starting detect server", "addr", ds.server.Addr)
	return ds.server.ListenAndServe()
}

func (ds *DetectServer) Stop(ctx context.Context) error {
	logger.GlobalLogger.Info("Stopping detect server...")
	return ds.server.Shutdown(ctx)
}

// detectHandler answers 400 with the parse error, so clients can tell bad input from a negative verdict.
func detectHandler(finder evm.SandwichFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes))
		if err != nil {
			logger.DetectLogger.Error(utils.READ_FAILURE, "err", err)
			writeJSON(w, http.StatusBadRequest, DetectResponse{Error: fmt.Sprintf("%s: %v", utils.READ_FAILURE, err)})
			return
		}

		verdict, err := finder.InspectJSON(doc)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, DetectResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, DetectResponse{Sandwich: verdict.Sandwich})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.GlobalLogger.Warn("Failed to write response", "err", err)
	}
}
