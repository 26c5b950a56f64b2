// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/relabs-tech/view360/internal/heading"
	"github.com/relabs-tech/view360/internal/metrics"
	"github.com/relabs-tech/view360/internal/render"
	"github.com/relabs-tech/view360/internal/view"
)

type server struct {
	view    *view.View
	hub     *render.Hub
	raster  *render.Rasterizer
	metrics *metrics.Collector
}

type strategyRequest struct {
	Index *int   `json:"index,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (s *server) routes(staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.Handle("/api/snapshot.png", s.raster)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/api/strategy", s.handleStrategy)

	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			mux.Handle("/", http.FileServer(http.Dir(staticDir)))
		}
	}
	return mux
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	f, ok := s.view.Last()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		f, ok := s.view.Last()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, f.Strategies)

	case http.MethodPost:
		var req strategyRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		var err error
		switch {
		case req.Index != nil:
			err = s.view.SelectStrategy(*req.Index)
		case req.Name != "":
			var st heading.Strategy
			if st, err = heading.ParseStrategy(req.Name); err == nil {
				err = s.view.SetStrategy(st)
			}
		default:
			http.Error(w, "index or name required", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)

	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}
