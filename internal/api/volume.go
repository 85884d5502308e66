package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/volumed/internal/infrastructure/mqtt"
	"github.com/nerrad567/volumed/internal/volume"
)

// setVolumeRequest is the body of POST /volume.
//
// Level is a pointer so a missing field and an explicit 0.0 can be told
// apart: the clients treat "Missing level parameter" and "Invalid level
// value" as distinct errors.
type setVolumeRequest struct {
	Level *float64 `json:"level"`
}

// setVolumeResponse is the success body of POST /volume.
type setVolumeResponse struct {
	Status  string  `json:"status"`
	Level   float64 `json:"level"`
	Message string  `json:"message"`
}

// getVolumeResponse is the body of GET /volume.
type getVolumeResponse struct {
	Level   float64 `json:"level"`
	Message string  `json:"message"`
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status           string `json:"status"`
	AudioInitialized bool   `json:"audio_initialized"`
}

// historyResponse is the body of GET /volume/history.
type historyResponse struct {
	History []volume.HistoryEntry `json:"history"`
}

// statePayload is the retained MQTT state message published after a
// successful volume change.
type statePayload struct {
	Level     float64 `json:"level"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
}

// handleSetVolume handles POST /volume.
//
// The level must be a JSON number in [0.0, 1.0]. Validation happens here so
// clients get a 400 with a specific message; the controller never sees an
// out-of-range value from this path.
func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	var req setVolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid level value")
		return
	}

	if req.Level == nil {
		writeBadRequest(w, "Missing level parameter")
		return
	}

	level := *req.Level
	if level < 0.0 || level > 1.0 {
		writeBadRequest(w, "Level must be between 0.0 and 1.0")
		return
	}

	if err := s.controller.SetVolume(level); err != nil {
		s.logger.Error("failed to set volume", "level", level, "error", err)
		writeInternalError(w, "Failed to set volume")
		return
	}

	s.recordChange(r, level)

	writeJSON(w, http.StatusOK, setVolumeResponse{
		Status:  "success",
		Level:   level,
		Message: fmt.Sprintf("Volume set to %.2f", level),
	})
}

// handleGetVolume handles GET /volume.
func (s *Server) handleGetVolume(w http.ResponseWriter, r *http.Request) {
	level := s.controller.Volume()
	writeJSON(w, http.StatusOK, getVolumeResponse{
		Level:   level,
		Message: fmt.Sprintf("Current volume: %.2f", level),
	})
}

// handleHealth handles GET /health.
//
// The status is always "healthy" when the server is answering at all;
// audio_initialized distinguishes full service from degraded mode.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		AudioInitialized: s.controller.Initialized(),
	})
}

// handleVolumeHistory handles GET /volume/history.
//
// Accepts an optional ?limit= query parameter. Returns 404 when history
// recording is disabled in configuration.
func (s *Server) handleVolumeHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "History disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "Invalid limit value")
			return
		}
		limit = parsed
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to load volume history", "error", err)
		writeInternalError(w, "Failed to load history")
		return
	}

	if entries == nil {
		entries = []volume.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{History: entries})
}

// handleIndex handles GET / with a short HTML usage page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Volume Control Server</title></head>
<body>
<h1>Volume Control Server</h1>
<p>volumed %s</p>
<ul>
<li><code>POST /volume</code> with body <code>{"level": 0.5}</code> &mdash; set system volume (0.0 to 1.0)</li>
<li><code>GET /volume</code> &mdash; current system volume</li>
<li><code>GET /volume/history</code> &mdash; recent volume changes</li>
<li><code>GET /health</code> &mdash; health and audio status</li>
</ul>
</body>
</html>
`, s.version)
}

// recordChange persists and broadcasts a successful volume change.
//
// Both the history write and the MQTT publish are best-effort: a storage or
// broker failure is logged but never changes the HTTP response the client
// already earned.
func (s *Server) recordChange(r *http.Request, level float64) {
	if s.history != nil {
		if err := s.history.Record(r.Context(), level, volume.HistorySourceAPI); err != nil {
			s.logger.Warn("failed to record volume history", "level", level, "error", err)
		}
	}

	if s.broker != nil {
		payload, err := json.Marshal(statePayload{
			Level:     level,
			Source:    volume.HistorySourceAPI,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		if err == nil {
			err = s.broker.PublishRetained(mqtt.Topics{}.VolumeState(), payload)
		}
		if err != nil {
			s.logger.Warn("failed to publish volume state", "level", level, "error", err)
		}
	}
}
