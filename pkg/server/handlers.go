package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/tablistplus/pkg/errors"
	"github.com/matzehuels/tablistplus/pkg/layout"
	"github.com/matzehuels/tablistplus/pkg/player"
)

// playerResponse is a player as returned by the API.
type playerResponse struct {
	player.Player
	Hidden bool `json:"hidden"`
}

// tabListResponse is a rendered grid as returned by the API.
type tabListResponse struct {
	Viewer  uuid.UUID     `json:"viewer"`
	Rows    int           `json:"rows"`
	Columns int           `json:"columns"`
	Slots   []layout.Slot `json:"slots"`
}

type joinRequest struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Server string    `json:"server"`
}

type serverRequest struct {
	Server string `json:"server"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"players": s.manager.Registry().Len(),
		"time":    time.Now().UTC(),
	})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	reg := s.manager.Registry()
	players := reg.All()
	out := make([]playerResponse, 0, len(players))
	for _, p := range players {
		out = append(out, playerResponse{Player: p, Hidden: reg.IsHidden(p.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Server != "" {
		if err := errors.ValidateServerName(req.Server); err != nil {
			s.writeError(w, err)
			return
		}
	}
	p, err := s.manager.Join(player.Player{ID: req.ID, Name: req.Name, Server: req.Server})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playerResponse{Player: p})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	if err := s.manager.Leave(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSwitchServer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	var req serverRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.manager.SwitchServer(id, req.Server); err != nil {
		s.writeError(w, err)
		return
	}
	p, _ := s.manager.Registry().Get(id)
	writeJSON(w, http.StatusOK, playerResponse{Player: p, Hidden: s.manager.Registry().IsHidden(id)})
}

func (s *Server) handleHide(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	if err := s.manager.Hide(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnhide(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	if err := s.manager.Unhide(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	if err := s.manager.Refresh(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleTabList(w, r)
}

func (s *Server) handleTabList(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	g, found := s.manager.Snapshot(id)
	if !found {
		s.writeError(w, errors.New(errors.ErrCodePlayerNotFound, "player %s is not connected", id))
		return
	}
	writeJSON(w, http.StatusOK, tabListResponse{
		Viewer:  id,
		Rows:    g.Rows(),
		Columns: g.Columns,
		Slots:   g.Slots,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "reload is not configured"))
		return
	}
	if err := s.reload(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) playerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid player id"))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

// statusOf maps an error code to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.GetCode(err) == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
