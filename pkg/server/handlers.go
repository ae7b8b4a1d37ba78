package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/render/sink"
	"github.com/matzehuels/lineage/pkg/scene"
	"github.com/matzehuels/lineage/pkg/session"
)

// SessionResponse answers POST /api/sessions.
type SessionResponse struct {
	ID        string        `json:"id"`
	ExpiresAt time.Time     `json:"expires_at"`
	Plan      sink.WirePlan `json:"plan"`
}

// BioResponse answers GET /api/sessions/{sid}/bio/{id}.
type BioResponse struct {
	ID   hierarchy.ID `json:"id"`
	Name string       `json:"name"`
	Bio  string       `json:"bio"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatAnimated: "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatPlan:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatGraph:    "image/svg+xml",
}

// handleCreateSession builds a session from the current tree. Optional
// click query parameters are replayed by name before the session is
// returned, so a page can open on a prepared view. depth=0 shows the root
// alone.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	opts := s.opts.Pipeline
	opts.Clicks = r.URL.Query()["click"]
	if d := r.URL.Query().Get("depth"); d != "" {
		depth, err := strconv.Atoi(d)
		if err != nil {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid depth %q", d))
			return
		}
		opts.InitialDepth = depth
	}

	sess, err := s.runner.Interact(r.Context(), s.Record(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	s.logger.Debug("session created", "session", sess.ID)

	writeJSON(w, http.StatusCreated, SessionResponse{
		ID:        sess.ID,
		ExpiresAt: sess.ExpiresAt(),
		Plan:      lastWirePlan(sess),
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.sessionNode(w, r)
	if !ok {
		return
	}
	var wp sink.WirePlan
	err := sess.ClickView(id, func(t *hierarchy.Tree, sc *scene.Scene, plan *scene.Plan) {
		wp = sink.NewWirePlan(t, sc.Layout(), plan)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusOK, wp)
}

func (s *Server) handleBio(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.sessionNode(w, r)
	if !ok {
		return
	}
	bio, err := sess.Hover(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, _ := sess.Person(id)
	writeJSON(w, http.StatusOK, BioResponse{ID: id, Name: p.Name, Bio: bio})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "sid")); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport renders one format through the pipeline. With a session
// query parameter the session's current view is rendered; otherwise a
// fresh one is built from the click and depth parameters.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := s.opts.Pipeline
	opts.Formats = []string{format}
	opts.Bios = q.Get("bios") == "1" || q.Get("bios") == "true"

	var data []byte
	if sid := q.Get("session"); sid != "" {
		sess, err := s.lookup(r, sid)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), sess, "", opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data = artifacts[format]
	} else {
		opts.Clicks = q["click"]
		if d := q.Get("depth"); d != "" {
			depth, err := strconv.Atoi(d)
			if err != nil {
				s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid depth %q", d))
				return
			}
			opts.InitialDepth = depth
		}
		res, err := s.runner.Execute(r.Context(), s.Record(), opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data = res.Artifacts[format]
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if q.Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="lineage`+pipeline.Extensions[format]+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"persons": s.Record().Count(),
	})
}

// sessionNode resolves the {sid} and {id} URL parameters.
func (s *Server) sessionNode(w http.ResponseWriter, r *http.Request) (*session.Session, hierarchy.ID, bool) {
	sess, err := s.lookup(r, chi.URLParam(r, "sid"))
	if err != nil {
		s.fail(w, r, err)
		return nil, 0, false
	}
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", raw))
		return nil, 0, false
	}
	return sess, hierarchy.ID(id), true
}

func (s *Server) lookup(r *http.Request, sid string) (*session.Session, error) {
	sess, err := s.store.Get(r.Context(), sid)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found or expired", sid)
	}
	return sess, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		reportError(r, err)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError && errors.GetCode(err) == "" {
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func lastWirePlan(sess *session.Session) sink.WirePlan {
	var wp sink.WirePlan
	sess.ViewPlan(func(t *hierarchy.Tree, sc *scene.Scene, plan *scene.Plan) {
		wp = sink.NewWirePlan(t, sc.Layout(), plan)
	})
	return wp
}
