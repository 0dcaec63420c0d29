package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/algoflow/pkg/buildinfo"
	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/interact"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/observability"
	"github.com/matzehuels/algoflow/pkg/render"
	"github.com/matzehuels/algoflow/pkg/render/nodelink"
	"github.com/matzehuels/algoflow/pkg/render/svg"
	"github.com/matzehuels/algoflow/pkg/scene"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// CreateRequest starts a session from a single state or a step list.
type CreateRequest struct {
	State    json.RawMessage  `json:"state,omitempty"`
	Steps    json.RawMessage  `json:"steps,omitempty"`
	Viewport *layout.Viewport `json:"viewport,omitempty"`
	// Interval is the timeline step delay as a Go duration ("750ms").
	Interval string `json:"interval,omitempty"`
}

// CreateResponse carries the new session id and its first frame.
type CreateResponse struct {
	ID    string       `json:"id"`
	Frame *scene.Frame `json:"frame"`
}

// PointerRequest is one pointer event in viewport coordinates.
type PointerRequest struct {
	Action string  `json:"action" validate:"required,oneof=down move up"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// HandRequest is one hand-tracking sample. Lost reports that no hand is
// visible.
type HandRequest struct {
	Landmarks []interact.Landmark `json:"landmarks,omitempty"`
	Lost      bool                `json:"lost,omitempty"`
}

// CameraRequest reports the camera permission state.
type CameraRequest struct {
	Status string `json:"status" validate:"required"`
}

// TimelineRequest controls step playback.
type TimelineRequest struct {
	Action   string `json:"action" validate:"required,oneof=play pause next prev seek"`
	Index    int    `json:"index,omitempty"`
	Interval string `json:"interval,omitempty"`
}

// StatusResponse describes a session.
type StatusResponse struct {
	ID     string               `json:"id"`
	Type   visual.StructureType `json:"type"`
	Seq    uint64               `json:"seq"`
	Status scene.Status         `json:"status"`
	Step   *scene.StepInfo      `json:"step,omitempty"`
	// Node is the node grabbed or released by a pointer request.
	Node string `json:"node,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"build":    buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sc, err := s.buildScene(&req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	id, err := s.sessions.Create(sc)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.reportSessions()
	s.logger.Info("session created", "id", id, "type", sc.State().Type)

	a, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	f, err := a.Snapshot(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, CreateResponse{ID: id, Frame: f})
}

// buildScene loads the request's structure into a new scene. The scene
// outlives the request, so it gets a background context.
func (s *Server) buildScene(req *CreateRequest) (*scene.Scene, error) {
	opts := scene.OptionsFromConfig(s.cfg, s.logger)
	if req.Viewport != nil {
		if err := visual.Struct(req.Viewport); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid viewport")
		}
		opts.Viewport = *req.Viewport
	}
	sc := scene.New(context.Background(), opts)

	switch {
	case len(req.Steps) > 0:
		interval, err := parseInterval(req.Interval)
		if err != nil {
			return nil, err
		}
		steps, err := visual.ReadTimeline(bytes.NewReader(req.Steps), visual.FormatJSON)
		if err != nil {
			return nil, err
		}
		if err := sc.LoadTimeline(steps, interval); err != nil {
			return nil, err
		}
	case len(req.State) > 0:
		st, err := visual.DecodeBytes(req.State, visual.FormatJSON)
		if err != nil {
			return nil, err
		}
		if err := sc.Load(st); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "request needs a state or steps")
	}
	return sc, nil
}

func parseInterval(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid interval %q", s)
	}
	return d, nil
}

// actor resolves the session named in the URL.
func (s *Server) actor(r *http.Request) (*scene.Actor, error) {
	return s.sessions.Get(chi.URLParam(r, "id"))
}

// status runs fn on the session and responds with its status.
func (s *Server) status(w http.ResponseWriter, r *http.Request, fn func(*scene.Scene, *StatusResponse) error) {
	a, err := s.actor(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp := StatusResponse{ID: chi.URLParam(r, "id")}
	err = a.Do(r.Context(), func(sc *scene.Scene) error {
		if fn != nil {
			if err := fn(sc, &resp); err != nil {
				return err
			}
		}
		resp.Type = sc.State().Type
		resp.Seq = sc.Seq()
		resp.Status = sc.Status()
		if tl := sc.Timeline(); tl != nil {
			resp.Step = tl.Info()
		}
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.status(w, r, nil)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.reportSessions()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodySize)
	st, err := visual.Decode(body, visual.FormatJSON)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.status(w, r, func(sc *scene.Scene, _ *StatusResponse) error {
		return sc.Load(st)
	})
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := visual.Struct(&req); err != nil {
		s.respondError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid pointer event"))
		return
	}

	p := geom.V(req.X, req.Y)
	s.status(w, r, func(sc *scene.Scene, resp *StatusResponse) error {
		switch req.Action {
		case "down":
			id, err := sc.PointerDown(p)
			resp.Node = id
			return err
		case "move":
			sc.PointerMove(p)
		case "up":
			resp.Node = sc.PointerUp()
		}
		return nil
	})
}

func (s *Server) handleHand(w http.ResponseWriter, r *http.Request) {
	var req HandRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	var hand *interact.Hand
	if !req.Lost {
		if len(req.Landmarks) <= interact.IndexTip {
			s.respondError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput,
				"hand needs at least %d landmarks, got %d", interact.IndexTip+1, len(req.Landmarks)))
			return
		}
		hand = &interact.Hand{Landmarks: req.Landmarks}
	}
	s.status(w, r, func(sc *scene.Scene, _ *StatusResponse) error {
		return sc.SetHand(hand)
	})
}

func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	var req CameraRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	status, err := scene.ParseCameraStatus(req.Status)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.status(w, r, func(sc *scene.Scene, _ *StatusResponse) error {
		return sc.SetCamera(status)
	})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	var req TimelineRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := visual.Struct(&req); err != nil {
		s.respondError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid timeline command"))
		return
	}
	interval, err := parseInterval(req.Interval)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.status(w, r, func(sc *scene.Scene, _ *StatusResponse) error {
		tl := sc.Timeline()
		if tl == nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "session has no timeline")
		}
		if interval > 0 {
			tl.SetInterval(interval)
		}
		switch req.Action {
		case "play":
			tl.Play()
		case "pause":
			tl.Pause()
		case "next":
			tl.Next()
		case "prev":
			tl.Prev()
		case "seek":
			tl.Seek(req.Index)
		}
		return nil
	})
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*scene.Frame, bool) {
	a, err := s.actor(r)
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	f, err := a.Snapshot(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return f, true
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if f, ok := s.snapshot(w, r); ok {
		s.respondJSON(w, http.StatusOK, f)
	}
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	f, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	start := time.Now()
	out := svg.RenderSVG(f, svg.WithCursor(), svg.WithExplanation())
	observability.Simulation().OnRender(r.Context(), render.FormatSVG, time.Since(start), nil)

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(out)
}

func (s *Server) handleFrameDOT(w http.ResponseWriter, r *http.Request) {
	f, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	start := time.Now()
	dot := nodelink.ToDOT(f, nodelink.Options{Detailed: r.URL.Query().Get("detailed") == "true"})
	observability.Simulation().OnRender(r.Context(), render.FormatDOT, time.Since(start), nil)

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}
