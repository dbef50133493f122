// Package server exposes read-only game graph queries over HTTP.
package server

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"gamegraph/graphdb"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Server holds the HTTP server dependencies
type Server struct {
	db *graphdb.GameDB
}

// New creates a new API server over a loaded GameDB
func New(db *graphdb.GameDB) *Server {
	logrus.WithField("component", "Server").Info("Initializing Server")
	RecordGraphSize(db.Graph().Stats())
	return &Server{db: db}
}

// Router builds the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.GetStats)
		r.Get("/games/{title}", s.GetGame)
		r.Get("/games/{title}/recommendations", s.GetGameRecommendations)
		r.Get("/similarity", s.GetSimilarity)
		r.Post("/recommendations", s.PostRecommendations)
		r.Post("/query", s.PostQuery)
	})
	return r
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStats handles GET /api/stats
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.db.Graph().Stats())
}

// GetGame handles GET /api/games/{title}
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.db.Graph().Game(titleParam(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, game.Details())
}

// GetGameRecommendations handles GET /api/games/{title}/recommendations
// Supports query params: kinds, platforms (comma-separated), max_price, min_rating, limit
func (s *Server) GetGameRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := graphdb.Request{Games: []string{titleParam(r)}}

	var err error
	if req.Kinds, err = graphdb.ResolveKinds(listParam(q, "kinds"), 0); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Filter.MaxPrice, err = floatParam(q, "max_price"); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Filter.MinRating, err = floatParam(q, "min_rating"); err != nil {
		respondError(w, r, err)
		return
	}
	req.Filter.Platforms = listParam(q, "platforms")
	if raw := q.Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil || req.Limit < 1 {
			respondError(w, r, errors.Wrapf(graphdb.ErrInvalidArgument, "limit %q must be a positive integer", raw))
			return
		}
	}

	resp, err := s.db.RunQuery(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// SimilarityResponse is the body of GET /api/similarity
type SimilarityResponse struct {
	A     string   `json:"a"`
	B     string   `json:"b"`
	Kinds []string `json:"kinds"`
	Score float64  `json:"score"`
}

// GetSimilarity handles GET /api/similarity?a=&b=&kinds=
func (s *Server) GetSimilarity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, b := q.Get("a"), q.Get("b")
	if a == "" || b == "" {
		respondError(w, r, errors.Wrap(graphdb.ErrInvalidArgument, "both a and b are required"))
		return
	}
	kinds, err := graphdb.ResolveKinds(listParam(q, "kinds"), graphdb.AttributeKinds)
	if err != nil {
		respondError(w, r, err)
		return
	}
	score, err := s.db.Graph().SimilarityScore(a, b, kinds)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SimilarityResponse{A: a, B: b, Kinds: kinds.Names(), Score: score})
}

// PostRecommendations handles POST /api/recommendations with a Request body
func (s *Server) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req graphdb.Request
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	resp, err := s.db.RunQuery(req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// QueryRequest is the body of POST /api/query
type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

// PostQuery handles POST /api/query
func (s *Server) PostQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := graphdb.ValidateStruct(req); err != nil {
		respondError(w, r, err)
		return
	}
	res, err := s.db.ExecuteQuery(req.Query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "read request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid request body"), graphdb.ErrInvalidArgument)
	}
	return nil
}

// titleParam returns the unescaped {title} path parameter
func titleParam(r *http.Request) string {
	raw := chi.URLParam(r, "title")
	if title, err := url.PathUnescape(raw); err == nil {
		return title
	}
	return raw
}

// listParam splits a comma-separated query parameter
func listParam(q url.Values, name string) []string {
	var out []string
	for _, v := range q[name] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// floatParam parses an optional numeric query parameter
func floatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Wrapf(graphdb.ErrInvalidArgument, "%s %q is not a number", name, raw)
	}
	return &v, nil
}
