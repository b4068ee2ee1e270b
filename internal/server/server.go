// Package server provides the read-only diff viewer: an HTTP rendering
// of the same comparison data the conversion engine is driven by. It
// never writes anything.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/configkit/ddmigrate/internal/files"
	"github.com/configkit/ddmigrate/pkg/differ"
	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/logging"
)

// Server serves comparison data for the client/product directories it
// was configured with.
type Server struct {
	clientDir  string
	productDir string
	pattern    string
	differ     differ.Differ
	router     chi.Router
}

// New creates a diff viewer over the given directories.
func New(clientDir, productDir, pattern string) *Server {
	s := &Server{
		clientDir:  clientDir,
		productDir: productDir,
		pattern:    pattern,
		differ:     differ.New(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/api/pairs", s.handlePairs)
	r.Get("/api/compare/{name}", s.handleCompare)
	s.router = r

	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the viewer on addr.
func (s *Server) ListenAndServe(addr string) error {
	logging.Info().Str("addr", addr).Msg("Diff viewer listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// pairInfo is the JSON shape for one discovered pair.
type pairInfo struct {
	Name       string `json:"name"`
	HasProduct bool   `json:"has_product"`
}

// comparison is the JSON shape of one pair's diff.
type comparison struct {
	Name       string          `json:"name"`
	HasProduct bool            `json:"has_product"`
	CommonKeys []string        `json:"common_keys"`
	Attributes []attributeInfo `json:"attributes"`
}

type attributeInfo struct {
	ID             string       `json:"id"`
	Classification string       `json:"classification"`
	Changes        []changeInfo `json:"changes,omitempty"`
}

type changeInfo struct {
	Path     string `json:"path"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
	Type     string `json:"type"`
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := files.Discover(s.clientDir, s.productDir, "", s.pattern)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	infos := make([]pairInfo, 0, len(pairs))
	for _, pair := range pairs {
		infos = append(infos, pairInfo{Name: pair.Name, HasProduct: pair.HasProduct()})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	pair, err := s.findPair(name)
	if err != nil {
		if errors.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	client, product, err := files.LoadPair(pair)
	if err != nil {
		if errors.IsMalformed(err) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	report := s.differ.Report(client, product)
	result := comparison{
		Name:       pair.Name,
		HasProduct: pair.HasProduct(),
		CommonKeys: report.CommonKeys,
		Attributes: make([]attributeInfo, 0, len(report.Attributes)),
	}
	for _, attr := range report.Attributes {
		info := attributeInfo{
			ID:             attr.ID,
			Classification: string(attr.Classification),
		}
		for _, change := range attr.Changes {
			info.Changes = append(info.Changes, changeInfo{
				Path:     change.Path,
				OldValue: change.OldValue,
				NewValue: change.NewValue,
				Type:     string(change.Type),
			})
		}
		result.Attributes = append(result.Attributes, info)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) findPair(name string) (files.Pair, error) {
	pairs, err := files.Discover(s.clientDir, s.productDir, "", s.pattern)
	if err != nil {
		return files.Pair{}, err
	}
	for _, pair := range pairs {
		if pair.Name == name {
			return pair, nil
		}
	}
	return files.Pair{}, errors.NewNotFoundError("pair", name)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
