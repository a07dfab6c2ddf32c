package server

import (
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
	"github.com/benjaminlong/mergify-algos/pkg/secret"
)

type message struct {
	Message string `json:"message"`
}

type rootResponse struct {
	Message     string      `json:"message"`
	ClientIP    string      `json:"client_ip"`
	AppSettings appSettings `json:"app_settings"`
}

type appSettings struct {
	AppName     string  `json:"app_name"`
	GitHubToken *string `json:"github_token"`
}

type algoInfo struct {
	GitHubRepo string  `json:"github-repo"`
	UseAsync   *bool   `json:"use_async,omitempty"`
	LimitPages int     `json:"limit_pages"`
	Threshold  int     `json:"threshold"`
	GHToken    *string `json:"gh_token"`
}

type searchResponse struct {
	AlgoInfo algoInfo               `json:"algo-info"`
	Results  []neighbours.Neighbour `json:"results"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message:  "Hello World",
		ClientIP: clientIP(r),
		AppSettings: appSettings{
			AppName:     s.cfg.AppName,
			GitHubToken: secret.MaskPtr(s.cfg.GitHubToken),
		},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("X-App-Alive", "True")
	writeJSON(w, http.StatusOK, message{Message: "It's alive!"})
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, errors.New("this always fails, don't worry"))
}

func (s *Server) handleNeighbours(w http.ResponseWriter, r *http.Request) {
	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")
	q := r.URL.Query()

	limitPages, err := intParam(q, "limit_pages", s.cfg.PageLimit)
	if err == nil {
		err = errs.ValidatePositive("limit_pages", limitPages)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	threshold, err := intParam(q, "threshold", s.cfg.Threshold)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	useAsync, err := boolParam(q, "use_async", true)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	mode := neighbours.ModeSequential
	if useAsync {
		mode = neighbours.ModeConcurrent
	}
	token := s.token(q)
	req := neighbours.Request{Owner: owner, Repo: repo, Token: token, PageLimit: limitPages, Threshold: threshold}

	res, err := s.search(r, req, mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		AlgoInfo: algoInfo{
			GitHubRepo: req.FullName(),
			UseAsync:   &useAsync,
			LimitPages: limitPages,
			Threshold:  threshold,
			GHToken:    secret.MaskPtr(token),
		},
		Results: res.Sorted,
	})
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")
	q := r.URL.Query()

	threshold, err := intParam(q, "threshold", s.cfg.Threshold)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token := s.token(q)
	req := neighbours.Request{Owner: owner, Repo: repo, Token: token, PageLimit: 1, Threshold: threshold}

	res, err := s.search(r, req, neighbours.ModeBulk)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		AlgoInfo: algoInfo{
			GitHubRepo: req.FullName(),
			LimitPages: 1,
			Threshold:  threshold,
			GHToken:    secret.MaskPtr(token),
		},
		Results: res.Sorted,
	})
}

func (s *Server) search(r *http.Request, req neighbours.Request, mode neighbours.Mode) (*neighbours.Result, error) {
	return s.finder.Find(r.Context(), req, mode)
}

// token returns the gh_token query value, or the configured token when the
// parameter is absent.
func (s *Server) token(q url.Values) string {
	if v, ok := q["gh_token"]; ok && len(v) > 0 {
		return v[0]
	}
	return s.cfg.GitHubToken
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
