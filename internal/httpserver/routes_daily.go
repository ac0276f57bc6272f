// internal/httpserver/routes_daily.go
//
// HTTP routes for daily mode.
//   - POST /daily/new   → start a session bound to today's question sequence
//   - GET  /daily/today → today's date key
//
// Every player who starts a daily session on the same UTC date gets the same
// colors in the same order. Sessions then continue through the regular
// /game routes with the returned token.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/colorquiz/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/today", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"date": daily.DateKey(time.Now())})
		})
	})
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	s.startSession(w, r, daily.DateKey(time.Now()))
}
