// internal/httpserver/routes_game.go
//
// HTTP routes for regular play.
//   - POST /game/new      → create a session, issue its token, start question 1
//   - GET  /game/state    → current session view
//   - POST /game/question → start the next question
//   - POST /game/guess    → submit a guess for the current question
//   - POST /game/hint     → reveal the hex breakdown for the current question
//
// Every route except /game/new needs the session token.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/colorquiz/internal/daily"
	"github.com/robalobadob/colorquiz/internal/game"
	"github.com/robalobadob/colorquiz/internal/hint"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/state", s.handleState)
			r.Post("/question", s.handleQuestion)
			r.Post("/guess", s.handleGuess)
			r.Post("/hint", s.handleHint)
		})
	})
}

// newGameRes is returned by /game/new and /daily/new.
type newGameRes struct {
	Token   string      `json:"token"`
	Session sessionView `json:"session"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.startSession(w, r, "")
}

// startSession creates a session (bound to dailyDate when set), starts its
// first question, persists it and issues a token.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, dailyDate string) {
	sess := game.NewSession(uuid.NewString())
	sess.DailyDate = dailyDate

	q, err := s.nextQuestion(sess)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	if err := sess.StartNewQuestion(q); err != nil {
		s.writeGameError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", sess.ID).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.signSessionToken(sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", sess.ID).Str("daily", dailyDate).Msg("session started")
	writeJSON(w, http.StatusOK, newGameRes{Token: tok, Session: newSessionView(sess)})
}

// nextQuestion draws the next question for sess. Daily sessions draw from the
// date's deterministic sequence, indexed by how many questions they started.
func (s *Server) nextQuestion(sess *game.Session) (game.Question, error) {
	if sess.DailyDate == "" {
		return s.gen.Question(), nil
	}
	seed := daily.QuestionSeed(sess.DailyDate, s.opts.DailySalt, sess.Round)
	g, err := game.NewSeededGenerator(seed, s.opts.GeneratorOptions...)
	if err != nil {
		return game.Question{}, err
	}
	return g.Question(), nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session")
		return
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session")
		return
	}
	sess, err := s.store.Update(r.Context(), id, func(sess *game.Session) error {
		q, err := s.nextQuestion(sess)
		if err != nil {
			return err
		}
		return sess.StartNewQuestion(q)
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

type guessReq struct {
	OptionID string `json:"optionId"`
}

type guessRes struct {
	Outcome game.GuessOutcome `json:"outcome"`
	// AnswerBreakdown explains the correct answer once the round is resolved.
	AnswerBreakdown *hint.Breakdown `json:"answerBreakdown,omitempty"`
	Session         sessionView     `json:"session"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session")
		return
	}
	var req guessReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.OptionID == "" {
		writeError(w, http.StatusBadRequest, "missing_option_id")
		return
	}

	var out game.GuessOutcome
	sess, err := s.store.Update(r.Context(), id, func(sess *game.Session) error {
		var err error
		out, err = sess.SubmitGuess(req.OptionID)
		return err
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}

	res := guessRes{Outcome: out, Session: newSessionView(sess)}
	if out.Resolved {
		if b, err := hint.Decompose(string(out.CorrectAnswer)); err == nil {
			res.AnswerBreakdown = &b
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type hintRes struct {
	Hints   []hint.Breakdown  `json:"hints"`
	Preview game.ScorePreview `json:"preview"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session")
		return
	}
	var hints []hint.Breakdown
	sess, err := s.store.Update(r.Context(), id, func(sess *game.Session) error {
		var err error
		hints, err = sess.UseHint()
		return err
	})
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hintRes{Hints: hints, Preview: sess.Preview()})
}

// scoreReq accepts loosely typed input, as browsers send it.
type scoreReq struct {
	Attempt  any `json:"attempt"`
	HintUsed any `json:"hintUsed"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"score": game.ScoreAny(req.Attempt, req.HintUsed)})
}

type statsRes struct {
	Generator   game.Stats `json:"generator"`
	MinDistance int        `json:"minDistance"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsRes{Generator: s.gen.Stats(), MinDistance: s.gen.MinDistance()})
}
