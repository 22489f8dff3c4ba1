// Package app wires one user's practice engine from its components.
package app

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/netquiz/internal/config"
	"github.com/abhisek/netquiz/internal/mastery"
	"github.com/abhisek/netquiz/internal/practice"
	"github.com/abhisek/netquiz/internal/question"
	"github.com/abhisek/netquiz/internal/session"
	"github.com/abhisek/netquiz/internal/store"
	"github.com/abhisek/netquiz/internal/streak"
	"github.com/abhisek/netquiz/internal/subscription"
)

// Options configures an Engine.
type Options struct {
	Repo      store.StateRepo // nil keeps all state in memory
	Config    config.Config   // zero fields take config.Defaults()
	Logger    *zap.Logger
	Questions []question.Question
	Now       func() time.Time
	Rand      *rand.Rand
}

// Engine is one user's adaptive practice engine.
type Engine struct {
	Mastery  *mastery.Service
	Streak   *streak.Tracker
	Gate     *subscription.Gate
	Selector *practice.Selector
	Recorder *session.Recorder

	questions []question.Question
	cfg       config.Config
	now       func() time.Time
}

// New builds an Engine, loading the user's state from opts.Repo.
func New(ctx context.Context, opts Options) *Engine {
	cfg := opts.Config.WithDefaults()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{questions: opts.Questions, cfg: cfg, now: now}
	e.Mastery = mastery.NewService(ctx, opts.Repo, log.Named("mastery"), now)
	e.Streak = streak.NewTracker(ctx, opts.Repo, log.Named("streak"), now)
	e.Gate = subscription.NewGate(ctx, opts.Repo, log.Named("subscription"), now, subscription.Options{
		FreeMonthlyLimit: cfg.Subscription.FreeMonthlyLimit,
		ProKeyHash:       cfg.Subscription.ProKeyHash,
	})
	e.Recorder = session.NewRecorder(ctx, opts.Repo, log.Named("session"), now, session.Deps{
		Mastery:      e.Mastery,
		Streak:       e.Streak,
		Gate:         e.Gate,
		Questions:    opts.Questions,
		MaxIncorrect: cfg.History.MaxIncorrect,
	})
	e.Selector = practice.NewSelector(e.Mastery, e.Recorder, opts.Rand, practice.Options{
		ExamQuestionCount: cfg.Practice.ExamQuestionCount,
		ExamDuration:      cfg.Practice.ExamDuration(),
	})
	return e
}

// Questions returns the question bank.
func (e *Engine) Questions() []question.Question {
	return e.questions
}

// Config returns the effective configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Plan is an admitted, ready-to-run session.
type Plan struct {
	Mode       practice.Mode
	Questions  []question.Question
	StartIndex int
	IsRedo     bool
	TimeLimit  time.Duration
}

// EndIndex is the cursor position after the plan's block.
func (p Plan) EndIndex() int {
	return p.StartIndex + len(p.Questions)
}

// Plan selects questions for mode and runs them past the gate. A denied
// decision comes back with an empty plan; an allowed decision with an
// empty plan means the mode has no questions to serve.
func (e *Engine) Plan(mode practice.Mode) (Plan, subscription.Decision) {
	if !mode.Valid() {
		return Plan{Mode: mode}, subscription.Decision{Allowed: true, Remaining: e.Gate.Remaining()}
	}
	if !e.Gate.IsModeAllowed(mode) {
		return Plan{Mode: mode}, e.Gate.Admit(mode, 0)
	}

	p := Plan{Mode: mode}
	sel := e.Selector.Select(mode, e.questions, e.cfg.Practice.SessionSize)
	if sel.Sequential {
		p.StartIndex, p.Questions = practice.Sequential(e.questions, e.Recorder.NextStartIndex(), e.cfg.Practice.SessionSize)
	} else {
		p.Questions = sel.Questions
		p.TimeLimit = sel.TimeLimit
	}
	if len(p.Questions) == 0 {
		return p, subscription.Decision{Allowed: true, Remaining: e.Gate.Remaining()}
	}

	d := e.Gate.Admit(mode, len(p.Questions))
	if !d.Allowed {
		return Plan{Mode: mode}, d
	}
	return p, d
}

// Redo plans a repeat of the sequential block at start. Redos never move
// the sequential cursor.
func (e *Engine) Redo(start int) (Plan, subscription.Decision) {
	p := Plan{
		Mode:       practice.ModeNormal,
		Questions:  practice.Block(e.questions, start, e.cfg.Practice.SessionSize),
		StartIndex: start,
		IsRedo:     true,
	}
	if len(p.Questions) == 0 {
		return p, subscription.Decision{Allowed: true, Remaining: e.Gate.Remaining()}
	}
	d := e.Gate.Admit(p.Mode, len(p.Questions))
	if !d.Allowed {
		return Plan{Mode: p.Mode, IsRedo: true}, d
	}
	return p, d
}

// Response is the learner's answer to one planned question.
type Response struct {
	Selected []string
	Elapsed  time.Duration
}

// Grade scores responses against the plan. Missing responses count as
// unanswered.
func (e *Engine) Grade(p Plan, responses []Response) session.Result {
	res := session.Result{
		Mode:       p.Mode,
		Total:      len(p.Questions),
		StartIndex: p.StartIndex,
		EndIndex:   p.EndIndex(),
		IsRedo:     p.IsRedo,
		Answers:    make([]session.Answer, len(p.Questions)),
	}
	for i, q := range p.Questions {
		var r Response
		if i < len(responses) {
			r = responses[i]
		}
		ok := q.IsCorrect(r.Selected)
		if ok {
			res.Score++
		}
		res.Answers[i] = session.Answer{
			QuestionID:       q.ID,
			IsCorrect:        ok,
			SelectedLetters:  append([]string(nil), r.Selected...),
			CorrectLetters:   append([]string(nil), q.CorrectAnswers...),
			TimeTakenSeconds: r.Elapsed.Seconds(),
		}
	}
	return res
}

// Finish grades and commits a completed session.
func (e *Engine) Finish(ctx context.Context, p Plan, responses []Response) session.Entry {
	return e.Recorder.Commit(ctx, e.Grade(p, responses))
}
