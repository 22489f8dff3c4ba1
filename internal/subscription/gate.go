package subscription

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/netquiz/internal/practice"
	"github.com/abhisek/netquiz/internal/store"
)

// Unlimited is reported as the remaining quota of a pro subscription.
const Unlimited = -1

// Feature names a gated capability outside practice modes.
type Feature string

const (
	FeatureAIExplanation Feature = "ai-explanation"
	FeatureAIAnalysis    Feature = "ai-analysis"
	FeatureRoadmap       Feature = "roadmap"
)

// Reason explains a denied Decision.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonQuotaExhausted Reason = "monthly question limit reached"
	ReasonQuotaExceeded  Reason = "session is larger than the remaining monthly questions"
	ReasonModeLocked     Reason = "mode requires pro"
	ReasonFeatureLocked  Reason = "feature requires pro"
	ReasonInvalidKey     Reason = "invalid pro key"
)

// Decision is the result of an admission check. Denials are values, not
// errors; callers must check Allowed.
type Decision struct {
	Allowed   bool
	Remaining int
	Reason    Reason
}

var freeModes = []practice.Mode{practice.ModeNormal, practice.ModeWeak}

// Options configures a Gate. Zero values take the defaults.
type Options struct {
	FreeMonthlyLimit int
	ProKeyHash       string
}

// Gate holds one user's tier and usage ledger.
type Gate struct {
	tier   Tier
	ledger Ledger
	opts   Options

	repo store.StateRepo
	log  *zap.Logger
	now  func() time.Time
}

// NewGate creates a Gate, loading the tier and ledger from repo. Failed
// loads fall back to the free tier and an empty ledger.
func NewGate(ctx context.Context, repo store.StateRepo, log *zap.Logger, now func() time.Time, opts Options) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	if opts.FreeMonthlyLimit <= 0 {
		opts.FreeMonthlyLimit = DefaultFreeMonthlyLimit
	}
	if opts.ProKeyHash == "" {
		opts.ProKeyHash = DefaultProKeyHash
	}
	g := &Gate{tier: TierFree, opts: opts, repo: repo, log: log, now: now}
	if repo == nil {
		return g
	}

	var tier string
	if _, err := repo.Load(ctx, store.KeyTier, &tier); err != nil {
		log.Warn("load tier", zap.Error(err))
	}
	g.tier = ParseTier(tier)

	if _, err := repo.Load(ctx, store.KeyUsage, &g.ledger); err != nil {
		log.Warn("load usage", zap.Error(err))
		g.ledger = Ledger{}
	}
	return g
}

// Tier returns the current tier.
func (g *Gate) Tier() Tier { return g.tier }

// IsPro reports whether the current tier is pro.
func (g *Gate) IsPro() bool { return g.tier == TierPro }

// Activate upgrades to pro when key hashes to the configured pro key hash.
func (g *Gate) Activate(ctx context.Context, key string) Decision {
	if !keyMatches(key, g.opts.ProKeyHash) {
		return Decision{Allowed: false, Remaining: g.Remaining(), Reason: ReasonInvalidKey}
	}
	g.setTier(ctx, TierPro)
	return Decision{Allowed: true, Remaining: Unlimited}
}

// UpgradeNow upgrades to pro unconditionally, as after a completed payment.
func (g *Gate) UpgradeNow(ctx context.Context) Decision {
	g.setTier(ctx, TierPro)
	return Decision{Allowed: true, Remaining: Unlimited}
}

// Deactivate returns to the free tier. It is an administrative action;
// nothing in the gate downgrades on its own.
func (g *Gate) Deactivate(ctx context.Context) {
	g.setTier(ctx, TierFree)
}

// Usage returns this month's usage without persisting a month reset.
func (g *Gate) Usage() Usage {
	return CurrentUsage(g.ledger, g.opts.FreeMonthlyLimit, g.now())
}

// Remaining returns the questions left this month, or Unlimited for pro.
func (g *Gate) Remaining() int {
	if g.IsPro() {
		return Unlimited
	}
	return g.Usage().Remaining()
}

// CanStartSession decides whether a session of n questions fits the quota.
// Sessions are granted whole or not at all.
func (g *Gate) CanStartSession(n int) Decision {
	if g.IsPro() {
		return Decision{Allowed: true, Remaining: Unlimited}
	}
	remaining := g.Usage().Remaining()
	switch {
	case remaining <= 0:
		return Decision{Allowed: false, Remaining: 0, Reason: ReasonQuotaExhausted}
	case n > remaining:
		return Decision{Allowed: false, Remaining: remaining, Reason: ReasonQuotaExceeded}
	}
	return Decision{Allowed: true, Remaining: remaining - max(0, n)}
}

// Admit authorizes a session of n questions in mode. The mode capability
// is checked before the quota.
func (g *Gate) Admit(mode practice.Mode, n int) Decision {
	if !g.IsModeAllowed(mode) {
		return Decision{Allowed: false, Remaining: g.Remaining(), Reason: ReasonModeLocked}
	}
	return g.CanStartSession(n)
}

// RecordUsage debits n questions from the free ledger and persists it.
func (g *Gate) RecordUsage(ctx context.Context, n int) {
	next, ok := g.PendingUsage(n)
	if !ok {
		return
	}
	g.ledger = next
	if g.repo == nil {
		return
	}
	if err := store.Put(ctx, g.repo, store.KeyUsage, g.ledger); err != nil {
		g.log.Warn("save usage", zap.Error(err))
	}
}

// PendingUsage returns the ledger RecordUsage(n) would store, and false
// when it would store nothing.
func (g *Gate) PendingUsage(n int) (Ledger, bool) {
	if g.IsPro() || n <= 0 {
		return g.ledger, false
	}
	return Debit(g.ledger, n, g.now()), true
}

// Ledger returns the stored ledger as held in memory.
func (g *Gate) Ledger() Ledger {
	return g.ledger
}

// ReplaceLedger swaps in l without persisting.
func (g *Gate) ReplaceLedger(l Ledger) {
	g.ledger = l
}

// IsModeAllowed reports whether the tier permits mode.
func (g *Gate) IsModeAllowed(mode practice.Mode) bool {
	if g.IsPro() {
		return true
	}
	return slices.Contains(freeModes, mode)
}

// AllowedModes returns the modes the tier permits; nil means all.
func (g *Gate) AllowedModes() []practice.Mode {
	if g.IsPro() {
		return nil
	}
	return slices.Clone(freeModes)
}

// IsFeatureAllowed reports whether the tier permits f. The free tier has
// none of the gated features.
func (g *Gate) IsFeatureAllowed(f Feature) bool {
	return g.IsPro()
}

// AdmitFeature is IsFeatureAllowed as a Decision.
func (g *Gate) AdmitFeature(f Feature) Decision {
	if !g.IsFeatureAllowed(f) {
		return Decision{Allowed: false, Remaining: g.Remaining(), Reason: ReasonFeatureLocked}
	}
	return Decision{Allowed: true, Remaining: g.Remaining()}
}

func (g *Gate) setTier(ctx context.Context, t Tier) {
	g.tier = t
	if g.repo == nil {
		return
	}
	if err := store.Put(ctx, g.repo, store.KeyTier, string(t)); err != nil {
		g.log.Warn("save tier", zap.Error(err), zap.String("tier", string(t)))
	}
}
