// Package dispute implements the dispute registry: a keyed set of dispute
// records with a resolution-deadline state machine. An admin may rule while
// the window is open; after the window anyone can trigger the claimant
// favoring timeout refund, bounding the admin's power.
package dispute

import (
	"fmt"
	"math/big"
	"strings"

	"paywow/core/clock"
	"paywow/core/events"
	"paywow/core/identity"
)

type registryState interface {
	DisputePut(*Dispute) error
	DisputeGet(id string) (*Dispute, bool, error)
}

// Registry wires dispute bookkeeping with external state, the logical clock
// and the event emitter.
type Registry struct {
	state   registryState
	auth    identity.Verifier
	clock   clock.Clock
	emitter events.Emitter
	admin   [20]byte
	window  uint64
}

// NewRegistry creates a registry ruled by admin with the given resolution
// window in ticks.
func NewRegistry(admin [20]byte, window uint64) *Registry {
	return &Registry{
		auth:    identity.StrictVerifier{},
		emitter: events.NoopEmitter{},
		admin:   admin,
		window:  window,
	}
}

// SetState configures the state backend used by the registry.
func (r *Registry) SetState(state registryState) { r.state = state }

// SetClock configures the logical clock used for deadline comparisons.
func (r *Registry) SetClock(c clock.Clock) { r.clock = c }

// SetVerifier configures the identity verification collaborator. Passing nil
// resets the verifier to strict caller/principal matching.
func (r *Registry) SetVerifier(auth identity.Verifier) {
	if auth == nil {
		r.auth = identity.StrictVerifier{}
		return
	}
	r.auth = auth
}

// SetEmitter configures the event emitter. Passing nil resets the emitter to a
// no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// Window returns the configured resolution window in ticks.
func (r *Registry) Window() uint64 { return r.window }

func (r *Registry) emit(evt events.Event) {
	if r == nil || r.emitter == nil || evt == nil {
		return
	}
	r.emitter.Emit(evt)
}

func (r *Registry) tick() uint64 {
	if r == nil || r.clock == nil {
		return 0
	}
	return r.clock.Tick()
}

func (r *Registry) load(id string) (*Dispute, error) {
	if r == nil || r.state == nil {
		return nil, ErrNilState
	}
	d, ok, err := r.state.DisputeGet(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

// File opens a new dispute in state Filed. The caller must hold the
// claimant's authority. The resolution deadline is the current tick plus the
// configured window.
func (r *Registry) File(caller [20]byte, id string, claimant, respondent [20]byte, amount *big.Int, reason, evidence string) (*Dispute, error) {
	if r == nil || r.state == nil {
		return nil, ErrNilState
	}
	if err := r.auth.RequireAuthorization(caller, claimant); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, fmt.Errorf("dispute: id required")
	}
	if _, ok, err := r.state.DisputeGet(trimmed); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrDuplicateID
	}
	now := r.tick()
	d := &Dispute{
		ID:                 trimmed,
		Claimant:           claimant,
		Respondent:         respondent,
		Amount:             new(big.Int).Set(amount),
		Reason:             strings.TrimSpace(reason),
		Evidence:           strings.TrimSpace(evidence),
		FiledAt:            now,
		ResolutionDeadline: now + r.window,
		Status:             StatusFiled,
	}
	sanitized, err := Sanitize(d)
	if err != nil {
		return nil, err
	}
	if err := r.state.DisputePut(sanitized); err != nil {
		return nil, err
	}
	r.emit(events.DisputeFiled{
		ID:                 sanitized.ID,
		Claimant:           sanitized.Claimant,
		Respondent:         sanitized.Respondent,
		Amount:             sanitized.Amount,
		ResolutionDeadline: sanitized.ResolutionDeadline,
	})
	return sanitized.Clone(), nil
}

// MarkUnderReview moves a filed dispute into triage. Admin only; the terminal
// transition guards are unaffected.
func (r *Registry) MarkUnderReview(caller [20]byte, id string) error {
	if err := r.auth.RequireAuthorization(caller, r.admin); err != nil {
		return err
	}
	d, err := r.load(id)
	if err != nil {
		return err
	}
	if d.Status.Terminal() {
		return ErrAlreadyResolved
	}
	if d.Status == StatusUnderReview {
		return nil
	}
	d.Status = StatusUnderReview
	if err := r.state.DisputePut(d); err != nil {
		return err
	}
	r.emit(events.DisputeUnderReview{ID: d.ID})
	return nil
}

// Resolve applies the admin ruling. The recipient designation is advisory:
// the claimant when refundClaimant is set, otherwise the respondent. Once a
// dispute is Resolved or Refunded every further Resolve fails.
func (r *Registry) Resolve(caller [20]byte, id string, refundClaimant bool) (*Dispute, error) {
	if err := r.auth.RequireAuthorization(caller, r.admin); err != nil {
		return nil, err
	}
	d, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if d.Status != StatusFiled && d.Status != StatusUnderReview {
		return nil, ErrAlreadyResolved
	}
	d.Status = StatusResolved
	if refundClaimant {
		d.Recipient = d.Claimant
	} else {
		d.Recipient = d.Respondent
	}
	if err := r.state.DisputePut(d); err != nil {
		return nil, err
	}
	r.emit(events.DisputeResolved{ID: d.ID, Recipient: d.Recipient, Amount: d.Amount})
	return d.Clone(), nil
}

// RefundOnTimeout transitions an unresolved dispute to Refunded once the
// resolution deadline has passed, designating the claimant as recipient.
// Callable by anyone (permissionless watchdog pattern).
func (r *Registry) RefundOnTimeout(id string) (*Dispute, error) {
	d, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if r.tick() < d.ResolutionDeadline {
		return nil, ErrNotYetResolvable
	}
	if d.Status.Terminal() {
		return nil, ErrAlreadyResolved
	}
	d.Status = StatusRefunded
	d.Recipient = d.Claimant
	if err := r.state.DisputePut(d); err != nil {
		return nil, err
	}
	r.emit(events.DisputeRefunded{ID: d.ID, Claimant: d.Claimant, Amount: d.Amount})
	return d.Clone(), nil
}

// IsResolvable reports whether a timeout refund would currently succeed: the
// dispute exists, is not terminal and its resolution deadline has been
// reached. A missing id returns false, never an error.
func (r *Registry) IsResolvable(id string) bool {
	d, err := r.load(id)
	if err != nil {
		return false
	}
	return !d.Status.Terminal() && r.tick() >= d.ResolutionDeadline
}

// Get returns the dispute record for the id.
func (r *Registry) Get(id string) (*Dispute, error) {
	d, err := r.load(id)
	if err != nil {
		return nil, err
	}
	return d.Clone(), nil
}
