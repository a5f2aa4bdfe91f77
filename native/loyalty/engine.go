// Package loyalty accumulates points per payer and issues a reward receipt
// for every award. The orchestrator consumes this engine as a collaborator;
// it never reads the point store directly.
package loyalty

import (
	"strings"

	"paywow/core/clock"
	"paywow/core/events"
	"paywow/core/identity"
)

type engineState interface {
	LoyaltyPoints(addr [20]byte) (uint64, error)
	SetLoyaltyPoints(addr [20]byte, points uint64) error
	RemoveLoyaltyPoints(addr [20]byte) error
	LoyaltyRewardPut(*Reward) error
	LoyaltyRewardGet(id uint64) (*Reward, bool, error)
	LoyaltyRewardCount() (uint64, error)
	SetLoyaltyRewardCount(count uint64) error
}

// Engine wires loyalty accrual with external state and event emission.
type Engine struct {
	state   engineState
	auth    identity.Verifier
	clock   clock.Clock
	emitter events.Emitter
	owner   [20]byte
}

// NewEngine creates a loyalty engine administered by owner.
func NewEngine(owner [20]byte) *Engine {
	return &Engine{
		auth:    identity.StrictVerifier{},
		emitter: events.NoopEmitter{},
		owner:   owner,
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetClock configures the logical clock stamped onto reward receipts.
func (e *Engine) SetClock(c clock.Clock) { e.clock = c }

// SetVerifier configures the identity verification collaborator. Passing nil
// resets the verifier to strict caller/principal matching.
func (e *Engine) SetVerifier(auth identity.Verifier) {
	if auth == nil {
		e.auth = identity.StrictVerifier{}
		return
	}
	e.auth = auth
}

// SetEmitter configures the event emitter. Passing nil resets the emitter to
// a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) tick() uint64 {
	if e == nil || e.clock == nil {
		return 0
	}
	return e.clock.Tick()
}

// AwardPoints credits points to the customer and issues a reward receipt,
// returning its id. Only the program owner may award. Zero-point awards fail
// with ErrInvalidPoints.
func (e *Engine) AwardPoints(caller, customer [20]byte, transactionID string, points uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	if err := e.auth.RequireAuthorization(caller, e.owner); err != nil {
		return 0, err
	}
	if points == 0 {
		return 0, ErrInvalidPoints
	}
	current, err := e.state.LoyaltyPoints(customer)
	if err != nil {
		return 0, err
	}
	total := current + points
	if err := e.state.SetLoyaltyPoints(customer, total); err != nil {
		return 0, err
	}
	count, err := e.state.LoyaltyRewardCount()
	if err != nil {
		return 0, err
	}
	receiptID := count + 1
	reward := &Reward{
		ReceiptID:     receiptID,
		Owner:         customer,
		PointsEarned:  points,
		TotalPoints:   total,
		Tier:          TierFor(total),
		TransactionID: strings.TrimSpace(transactionID),
		IssuedAt:      e.tick(),
	}
	if err := e.state.LoyaltyRewardPut(reward); err != nil {
		return 0, err
	}
	if err := e.state.SetLoyaltyRewardCount(receiptID); err != nil {
		return 0, err
	}
	e.emit(events.LoyaltyAccrued{Customer: customer, Points: points, Total: total})
	e.emit(events.LoyaltyReward{ReceiptID: receiptID, Customer: customer, Tier: uint8(reward.Tier)})
	return receiptID, nil
}

// RedeemPoints burns points from a customer balance on behalf of a
// redemption. Owner only. A balance reaching zero removes the entry.
func (e *Engine) RedeemPoints(caller, customer [20]byte, points uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := e.auth.RequireAuthorization(caller, e.owner); err != nil {
		return err
	}
	if points == 0 {
		return ErrInvalidPoints
	}
	current, err := e.state.LoyaltyPoints(customer)
	if err != nil {
		return err
	}
	if current < points {
		return ErrInsufficientPoints
	}
	remaining := current - points
	if remaining > 0 {
		if err := e.state.SetLoyaltyPoints(customer, remaining); err != nil {
			return err
		}
	} else if err := e.state.RemoveLoyaltyPoints(customer); err != nil {
		return err
	}
	e.emit(events.LoyaltyRedeemed{Customer: customer, Points: points, Remaining: remaining})
	return nil
}

// Points reports the customer's cumulative balance.
func (e *Engine) Points(customer [20]byte) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	return e.state.LoyaltyPoints(customer)
}

// TierOf reports the customer's current tier.
func (e *Engine) TierOf(customer [20]byte) (Tier, error) {
	points, err := e.Points(customer)
	if err != nil {
		return TierBronze, err
	}
	return TierFor(points), nil
}

// Reward returns the receipt with the given id.
func (e *Engine) Reward(id uint64) (*Reward, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	reward, ok, err := e.state.LoyaltyRewardGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRewardNotFound
	}
	return reward.Clone(), nil
}

// TotalRewards reports how many receipts have been issued.
func (e *Engine) TotalRewards() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	return e.state.LoyaltyRewardCount()
}
