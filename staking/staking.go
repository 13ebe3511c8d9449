// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/log"
	"github.com/colstake/colstake/metrics"
	"github.com/colstake/colstake/staking/reverts"
)

var logger = log.WithContext("pkg", "staking")

var (
	metricOpCount = metrics.LazyLoadCounterVec("op_count", []string{"op", "result"})
	metricOpenPositions = metrics.LazyLoadGauge("open_position_count")
	metricUnderfunded = metrics.LazyLoadCounter("underfunded_settlement_count")
)

// SetLogger overrides the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Staking is the collateral-staking ledger. All state-changing operations
// are atomic: they stage mutations on private copies and commit only once
// every precondition and collaborator call has succeeded.
//
// The ledger is a single logical state machine; callers serialize
// state-changing operations. The per-account in-progress flag rejects
// reentrant invocation, which a registry transfer could otherwise trigger.
type Staking struct {
	repo      *Repository
	registry  ItemRegistry
	vault     RewardVault
	oracle    PriceOracle
	custodian colstake.Address

	sink Sink

	mu         sync.Mutex
	inProgress map[colstake.Address]bool
}

// New creates a ledger instance. The custodian is the identity under which
// the item registry holds staked items.
func New(repo *Repository, registry ItemRegistry, vault RewardVault, oracle PriceOracle, custodian colstake.Address) *Staking {
	return &Staking{
		repo:       repo,
		registry:   registry,
		vault:      vault,
		oracle:     oracle,
		custodian:  custodian,
		inProgress: make(map[colstake.Address]bool),
	}
}

// SetEventSink wires an optional sink receiving the events of committed
// operations.
func (s *Staking) SetEventSink(sink Sink) {
	s.sink = sink
}

// Custodian returns the system custody identity.
func (s *Staking) Custodian() colstake.Address {
	return s.custodian
}

func (s *Staking) enter(account colstake.Address) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgress[account] {
		return nil, reverts.ErrReentrantCall
	}
	s.inProgress[account] = true
	return func() {
		s.mu.Lock()
		delete(s.inProgress, account)
		s.mu.Unlock()
	}, nil
}

// settlement carries the staged outcome of a settlement between the accrual
// computation and the payout, so that the payout (the only vault side
// effect) can run after all fallible steps.
type settlement struct {
	account colstake.Address
	pending *big.Int
	height  uint32
}

// beginSettle freezes the accrual boundary on the staged entry. It must run
// before any change to the staked-collection count, and it advances
// LastSettledHeight even when no reward is due.
func (s *Staking) beginSettle(acc *Account, sched *Schedule, account colstake.Address, now uint32) *settlement {
	pending := pendingAmount(acc, sched, now)
	acc.LastSettledHeight = now
	return &settlement{
		account: account,
		pending: pending,
		height:  now,
	}
}

// finishSettle pays out the frozen pending amount, retaining whatever the
// vault could not cover. Pool underfunding is not an error: blocking a
// withdrawal on an empty reward pool would strand collateral.
func (s *Staking) finishSettle(acc *Account, stl *settlement, evs *[]Event) error {
	paid := new(big.Int)
	if stl.pending.Sign() > 0 {
		p, err := s.vault.Payout(stl.account, stl.pending)
		if err != nil {
			return errors.Wrap(err, "reward vault payout")
		}
		paid.Set(p)
	}
	acc.UnsettledReward = new(big.Int).Sub(stl.pending, paid)

	*evs = append(*evs, &Harvested{Height: stl.height, Account: stl.account, Paid: paid})
	if acc.UnsettledReward.Sign() > 0 {
		*evs = append(*evs, &InsufficientRewardPool{
			Height:    stl.height,
			Account:   stl.account,
			Requested: stl.pending,
			Paid:      paid,
		})
		metricUnderfunded().Add(1)
		logger.Warn("reward pool underfunded",
			"account", stl.account,
			"requested", stl.pending,
			"paid", paid,
		)
	}
	return nil
}

// Stake opens a position: the account deposits one item of a whitelisted
// collection into system custody and starts accruing reward for it.
func (s *Staking) Stake(account, collection colstake.Address, itemID *big.Int, now uint32) error {
	release, err := s.enter(account)
	if err != nil {
		return err
	}
	defer release()

	if err := s.stake(account, collection, itemID, now); err != nil {
		logger.Info("stake failed", "account", account, "collection", collection, "error", err)
		metricOpCount().AddWithLabel(1, map[string]string{"op": "stake", "result": "failed"})
		return err
	}

	logger.Info("staked", "account", account, "collection", collection, "item", itemID)
	metricOpCount().AddWithLabel(1, map[string]string{"op": "stake", "result": "ok"})
	metricOpenPositions().Add(1)
	return nil
}

func (s *Staking) stake(account, collection colstake.Address, itemID *big.Int, now uint32) error {
	listed, err := s.repo.IsWhitelisted(collection)
	if err != nil {
		return err
	}
	if !listed {
		return reverts.ErrNotWhitelisted
	}

	authorized, err := s.registry.IsCustodyPreauthorized(account, collection)
	if err != nil {
		return errors.Wrap(err, "registry preauthorization check")
	}
	if !authorized {
		return reverts.ErrCustodyNotAuthorized
	}

	acc, err := s.repo.Account(account)
	if err != nil {
		return err
	}
	if acc.Position(collection) != nil {
		return reverts.ErrAlreadyStaked
	}

	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}

	var evs []Event
	stl := s.beginSettle(acc, sched, account, now)

	// The registry's authority over the transfer is not re-validated here.
	if err := s.registry.Transfer(collection, itemID, account, s.custodian); err != nil {
		return reverts.CustodyTransferFailed(err)
	}

	price, err := s.oracle.CurrentPrice(collection, itemID)
	if err != nil {
		return errors.Wrap(err, "price oracle")
	}
	acc.AddPosition(&Position{
		Collection:   collection,
		ItemID:       new(big.Int).Set(itemID),
		PriceAtStake: new(big.Int).Set(price),
	})

	if err := s.finishSettle(acc, stl, &evs); err != nil {
		return err
	}
	if err := s.repo.UpdateAccount(account, acc); err != nil {
		return err
	}

	evs = append(evs, &Staked{Height: now, Account: account, Collection: collection, ItemID: itemID})
	s.post(evs)
	return nil
}

// Withdraw closes a position, returning the item to the account.
func (s *Staking) Withdraw(account, collection colstake.Address, itemID *big.Int, now uint32) error {
	release, err := s.enter(account)
	if err != nil {
		return err
	}
	defer release()

	if err := s.withdraw(account, collection, itemID, now); err != nil {
		logger.Info("withdraw failed", "account", account, "collection", collection, "error", err)
		metricOpCount().AddWithLabel(1, map[string]string{"op": "withdraw", "result": "failed"})
		return err
	}

	logger.Info("withdrawn", "account", account, "collection", collection, "item", itemID)
	metricOpCount().AddWithLabel(1, map[string]string{"op": "withdraw", "result": "ok"})
	metricOpenPositions().Add(-1)
	return nil
}

func (s *Staking) withdraw(account, collection colstake.Address, itemID *big.Int, now uint32) error {
	acc, err := s.repo.Account(account)
	if err != nil {
		return err
	}
	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}

	var evs []Event
	stl := s.beginSettle(acc, sched, account, now)

	pos := acc.Position(collection)
	if pos == nil || pos.ItemID.Cmp(itemID) != 0 {
		return reverts.ErrNotStaked
	}

	if err := s.registry.Transfer(collection, itemID, s.custodian, account); err != nil {
		return reverts.CustodyTransferFailed(err)
	}
	acc.RemovePosition(collection)

	if err := s.finishSettle(acc, stl, &evs); err != nil {
		return err
	}
	if err := s.repo.UpdateAccount(account, acc); err != nil {
		return err
	}

	evs = append(evs, &Withdrawn{Height: now, Account: account, Collection: collection, ItemID: itemID})
	s.post(evs)
	return nil
}

// Liquidate force-closes a position when the current price has fallen to
// strictly less than half the price recorded at stake time, redirecting
// custody to the liquidator. Administrator only.
func (s *Staking) Liquidate(caller, account, collection colstake.Address, itemID *big.Int, liquidator colstake.Address, now uint32) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}

	release, err := s.enter(account)
	if err != nil {
		return err
	}
	defer release()

	if err := s.liquidate(account, collection, itemID, liquidator, now); err != nil {
		logger.Info("liquidate failed", "account", account, "collection", collection, "error", err)
		metricOpCount().AddWithLabel(1, map[string]string{"op": "liquidate", "result": "failed"})
		return err
	}

	logger.Info("liquidated", "account", account, "collection", collection, "item", itemID, "liquidator", liquidator)
	metricOpCount().AddWithLabel(1, map[string]string{"op": "liquidate", "result": "ok"})
	metricOpenPositions().Add(-1)
	return nil
}

func (s *Staking) liquidate(account, collection colstake.Address, itemID *big.Int, liquidator colstake.Address, now uint32) error {
	acc, err := s.repo.Account(account)
	if err != nil {
		return err
	}
	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}

	var evs []Event
	stl := s.beginSettle(acc, sched, account, now)

	if !sched.Started(now) {
		return reverts.ErrSchedulingNotStarted
	}
	pos := acc.Position(collection)
	if pos == nil || pos.ItemID.Cmp(itemID) != 0 {
		return reverts.ErrNotStaked
	}

	price, err := s.oracle.CurrentPrice(collection, itemID)
	if err != nil {
		return errors.Wrap(err, "price oracle")
	}
	// Divide then compare. Truncation at odd stake prices favors the
	// staker by one unit.
	threshold := new(big.Int).Div(pos.PriceAtStake, big.NewInt(2))
	if threshold.Cmp(price) <= 0 {
		return reverts.ErrAboveLiquidationThreshold
	}

	if err := s.registry.Transfer(collection, itemID, s.custodian, liquidator); err != nil {
		return reverts.CustodyTransferFailed(err)
	}
	acc.RemovePosition(collection)

	if err := s.finishSettle(acc, stl, &evs); err != nil {
		return err
	}
	if err := s.repo.UpdateAccount(account, acc); err != nil {
		return err
	}

	evs = append(evs, &Liquidated{Height: now, Account: account, Collection: collection, ItemID: itemID, Liquidator: liquidator})
	s.post(evs)
	return nil
}

// Settle settles pending reward for the account without touching any
// position.
func (s *Staking) Settle(account colstake.Address, now uint32) error {
	release, err := s.enter(account)
	if err != nil {
		return err
	}
	defer release()

	acc, err := s.repo.Account(account)
	if err != nil {
		return err
	}
	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}

	var evs []Event
	stl := s.beginSettle(acc, sched, account, now)
	if err := s.finishSettle(acc, stl, &evs); err != nil {
		return err
	}
	if err := s.repo.UpdateAccount(account, acc); err != nil {
		return err
	}
	s.post(evs)
	return nil
}

// PendingRewards returns the reward the account would settle at the given
// height. Read-only.
func (s *Staking) PendingRewards(account colstake.Address, now uint32) (*big.Int, error) {
	acc, err := s.repo.Account(account)
	if err != nil {
		return nil, err
	}
	sched, err := s.repo.Schedule()
	if err != nil {
		return nil, err
	}
	return pendingAmount(acc, sched, now), nil
}

// Positions enumerates the account's open positions in insertion order.
// Both returned lists have identical length; empty when the account has no
// positions.
func (s *Staking) Positions(account colstake.Address) ([]colstake.Address, []*big.Int, error) {
	acc, err := s.repo.Account(account)
	if err != nil {
		return nil, nil, err
	}
	collections := make([]colstake.Address, 0, len(acc.Positions))
	items := make([]*big.Int, 0, len(acc.Positions))
	for _, p := range acc.Positions {
		collections = append(collections, p.Collection)
		items = append(items, new(big.Int).Set(p.ItemID))
	}
	return collections, items, nil
}

func (s *Staking) post(evs []Event) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Post(evs); err != nil {
		logger.Warn("event sink post failed", "error", err)
	}
}
