// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/staking/reverts"
)

// Administrative surface: owner-gated simple field writes. Validation rules
// live in Schedule; nothing here touches positions or accrual.

func (s *Staking) requireOwner(caller colstake.Address) error {
	owner, err := s.repo.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.ErrNotOwner
	}
	return nil
}

// SetStart moves the schedule start. Owner only.
func (s *Staking) SetStart(caller colstake.Address, now, newStart uint32) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}
	if err := sched.SetStart(now, newStart); err != nil {
		return err
	}
	if err := s.repo.SaveSchedule(s.repo.store, sched); err != nil {
		return err
	}
	logger.Info("schedule start updated", "start", newStart)
	return nil
}

// SetEnd moves the schedule end. Owner only.
func (s *Staking) SetEnd(caller colstake.Address, now, newEnd uint32) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}
	if err := sched.SetEnd(now, newEnd); err != nil {
		return err
	}
	if err := s.repo.SaveSchedule(s.repo.store, sched); err != nil {
		return err
	}
	logger.Info("schedule end updated", "end", newEnd)
	return nil
}

// SetRate replaces the reward rate. Owner only.
func (s *Staking) SetRate(caller colstake.Address, newRate *big.Int) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}
	if err := sched.SetRate(newRate); err != nil {
		return err
	}
	if err := s.repo.SaveSchedule(s.repo.store, sched); err != nil {
		return err
	}
	logger.Info("reward rate updated", "rate", newRate)
	return nil
}

// SetPrice replaces the fixed oracle price. Owner only.
func (s *Staking) SetPrice(caller colstake.Address, price *big.Int) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if price == nil || price.Sign() < 0 {
		return errors.New("invalid price")
	}
	if err := s.repo.SavePrice(s.repo.store, price); err != nil {
		return err
	}
	logger.Info("price updated", "price", price)
	return nil
}

// AddCollection whitelists a collection for staking. Owner only, idempotent.
func (s *Staking) AddCollection(caller, collection colstake.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if err := s.repo.AddWhitelisted(s.repo.store, collection); err != nil {
		return err
	}
	logger.Info("collection whitelisted", "collection", collection)
	return nil
}

// RemoveCollection removes a collection from the whitelist. Owner only,
// idempotent. Open positions are unaffected.
func (s *Staking) RemoveCollection(caller, collection colstake.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if err := s.repo.RemoveWhitelisted(s.repo.store, collection); err != nil {
		return err
	}
	logger.Info("collection removed from whitelist", "collection", collection)
	return nil
}

// Sweep recovers funds from the reward vault. Owner only.
func (s *Staking) Sweep(caller, to colstake.Address, amount *big.Int) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if err := s.vault.Sweep(to, amount); err != nil {
		return errors.Wrap(err, "vault sweep")
	}
	logger.Info("vault swept", "to", to, "amount", amount)
	return nil
}
