// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/kv"
)

// Key spaces. Schedule, whitelist and the account map are the entire
// durable ledger state.
var (
	keySchedule = []byte("c-schedule")
	keyOwner    = []byte("c-owner")
	keyPrice    = []byte("c-price")

	prefixWhitelist = []byte("w")
	prefixAccount   = []byte("a")
)

const accountCacheSize = 1024

// DefaultPrice is the price reported by the fixed oracle until the
// administrator sets one.
var DefaultPrice = big.NewInt(1)

// Repository persists the ledger state in a kv store, RLP encoded.
type Repository struct {
	store    kv.GetPutter
	accCache *lru.Cache
}

// NewRepository wraps the given store.
func NewRepository(store kv.GetPutter) *Repository {
	cache, _ := lru.New(accountCacheSize)
	return &Repository{
		store:    store,
		accCache: cache,
	}
}

func whitelistKey(collection colstake.Address) []byte {
	return append(append([]byte(nil), prefixWhitelist...), collection.Bytes()...)
}

func accountKey(addr colstake.Address) []byte {
	return append(append([]byte(nil), prefixAccount...), addr.Bytes()...)
}

// Initialized reports whether a schedule has been written yet.
func (r *Repository) Initialized() (bool, error) {
	return r.store.Has(keySchedule)
}

// Schedule loads the reward schedule.
func (r *Repository) Schedule() (*Schedule, error) {
	data, err := r.store.Get(keySchedule)
	if err != nil {
		if r.store.IsNotFound(err) {
			return nil, errors.New("ledger not initialized: no schedule")
		}
		return nil, errors.Wrap(err, "load schedule")
	}
	var sched Schedule
	if err := rlp.DecodeBytes(data, &sched); err != nil {
		return nil, errors.Wrap(err, "decode schedule")
	}
	return &sched, nil
}

// SaveSchedule writes the reward schedule through the given putter.
func (r *Repository) SaveSchedule(w kv.Putter, sched *Schedule) error {
	data, err := rlp.EncodeToBytes(sched)
	if err != nil {
		return errors.Wrap(err, "encode schedule")
	}
	return w.Put(keySchedule, data)
}

// Owner loads the administrator identity.
func (r *Repository) Owner() (colstake.Address, error) {
	data, err := r.store.Get(keyOwner)
	if err != nil {
		if r.store.IsNotFound(err) {
			return colstake.Address{}, errors.New("ledger not initialized: no owner")
		}
		return colstake.Address{}, errors.Wrap(err, "load owner")
	}
	return colstake.BytesToAddress(data), nil
}

// SaveOwner writes the administrator identity.
func (r *Repository) SaveOwner(w kv.Putter, owner colstake.Address) error {
	return w.Put(keyOwner, owner.Bytes())
}

// Price loads the administrator-set price, defaulting when unset.
func (r *Repository) Price() (*big.Int, error) {
	data, err := r.store.Get(keyPrice)
	if err != nil {
		if r.store.IsNotFound(err) {
			return new(big.Int).Set(DefaultPrice), nil
		}
		return nil, errors.Wrap(err, "load price")
	}
	return new(big.Int).SetBytes(data), nil
}

// SavePrice writes the administrator-set price.
func (r *Repository) SavePrice(w kv.Putter, price *big.Int) error {
	return w.Put(keyPrice, price.Bytes())
}

// IsWhitelisted reports collection membership.
func (r *Repository) IsWhitelisted(collection colstake.Address) (bool, error) {
	return r.store.Has(whitelistKey(collection))
}

// AddWhitelisted adds a collection. Idempotent.
func (r *Repository) AddWhitelisted(w kv.Putter, collection colstake.Address) error {
	return w.Put(whitelistKey(collection), []byte{1})
}

// RemoveWhitelisted removes a collection. Idempotent. Removal does not
// affect already-open positions.
func (r *Repository) RemoveWhitelisted(w kv.Putter, collection colstake.Address) error {
	return w.Delete(whitelistKey(collection))
}

// Whitelisted enumerates collection membership in key order.
func (r *Repository) Whitelisted() ([]colstake.Address, error) {
	iter := r.store.NewIterator(prefixRange(prefixWhitelist))
	defer iter.Release()

	var list []colstake.Address
	for iter.Next() {
		list = append(list, colstake.BytesToAddress(iter.Key()[len(prefixWhitelist):]))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate whitelist")
	}
	return list, nil
}

// Account loads the ledger entry for the given account. A missing entry is
// returned as a fresh empty one; the caller gets a private copy.
func (r *Repository) Account(addr colstake.Address) (*Account, error) {
	if cached, ok := r.accCache.Get(addr); ok {
		return cached.(*Account).Copy(), nil
	}

	data, err := r.store.Get(accountKey(addr))
	if err != nil {
		if r.store.IsNotFound(err) {
			return newAccount(), nil
		}
		return nil, errors.Wrap(err, "load account")
	}
	var acc Account
	if err := rlp.DecodeBytes(data, &acc); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	r.accCache.Add(addr, acc.Copy())
	return &acc, nil
}

// UpdateAccount commits the staged ledger entry. Empty entries are pruned
// so that a drained account is indistinguishable from an absent one.
func (r *Repository) UpdateAccount(addr colstake.Address, acc *Account) error {
	if acc.IsEmpty() {
		if err := r.store.Delete(accountKey(addr)); err != nil {
			return errors.Wrap(err, "delete account")
		}
		r.accCache.Remove(addr)
		return nil
	}

	data, err := rlp.EncodeToBytes(acc)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	if err := r.store.Put(accountKey(addr), data); err != nil {
		return errors.Wrap(err, "save account")
	}
	r.accCache.Add(addr, acc.Copy())
	return nil
}

// Accounts enumerates all accounts with a persisted entry, in key order.
func (r *Repository) Accounts() ([]colstake.Address, error) {
	iter := r.store.NewIterator(prefixRange(prefixAccount))
	defer iter.Release()

	var list []colstake.Address
	for iter.Next() {
		list = append(list, colstake.BytesToAddress(iter.Key()[len(prefixAccount):]))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate accounts")
	}
	return list, nil
}

// prefixRange returns the key range covering all keys with the prefix.
func prefixRange(prefix []byte) kv.Range {
	limit := make([]byte, len(prefix))
	copy(limit, prefix)
	for i := len(limit) - 1; i >= 0; i-- {
		limit[i]++
		if limit[i] != 0 {
			return kv.Range{From: prefix, To: limit[:i+1]}
		}
	}
	return kv.Range{From: prefix}
}
