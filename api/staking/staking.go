// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/colstake/colstake/api/utils"
	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/staking"
)

// HeightSource supplies the current ledger height for read views.
type HeightSource interface {
	Height() uint32
}

// Staking exposes read-only ledger views over HTTP.
type Staking struct {
	ledger *staking.Staking
	repo   *staking.Repository
	height HeightSource
}

func New(ledger *staking.Staking, repo *staking.Repository, height HeightSource) *Staking {
	return &Staking{
		ledger: ledger,
		repo:   repo,
		height: height,
	}
}

func (s *Staking) handleGetSchedule(w http.ResponseWriter, _ *http.Request) error {
	sched, err := s.repo.Schedule()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Schedule{
		StartHeight: sched.StartHeight,
		EndHeight:   sched.EndHeight,
		RewardRate:  sched.RewardRate.String(),
	})
}

func (s *Staking) handleGetWhitelist(w http.ResponseWriter, _ *http.Request) error {
	list, err := s.repo.Whitelisted()
	if err != nil {
		return err
	}
	if list == nil {
		list = []colstake.Address{}
	}
	return utils.WriteJSON(w, list)
}

func (s *Staking) handleGetPositions(w http.ResponseWriter, req *http.Request) error {
	addr, err := s.accountParam(req)
	if err != nil {
		return err
	}
	collections, items, err := s.ledger.Positions(*addr)
	if err != nil {
		return err
	}
	positions := make([]*AccountPosition, 0, len(collections))
	for i, c := range collections {
		positions = append(positions, &AccountPosition{
			Collection: c,
			ItemID:     items[i].String(),
		})
	}
	return utils.WriteJSON(w, positions)
}

func (s *Staking) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	addr, err := s.accountParam(req)
	if err != nil {
		return err
	}
	height := s.height.Height()
	if q := req.URL.Query().Get("height"); q != "" {
		parsed, err := strconv.ParseUint(q, 10, 32)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "height"))
		}
		height = uint32(parsed)
	}
	pending, err := s.ledger.PendingRewards(*addr, height)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &PendingRewards{
		Height:  height,
		Pending: pending.String(),
	})
}

func (s *Staking) accountParam(req *http.Request) (*colstake.Address, error) {
	addr, err := colstake.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

// Mount attaches the handlers to the router.
func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/schedule").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSchedule))
	sub.Path("/whitelist").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetWhitelist))
	sub.Path("/accounts/{address}/positions").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPositions))
	sub.Path("/accounts/{address}/rewards").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetRewards))
}
