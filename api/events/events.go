// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/colstake/colstake/api/utils"
	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/eventdb"
)

// Events exposes the stored ledger notifications.
type Events struct {
	db    *eventdb.EventDB
	limit int
}

func New(db *eventdb.EventDB, limit int) *Events {
	return &Events{
		db:    db,
		limit: limit,
	}
}

func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	filter := &eventdb.Filter{
		Name:  req.URL.Query().Get("name"),
		Limit: e.limit,
	}
	if v := req.URL.Query().Get("account"); v != "" {
		addr, err := colstake.ParseAddress(v)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.Account = addr
	}
	if v := req.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "limit"))
		}
		if limit > 0 && limit < e.limit {
			filter.Limit = limit
		}
	}

	records, err := e.db.Query(req.Context(), filter)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*eventdb.Record{}
	}
	return utils.WriteJSON(w, records)
}

// Mount attaches the handlers to the router.
func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
}
