// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/colstake/colstake/api/utils"
	"github.com/colstake/colstake/health"
)

// HeightSource supplies the current ledger height for the schedule probe.
type HeightSource interface {
	Height() uint32
}

// Health serves the liveness probe.
type Health struct {
	probe  *health.Health
	height HeightSource
}

func New(probe *health.Health, height HeightSource) *Health {
	return &Health{
		probe:  probe,
		height: height,
	}
}

func (h *Health) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status, err := h.probe.Status(h.height.Height())
	if err != nil {
		status = &health.Status{}
	}
	w.Header().Set("Content-Type", utils.JSONContentType)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

// Mount attaches the handler to the router.
func (h *Health) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
