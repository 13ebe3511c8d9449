// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	apievents "github.com/colstake/colstake/api/events"
	apihealth "github.com/colstake/colstake/api/health"
	apistaking "github.com/colstake/colstake/api/staking"
	"github.com/colstake/colstake/eventdb"
	"github.com/colstake/colstake/health"
	"github.com/colstake/colstake/metrics"
	"github.com/colstake/colstake/staking"
)

type Options struct {
	AllowedOrigins string
	EventsLimit    int
	EnableMetrics  bool
}

// New returns the read-only api router. The event db is optional.
func New(
	ledger *staking.Staking,
	repo *staking.Repository,
	eventDB *eventdb.EventDB,
	height apistaking.HeightSource,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit <= 0 {
		opts.EventsLimit = 1000
	}

	router := mux.NewRouter()

	apistaking.New(ledger, repo, height).
		Mount(router, "/staking")
	apihealth.New(health.New(repo), height).
		Mount(router, "/health")
	if eventDB != nil {
		apievents.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	if opts.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP
}
