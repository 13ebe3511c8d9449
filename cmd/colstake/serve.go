// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/colstake/colstake/admin"
	"github.com/colstake/colstake/api"
	"github.com/colstake/colstake/co"
	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/eventdb"
	"github.com/colstake/colstake/log"
	"github.com/colstake/colstake/metrics"
	"github.com/colstake/colstake/staking"
)

var logger = log.WithContext("pkg", "main")

func serveAction(ctx *cli.Context) error {
	logLevel := initLogger(ctx)

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	repo := staking.NewRepository(store)
	if initialized, err := repo.Initialized(); err != nil {
		return err
	} else if !initialized {
		return errors.New("ledger not initialized, run 'colstake init' first")
	}

	evDB, err := eventdb.New(eventDBPath(ctx))
	if err != nil {
		return errors.Wrap(err, "open event db")
	}
	defer evDB.Close()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	ledger := staking.New(repo, offlineRegistry{}, offlineVault{}, staking.NewFixedOracle(repo), colstake.Address{})
	handler := api.New(ledger, repo, evDB, staticHeight(ctx.Uint64(heightFlag.Name)), api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})

	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return errors.Wrap(err, "listen API addr")
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	var goes co.Goes
	errCh := make(chan error, 1)
	goes.Go(func() {
		errCh <- srv.Serve(listener)
	})
	defer goes.Wait()
	defer srv.Close()
	logger.Info("API started", "addr", listener.Addr())

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel)
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		defer closeFunc()
		logger.Info("admin server started", "url", url)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig)
		return nil
	}
}

// staticHeight reports a fixed current height to read views; the height
// query param overrides it per request.
type staticHeight uint64

func (h staticHeight) Height() uint32 { return uint32(h) }

// The serve command exposes read views only; the collaborators are never
// reached. They fail loudly if a state-changing path is ever wired in.
type offlineRegistry struct{}

func (offlineRegistry) IsCustodyPreauthorized(colstake.Address, colstake.Address) (bool, error) {
	return false, errors.New("item registry not available in serve mode")
}

func (offlineRegistry) Transfer(colstake.Address, *big.Int, colstake.Address, colstake.Address) error {
	return errors.New("item registry not available in serve mode")
}

type offlineVault struct{}

func (offlineVault) Balance() (*big.Int, error) {
	return nil, errors.New("reward vault not available in serve mode")
}

func (offlineVault) Payout(colstake.Address, *big.Int) (*big.Int, error) {
	return nil, errors.New("reward vault not available in serve mode")
}

func (offlineVault) Sweep(colstake.Address, *big.Int) error {
	return errors.New("reward vault not available in serve mode")
}
