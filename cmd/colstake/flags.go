// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-4)",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "administrator address",
	}
	startFlag = cli.Uint64Flag{
		Name:  "start",
		Usage: "reward window start height",
	}
	endFlag = cli.Uint64Flag{
		Name:  "end",
		Usage: "reward window end height",
	}
	rateFlag = cli.StringFlag{
		Name:  "rate",
		Value: "1",
		Usage: "reward units per height per staked collection",
	}
	priceFlag = cli.StringFlag{
		Name:  "price",
		Value: "1",
		Usage: "fixed oracle price",
	}
	addFlag = cli.StringFlag{
		Name:  "add",
		Usage: "collection address to whitelist",
	}
	removeFlag = cli.StringFlag{
		Name:  "remove",
		Usage: "collection address to remove from the whitelist",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	heightFlag = cli.Uint64Flag{
		Name:  "height",
		Usage: "current ledger height reported by read views",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "expose prometheus metrics at /metrics",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enable the admin server for runtime log level changes",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
)
