// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"os"
	"path/filepath"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/colstake/colstake/log"
	"github.com/colstake/colstake/lvldb"
)

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".colstake")
	}
	return ""
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	verbosity := ctx.Int(verbosityFlag.Name)
	if ctx.GlobalIsSet(verbosityFlag.Name) && !ctx.IsSet(verbosityFlag.Name) {
		verbosity = ctx.GlobalInt(verbosityFlag.Name)
	}
	var level slog.Level
	switch verbosity {
	case 0:
		level = log.LevelError
	case 1:
		level = log.LevelWarn
	case 2:
		level = log.LevelInfo
	case 3:
		level = log.LevelDebug
	default:
		level = log.LevelTrace
	}
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl)))
	return lvl
}

func openStore(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		dataDir = ctx.GlobalString(dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, err
	}
	return lvldb.New(filepath.Join(dataDir, "ledger.db"), lvldb.Options{})
}

func eventDBPath(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		dataDir = ctx.GlobalString(dataDirFlag.Name)
	}
	return filepath.Join(dataDir, "events.db")
}
