// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math/big"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/staking"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Colstake",
		Usage:     "collateral staking and reward accrual ledger",
		Copyright: "2025 Colstake",
		Flags: []cli.Flag{
			dataDirFlag,
			verbosityFlag,
		},
		Commands: []cli.Command{
			{
				Name:  "init",
				Usage: "initialize the ledger with schedule, owner and price",
				Flags: []cli.Flag{
					dataDirFlag,
					verbosityFlag,
					ownerFlag,
					startFlag,
					endFlag,
					rateFlag,
					priceFlag,
				},
				Action: initAction,
			},
			{
				Name:  "whitelist",
				Usage: "list, add or remove whitelisted collections",
				Flags: []cli.Flag{
					dataDirFlag,
					verbosityFlag,
					addFlag,
					removeFlag,
				},
				Action: whitelistAction,
			},
			{
				Name:  "dump",
				Usage: "print the full ledger state",
				Flags: []cli.Flag{
					dataDirFlag,
					verbosityFlag,
				},
				Action: dumpAction,
			},
			{
				Name:  "serve",
				Usage: "serve the read-only ledger API",
				Flags: []cli.Flag{
					dataDirFlag,
					verbosityFlag,
					apiAddrFlag,
					apiCorsFlag,
					heightFlag,
					enableMetricsFlag,
					enableAdminFlag,
					adminAddrFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)

	owner, err := colstake.ParseAddress(ctx.String(ownerFlag.Name))
	if err != nil {
		return fmt.Errorf("owner: %v", err)
	}
	rate, ok := new(big.Int).SetString(ctx.String(rateFlag.Name), 10)
	if !ok {
		return fmt.Errorf("rate: invalid number")
	}
	price, ok := new(big.Int).SetString(ctx.String(priceFlag.Name), 10)
	if !ok {
		return fmt.Errorf("price: invalid number")
	}
	sched, err := staking.NewSchedule(uint32(ctx.Uint64(startFlag.Name)), uint32(ctx.Uint64(endFlag.Name)), rate)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	repo := staking.NewRepository(store)
	if initialized, err := repo.Initialized(); err != nil {
		return err
	} else if initialized {
		return fmt.Errorf("ledger already initialized")
	}

	batch := store.NewBatch()
	if err := repo.SaveSchedule(batch, sched); err != nil {
		return err
	}
	if err := repo.SaveOwner(batch, *owner); err != nil {
		return err
	}
	if err := repo.SavePrice(batch, price); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}

	fmt.Printf("initialized ledger: window [%d, %d], rate %s, owner %s\n",
		sched.StartHeight, sched.EndHeight, sched.RewardRate, owner)
	return nil
}

func whitelistAction(ctx *cli.Context) error {
	initLogger(ctx)

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	repo := staking.NewRepository(store)

	if v := ctx.String(addFlag.Name); v != "" {
		addr, err := colstake.ParseAddress(v)
		if err != nil {
			return fmt.Errorf("add: %v", err)
		}
		if err := repo.AddWhitelisted(store, *addr); err != nil {
			return err
		}
	}
	if v := ctx.String(removeFlag.Name); v != "" {
		addr, err := colstake.ParseAddress(v)
		if err != nil {
			return fmt.Errorf("remove: %v", err)
		}
		if err := repo.RemoveWhitelisted(store, *addr); err != nil {
			return err
		}
	}

	list, err := repo.Whitelisted()
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Println(c)
	}
	return nil
}

func dumpAction(ctx *cli.Context) error {
	initLogger(ctx)

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	repo := staking.NewRepository(store)

	sched, err := repo.Schedule()
	if err != nil {
		return err
	}
	owner, err := repo.Owner()
	if err != nil {
		return err
	}
	price, err := repo.Price()
	if err != nil {
		return err
	}
	fmt.Printf("schedule: window [%d, %d], rate %s\n", sched.StartHeight, sched.EndHeight, sched.RewardRate)
	fmt.Printf("owner:    %s\n", owner)
	fmt.Printf("price:    %s\n", price)

	list, err := repo.Whitelisted()
	if err != nil {
		return err
	}
	fmt.Printf("whitelist (%d):\n", len(list))
	for _, c := range list {
		fmt.Printf("  %s\n", c)
	}

	accounts, err := repo.Accounts()
	if err != nil {
		return err
	}
	fmt.Printf("accounts (%d):\n", len(accounts))
	for _, addr := range accounts {
		acc, err := repo.Account(addr)
		if err != nil {
			return err
		}
		fmt.Printf("  %s unsettled=%s lastSettled=%d\n", addr, acc.UnsettledReward, acc.LastSettledHeight)
		for _, p := range acc.Positions {
			fmt.Printf("    %s item=%s priceAtStake=%s\n", p.Collection, p.ItemID, p.PriceAtStake)
		}
	}
	return nil
}
