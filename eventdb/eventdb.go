// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"math/big"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/colstake/colstake/colstake"
	"github.com/colstake/colstake/staking"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	height INTEGER NOT NULL,
	name TEXT NOT NULL,
	account BLOB NOT NULL,
	collection BLOB,
	itemId TEXT,
	liquidator BLOB,
	paid TEXT,
	requested TEXT
);
CREATE INDEX IF NOT EXISTS event_account_seq ON event(account, seq);`

var _ staking.Sink = (*EventDB)(nil)

// EventDB persists ledger notifications, queryable by account.
type EventDB struct {
	path string
	db   *sql.DB
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	return &EventDB{
		path: path,
		db:   db,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Post stores the events of one committed operation in a single transaction.
func (db *EventDB) Post(events []staking.Event) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin event tx")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const insert = `INSERT INTO event(height, name, account, collection, itemId, liquidator, paid, requested)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`

	for _, ev := range events {
		var (
			height                  uint32
			account                 colstake.Address
			collection, liquidator  []byte
			itemID, paid, requested *string
		)
		switch e := ev.(type) {
		case *staking.Staked:
			height, account = e.Height, e.Account
			collection = e.Collection.Bytes()
			itemID = str(e.ItemID)
		case *staking.Withdrawn:
			height, account = e.Height, e.Account
			collection = e.Collection.Bytes()
			itemID = str(e.ItemID)
		case *staking.Liquidated:
			height, account = e.Height, e.Account
			collection = e.Collection.Bytes()
			itemID = str(e.ItemID)
			liquidator = e.Liquidator.Bytes()
		case *staking.Harvested:
			height, account = e.Height, e.Account
			paid = str(e.Paid)
		case *staking.InsufficientRewardPool:
			height, account = e.Height, e.Account
			paid = str(e.Paid)
			requested = str(e.Requested)
		default:
			return errors.Errorf("unknown event type %s", ev.EventName())
		}

		if _, err = tx.Exec(insert,
			height, ev.EventName(), account.Bytes(),
			collection, itemID, liquidator, paid, requested,
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}
	return tx.Commit()
}

func str(v *big.Int) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

// Record is a stored event row.
type Record struct {
	Seq        int64             `json:"seq"`
	Height     uint32            `json:"height"`
	Name       string            `json:"name"`
	Account    colstake.Address  `json:"account"`
	Collection *colstake.Address `json:"collection,omitempty"`
	ItemID     *string           `json:"itemId,omitempty"`
	Liquidator *colstake.Address `json:"liquidator,omitempty"`
	Paid       *string           `json:"paid,omitempty"`
	Requested  *string           `json:"requested,omitempty"`
}

// Filter narrows a query. Zero fields match everything.
type Filter struct {
	Account *colstake.Address
	Name    string
	Limit   int
}

// Query returns stored events, oldest first.
func (db *EventDB) Query(ctx context.Context, filter *Filter) ([]*Record, error) {
	stmt := "SELECT seq, height, name, account, collection, itemId, liquidator, paid, requested FROM event WHERE 1"
	var args []interface{}
	if filter != nil {
		if filter.Account != nil {
			stmt += " AND account = ?"
			args = append(args, filter.Account.Bytes())
		}
		if filter.Name != "" {
			stmt += " AND name = ?"
			args = append(args, filter.Name)
		}
	}
	stmt += " ORDER BY seq ASC"
	if filter != nil && filter.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			rec                             Record
			account, collection, liquidator []byte
		)
		if err := rows.Scan(
			&rec.Seq, &rec.Height, &rec.Name, &account,
			&collection, &rec.ItemID, &liquidator, &rec.Paid, &rec.Requested,
		); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		rec.Account = colstake.BytesToAddress(account)
		if len(collection) > 0 {
			addr := colstake.BytesToAddress(collection)
			rec.Collection = &addr
		}
		if len(liquidator) > 0 {
			addr := colstake.BytesToAddress(liquidator)
			rec.Liquidator = &addr
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
