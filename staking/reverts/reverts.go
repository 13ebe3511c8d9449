// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// ErrRevert is a precondition violation. It rejects an operation before any
// state is touched, as opposed to infrastructure errors (storage,
// collaborator plumbing) which indicate the operation could not be evaluated
// at all.
type ErrRevert struct {
	message string
	cause   error
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

// Wrap attaches a collaborator failure to a revert reason.
func Wrap(cause error, message string) *ErrRevert {
	return &ErrRevert{
		message: message,
		cause:   cause,
	}
}

func (e *ErrRevert) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
	}
	return e.message
}

func (e *ErrRevert) Unwrap() error {
	return e.cause
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Schedule misconfiguration, rejected before any mutation.
var (
	ErrInvalidWindow  = New("schedule: invalid window")
	ErrNotFuture      = New("schedule: height is not in the future")
	ErrAlreadyStarted = New("schedule: already started")
	ErrInvalidRate    = New("schedule: invalid reward rate")
)

// Precondition violations on staking operations.
var (
	ErrNotWhitelisted            = New("collection is not whitelisted")
	ErrCustodyNotAuthorized      = New("custody transfer is not authorized")
	ErrAlreadyStaked             = New("collection is already staked")
	ErrNotStaked                 = New("no matching staked position")
	ErrSchedulingNotStarted      = New("staking schedule has not started")
	ErrAboveLiquidationThreshold = New("price is above liquidation threshold")
)

// Access and reentrancy guards.
var (
	ErrNotOwner      = New("caller is not the owner")
	ErrReentrantCall = New("reentrant call")
)

// CustodyTransferFailed propagates an item registry transfer failure
// unchanged; the whole operation is rolled back.
func CustodyTransferFailed(cause error) *ErrRevert {
	return Wrap(cause, "custody transfer failed")
}
