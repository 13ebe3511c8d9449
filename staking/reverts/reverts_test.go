// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))

	assert.True(t, IsRevertErr(New("rejected")))
	assert.True(t, IsRevertErr(ErrNotWhitelisted))
	assert.True(t, IsRevertErr(fmt.Errorf("outer: %w", ErrNotStaked)))
}

func TestErrRevert_Message(t *testing.T) {
	assert.Equal(t, "rejected", New("rejected").Error())

	wrapped := Wrap(errors.New("inner"), "rejected")
	assert.Equal(t, "rejected: inner", wrapped.Error())
}

func TestCustodyTransferFailed(t *testing.T) {
	cause := errors.New("registry down")
	err := CustodyTransferFailed(cause)

	assert.True(t, IsRevertErr(err))
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.ErrorContains(t, err, "registry down")
}
