// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var g Goes
	var counter int32
	for i := 0; i < 10; i++ {
		g.Go(func() {
			atomic.AddInt32(&counter, 1)
		})
	}
	g.Wait()
	assert.Equal(t, int32(10), atomic.LoadInt32(&counter))
}

func TestGoesDone(t *testing.T) {
	var g Goes
	g.Go(func() {})
	<-g.Done()
}
