// Copyright (c) 2025 The Colstake developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/colstake/colstake/staking"
)

// Status is the probe result served to orchestrators.
type Status struct {
	Healthy        bool       `json:"healthy"`
	Initialized    bool       `json:"initialized"`
	ScheduleActive bool       `json:"scheduleActive"`
	LastAccess     *time.Time `json:"lastAccess"`
}

// Health probes the ledger store. A probe that cannot read the schedule
// marks the service unhealthy; an uninitialized ledger is unhealthy too
// since every view on it fails.
type Health struct {
	repo *staking.Repository

	lock       sync.RWMutex
	lastAccess time.Time
}

func New(repo *staking.Repository) *Health {
	return &Health{repo: repo}
}

// Touch records a successful ledger access.
func (h *Health) Touch() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.lastAccess = time.Now()
}

// Status probes the store at the given ledger height.
func (h *Health) Status(now uint32) (*Status, error) {
	initialized, err := h.repo.Initialized()
	if err != nil {
		return &Status{}, err
	}

	status := &Status{
		Initialized: initialized,
		Healthy:     initialized,
	}
	if initialized {
		sched, err := h.repo.Schedule()
		if err != nil {
			return &Status{Initialized: true}, err
		}
		status.ScheduleActive = sched.Started(now) && now < sched.EndHeight
		h.Touch()
	}

	h.lock.RLock()
	if !h.lastAccess.IsZero() {
		last := h.lastAccess
		status.LastAccess = &last
	}
	h.lock.RUnlock()

	return status, nil
}
