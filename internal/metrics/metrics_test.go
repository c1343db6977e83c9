// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package metrics

import (
	"sync"
	"testing"
)

func TestCounters_SnapshotAndReset(t *testing.T) {
	c := NewCounters()

	c.RecordCall()
	c.RecordCall()
	c.RecordCall()
	c.RecordSuccess()
	c.RecordFailure()
	c.RecordTimeout()
	c.RecordValidationError()

	snap := c.Snapshot()
	if snap.Total != 3 {
		t.Errorf("total = %d, want 3", snap.Total)
	}
	if snap.Success != 1 || snap.Failure != 1 || snap.Timeout != 1 || snap.ValidationErrors != 1 {
		t.Errorf("snapshot = %+v, want one of each result", snap)
	}

	c.Reset()
	if got := c.Snapshot(); got != (Snapshot{}) {
		t.Errorf("after reset = %+v, want zeroes", got)
	}
}

func TestCounters_SnapshotIsCopy(t *testing.T) {
	c := NewCounters()
	c.RecordCall()

	snap := c.Snapshot()
	c.RecordCall()

	if snap.Total != 1 {
		t.Errorf("snapshot mutated after the fact: total = %d, want 1", snap.Total)
	}
}

func TestCounters_ConcurrentRecording(t *testing.T) {
	c := NewCounters()

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				c.RecordCall()
				c.RecordSuccess()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.Total != workers*perWorker {
		t.Errorf("total = %d, want %d", snap.Total, workers*perWorker)
	}
	if snap.Success != workers*perWorker {
		t.Errorf("success = %d, want %d", snap.Success, workers*perWorker)
	}
}
