//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package timer

import "time"

// Handle measures the time spent in an analysis step
type Handle struct {
	start time.Time
}

// Start creates and starts a timer
func Start() *Handle {
	return &Handle{start: time.Now()}
}

// Elapsed returns the time since the timer started
func (h *Handle) Elapsed() time.Duration {
	return time.Since(h.start)
}

// Stop returns the elapsed time as a human readable string
func (h *Handle) Stop() string {
	return h.Elapsed().Round(time.Microsecond).String()
}
