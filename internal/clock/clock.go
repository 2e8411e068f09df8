// Package clock stands in for the real-time-clock collaborator the spec
// places out of scope: on real hardware, t_creation/t_edit are stamped
// from a CMOS RTC driver that produces a clock string. This module only
// needs a monotonically-sensible timestamp source, so it exposes the
// same Clock interface the kernel's RTC driver would satisfy and
// defaults to the host's wall clock.
package clock

import "time"

// Clock returns the current time as a Unix timestamp, wFS's on-disk
// timestamp representation for t_creation/t_edit.
type Clock interface {
	Now() uint64
}

// System is the default Clock, backed by time.Now.
type System struct{}

func (System) Now() uint64 { return uint64(time.Now().Unix()) }
