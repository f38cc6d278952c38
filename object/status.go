package object

import "strings"

// Status describes what happened to a record since it was last checked.
type Status uint16

const (
	StatusNew Status = 1 << iota
	StatusModified
	StatusRemoved
	StatusExpired
	StatusStaged
	StatusActive
	StatusHasValue
	StatusNewValue
	StatusLocalUpdate
	StatusRemoteUpdate
	StatusUpstreamRelease
	StatusDownstreamRelease
	StatusOverflow

	StatusUndefined Status = 0
	StatusAny       Status = 0x1FFF

	// statusSticky survives a reset; everything else is observed once.
	statusSticky = StatusExpired | StatusStaged | StatusActive | StatusHasValue
)

var statusNames = []string{
	"new",
	"modified",
	"removed",
	"expired",
	"staged",
	"active",
	"has-value",
	"new-value",
	"local-update",
	"remote-update",
	"upstream-release",
	"downstream-release",
	"overflow",
}

func (s Status) Has(o Status) bool { return s&o != 0 }

// Reset drops the transient flags.
func (s Status) Reset() Status { return s & statusSticky }

func (s Status) String() string {
	if s == StatusUndefined {
		return "undefined"
	}
	var parts []string
	for i, name := range statusNames {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}
