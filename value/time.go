package value

import (
	"math"
	"time"
)

// Time is a network timestamp: seconds since 1900 in the upper 32 bits and
// the fractional second in the lower 32 bits.
type Time uint64

const (
	ntpEpochOffset = 2208988800
	fracScale      = float64(1 << 32)
)

func Now() Time {
	return FromTime(time.Now())
}

func FromTime(t time.Time) Time {
	if t.IsZero() {
		return 0
	}
	sec := uint64(t.Unix() + ntpEpochOffset)
	frac := (uint64(t.Nanosecond()) << 32) / uint64(time.Second)
	return Time(sec<<32 | frac)
}

func (t Time) Sec() uint32  { return uint32(t >> 32) }
func (t Time) Frac() uint32 { return uint32(t) }
func (t Time) IsZero() bool { return t == 0 }

// Float64 returns the timestamp as fractional seconds since 1900.
func (t Time) Float64() float64 {
	return float64(t.Sec()) + float64(t.Frac())/fracScale
}

func (t Time) Time() time.Time {
	if t == 0 {
		return time.Time{}
	}
	nsec := (uint64(t.Frac()) * uint64(time.Second)) >> 32
	return time.Unix(int64(t.Sec())-ntpEpochOffset, int64(nsec))
}

// Add shifts the timestamp by a (possibly negative) number of seconds.
func (t Time) Add(seconds float64) Time {
	if seconds == 0 {
		return t
	}
	return Time(int64(t) + int64(math.Round(seconds*fracScale)))
}

// Sub returns t-o in seconds.
func (t Time) Sub(o Time) float64 {
	return float64(int64(t-o)) / fracScale
}

func (t Time) String() string {
	if t == 0 {
		return "0"
	}
	return t.Time().UTC().Format(time.RFC3339Nano)
}
