package measure

import "time"

// WallTime measures elapsed real time in nanoseconds.
type WallTime struct{}

func (WallTime) Info() Info {
	return wallTimeInfo
}

func (WallTime) Start() (time.Time, error) {
	return time.Now(), nil
}

func (WallTime) End(start time.Time) (uint64, error) {
	// time.Since uses the monotonic reading, so this is never negative.
	return uint64(time.Since(start).Nanoseconds()), nil
}
