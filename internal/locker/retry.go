package locker

import "time"

// Retry runs an operation a bounded number of times, sleeping between
// failed attempts.
type Retry struct {
	// Attempts is the maximum number of calls. Values below 1 mean one call.
	Attempts int
	// Delay is the pause after each failed attempt except the last.
	Delay time.Duration
	// Sleep pauses for the given duration; nil means time.Sleep.
	Sleep func(time.Duration)
}

// Do calls op until it returns nil or the attempts run out. It returns the
// number of calls made and the last error.
func (r Retry) Do(op func() error) (int, error) {
	attempts := max(r.Attempts, 1)
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = op(); err == nil {
			return i, nil
		}
		if i < attempts && r.Delay > 0 {
			sleep(r.Delay)
		}
	}
	return attempts, err
}
