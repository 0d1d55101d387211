package main

import (
	"math"
	"sync"
	"time"
)

// eta estimates the time left from the elapsed time and the completed fraction.
func eta(elapsed time.Duration, completion float64) time.Duration {
	if completion <= 0 {
		return 0
	}
	return time.Duration(float64(elapsed)/completion) - elapsed
}

// progress prints "i/n done; ETA = s" lines at most every step completions.
type progress struct {
	p     *printer
	start time.Time
	now   func() time.Time

	mu   sync.Mutex
	last int
}

func newProgress(p *printer) *progress {
	return &progress{p: p, start: time.Now(), now: time.Now}
}

// Report is a distance.ProgressFunc. Calls may arrive concurrently and out of order.
func (pr *progress) Report(done, total int) {
	step := max(1, total/20)

	pr.mu.Lock()
	defer pr.mu.Unlock()
	if done != total && done-pr.last < step {
		return
	}
	if done <= pr.last {
		return
	}
	pr.last = done

	left := eta(pr.now().Sub(pr.start), float64(done)/float64(total))
	pr.p.Debugf("%d/%d done; ETA = %d s", done, total, int(math.Round(left.Seconds())))
}
