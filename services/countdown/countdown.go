// Package countdown computes the time left until a scheduled session starts.
package countdown

import (
	"context"
	"fmt"
	"time"
)

// ExpiredLabel is shown once the scheduled start has been reached.
const ExpiredLabel = "Session time"

// window is the span PercentComplete is measured against.
const window = 24 * time.Hour

var clockLayouts = []string{"15:04", "15:04:05"}

// Countdown is one evaluation of the time left before a session.
type Countdown struct {
	SecondsRemaining int64   `json:"secondsRemaining"`
	Formatted        string  `json:"formatted"`
	IsExpired        bool    `json:"isExpired"`
	IsWithin5Minutes bool    `json:"isWithin5Minutes"`
	IsWithin2Minutes bool    `json:"isWithin2Minutes"`
	PercentComplete  float64 `json:"percentComplete"`
}

// ScheduledAt parses a "2006-01-02" date and "15:04" clock in loc.
func ScheduledAt(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation("2006-01-02 "+layout, date+" "+clock, loc)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid schedule %q %q", date, clock)
}

// Calculate evaluates the countdown at now. Malformed input counts as no
// time remaining.
func Calculate(date, clock string, now time.Time, loc *time.Location) Countdown {
	at, err := ScheduledAt(date, clock, loc)
	if err != nil {
		return fromSeconds(0)
	}
	return Until(at, now)
}

// Until evaluates the countdown towards at.
func Until(at, now time.Time) Countdown {
	secs := int64(at.Sub(now) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fromSeconds(secs)
}

func fromSeconds(secs int64) Countdown {
	c := Countdown{
		SecondsRemaining: secs,
		IsExpired:        secs <= 0,
		IsWithin5Minutes: secs > 0 && secs <= 300,
		IsWithin2Minutes: secs > 0 && secs <= 120,
		PercentComplete:  percentComplete(secs),
	}
	c.Formatted = format(secs)
	return c
}

func format(secs int64) string {
	if secs <= 0 {
		return ExpiredLabel
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func percentComplete(secs int64) float64 {
	total := window.Seconds()
	p := (total - float64(secs)) / total * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Watch emits a fresh Countdown immediately and then every interval until
// ctx is done, at which point the channel is closed. A slow reader only ever
// sees the latest value.
func Watch(ctx context.Context, date, clock string, loc *time.Location, interval time.Duration) <-chan Countdown {
	return watch(ctx, interval, func(now time.Time) Countdown {
		return Calculate(date, clock, now, loc)
	})
}

func watch(ctx context.Context, interval time.Duration, eval func(time.Time) Countdown) <-chan Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	out := make(chan Countdown, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		publish := func(c Countdown) {
			select {
			case <-out:
			default:
			}
			out <- c
		}

		publish(eval(time.Now()))
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				publish(eval(now))
			}
		}
	}()
	return out
}
