package letid

import "time"

type Interval string

const (
	IntervalH1  Interval = "1h"
	IntervalM30 Interval = "30m"
	IntervalM15 Interval = "15m"
	IntervalM1  Interval = "1m"
)

// number of steps per hour
func (self Interval) get_n_hour() int {
	switch self {
	case IntervalH1:
		return 1
	case IntervalM30:
		return 2
	case IntervalM15:
		return 4
	case IntervalM1:
		return 60
	default:
		panic("invalid interval: " + string(self))
	}
}

// timestep width, s
func (self Interval) get_delta_t() float64 {
	return 3600.0 / float64(self.get_n_hour())
}

func (self Interval) get_duration() time.Duration {
	return time.Duration(self.get_delta_t() * float64(time.Second))
}

func NewInterval(s string) (Interval, error) {
	itv := Interval(s)
	switch itv {
	case IntervalH1, IntervalM30, IntervalM15, IntervalM1:
		return itv, nil
	default:
		return "", domain_errorf("invalid interval %q (want 1h, 30m, 15m or 1m)", s)
	}
}
