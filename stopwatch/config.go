package stopwatch

import (
	"time"

	"github.com/tickdown/stopwatch/util"
)

// Config is the yaml-friendly countdown configuration.
type Config struct {
	// Max is a `<number><s|m|h>` time specification.
	Max string `yaml:"max"`
	// Interval is the wall-clock length of one time unit.
	Interval util.ReadableDuration `yaml:"interval"`
}

func DefaultConfig() Config {
	return Config{
		Max:      "5m",
		Interval: util.ReadableDuration(DefaultInterval),
	}
}

func (c Config) IsValid([]byte) error {
	if _, err := ParseTimeSpec(c.Max); err != nil {
		return util.ErrInvalid.Wrapf(err, "max")
	}

	if c.Interval.Duration() < time.Millisecond {
		return util.ErrInvalid.Errorf("too narrow interval, %v", c.Interval)
	}

	return nil
}

// NewStopwatchFromConfig makes a Stopwatch with the configured maximum
// and tick interval; a nil source selects wall-clock ticks.
func NewStopwatchFromConfig(c Config, source TickerSource) (*Stopwatch, error) {
	if err := util.CheckIsValid(nil, false, c); err != nil {
		return nil, err
	}

	sw := NewStopwatch(source).SetInterval(c.Interval.Duration())

	if _, err := sw.SetMaxTime(c.Max); err != nil {
		return nil, err
	}

	return sw, nil
}
