package util

import (
	"time"

	"gopkg.in/yaml.v3"
)

// ReadableDuration marshals as a human-readable duration string like
// "1s" or "250ms"; plain numbers decode as nanoseconds.
type ReadableDuration time.Duration

func (d ReadableDuration) Duration() time.Duration {
	return time.Duration(d)
}

func (d ReadableDuration) String() string {
	return time.Duration(d).String()
}

func (d ReadableDuration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *ReadableDuration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		i, err := time.ParseDuration(s)
		if err != nil {
			return ErrInvalid.Wrapf(err, "duration, %q", s)
		}

		*d = ReadableDuration(i)

		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return ErrInvalid.Wrapf(err, "duration")
	}

	*d = ReadableDuration(n)

	return nil
}
