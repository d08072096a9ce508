package stopwatch

import (
	"math"
	"regexp"
	"strconv"

	"github.com/tickdown/stopwatch/util"
)

var ErrInvalidTimeFormat = util.NewError("invalid time format")

var timeSpecRegexp = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)([smh])$`)

var unitSeconds = map[string]float64{
	"s": 1,
	"m": 60,
	"h": 3600,
}

// ParseTimeSpec parses a `<number><s|m|h>` specification into whole
// time units; fractional values are scaled then rounded to the nearest
// unit, so "0.5s" is 1 and "0.5m" is 30.
func ParseTimeSpec(s string) (int, error) {
	m := timeSpecRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrInvalidTimeFormat.Errorf("%q", s)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, ErrInvalidTimeFormat.Wrapf(err, "%q", s)
	}

	return int(math.Round(v * unitSeconds[m[2]])), nil
}
