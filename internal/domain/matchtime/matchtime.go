// Package matchtime renders elapsed match seconds as the labels shown on the
// scoreboard: the minute label used in the event log ("37", "45+2") and the
// mm:ss stopwatch badge.
package matchtime

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/touchline/internal/domain/errs"
)

const secondsPerMinute = 60

// Format returns the match-minute label for raw elapsed seconds.
//
// Minutes are 1-indexed and rounded up, so second 1 is minute "1" and second
// 0 is "0". Time past the end of a half is written as stoppage time,
// "{base}+{extra}", where base is the half's length in minutes. The base is
// not rounded: a regulation length not divisible by 4 minutes yields labels
// such as "22.5+1".
func Format(raw, regulation int, secondHalf bool) (string, error) {
	const op = "matchtime.format"
	if raw < 0 {
		return "", errs.Newf(op, errs.ErrValidation, "negative seconds %d", raw)
	}
	if regulation <= 0 {
		return "", errs.Newf(op, errs.ErrValidation, "regulation seconds must be positive, got %d", regulation)
	}

	half := float64(regulation) / 2
	seconds := float64(raw)
	full := float64(regulation)

	extra := (seconds > half && !secondHalf) || seconds > full
	if !extra {
		return strconv.Itoa(ceilMinutes(seconds)), nil
	}

	end := full
	if !secondHalf {
		end = half
	}
	return formatMinutes(end/secondsPerMinute) + "+" + strconv.Itoa(ceilMinutes(seconds-end)), nil
}

// Stopwatch renders seconds as mm:ss with both fields padded to two digits.
// Negative input renders as 00:00.
func Stopwatch(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/secondsPerMinute, seconds%secondsPerMinute)
}

func ceilMinutes(seconds float64) int {
	return int(math.Ceil(seconds / secondsPerMinute))
}

func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
