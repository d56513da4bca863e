package player

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as mm:ss. Unknown or negative values render as 00:00.
func FormatTime(seconds float64) string {
	if !known(seconds) || seconds < 0 {
		return "00:00"
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func known(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func computeProgress(current, duration float64) Progress {
	p := Progress{
		Elapsed:  FormatTime(current),
		Duration: FormatTime(duration),
	}
	if known(duration) && duration > 0 && known(current) {
		p.Percent = math.Max(0, math.Min(100, current/duration*100))
	}
	return p
}
