package util

import (
	"fmt"
)

/*
Formatting helpers for command output.
*/

////////////////////////////////////////////////////////////////////////////////

// HumanBytes renders a byte count in binary units with one decimal place,
// such as "201 B" or "1.5 KB".
func HumanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit && exp < 5; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Plural renders a count with its noun, adding "s" unless n is 1.
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
