package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ChainSeparator joins modules in the text form of a chain.
const ChainSeparator = " -> "

// FormatChain renders modules as "a -> b -> c".
func FormatChain(modules []string) string {
	return strings.Join(modules, ChainSeparator)
}

// FormatDuration renders d for humans: milliseconds below one second,
// seconds with up to three decimals below ten seconds, whole seconds above.
//
//	532ms, 1s, 1.234s, 2.5s, 12s
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 10000:
		s := strconv.FormatFloat(float64(ms)/1000, 'f', 3, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		return s + "s"
	default:
		return fmt.Sprintf("%ds", (ms+500)/1000)
	}
}
