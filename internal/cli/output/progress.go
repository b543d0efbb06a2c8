package output

import (
	"fmt"
	"strings"
)

// ProgressBar renders done out of total as a fixed-width bar, e.g.
// "[██████░░░░] 60%". Values outside 0..total are clamped.
func ProgressBar(done, total float64, width int) string {
	if width <= 0 {
		width = 20
	}
	ratio := 0.0
	if total > 0 {
		ratio = done / total
	}
	ratio = max(0, min(1, ratio))

	filled := int(float64(width)*ratio + 0.5)
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		ratio*100,
	)
}
