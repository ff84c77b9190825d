package plot

import (
	"fmt"
	"math"
	"strings"
)

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// padRight left-aligns s within the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// clamp limits v to the magnitude axis.
func clamp(v float64) float64 {
	return math.Max(-axisLimit, math.Min(axisLimit, v))
}

// barCells returns how many cells of a half axis the value fills.
func barCells(v float64, half int) int {
	return int(math.Round(math.Abs(clamp(v)) / axisLimit * float64(half)))
}

// renderBar draws one row of the chart: half cells left of the zero axis,
// the axis, and half cells right of it.
func renderBar(v float64, half int) string {
	cells := barCells(v, half)
	fill := strings.Repeat("█", cells)
	if v >= 0 {
		return strings.Repeat(" ", half) + dimStyle.Render("│") +
			positiveBarStyle.Render(fill) + strings.Repeat(" ", half-cells)
	}
	return strings.Repeat(" ", half-cells) + negativeBarStyle.Render(fill) +
		dimStyle.Render("│") + strings.Repeat(" ", half)
}

// axisScale returns the tick labels of the magnitude axis over 2*half+1 cells.
func axisScale(half int) string {
	row := []byte(strings.Repeat(" ", 2*half+1))
	lo := fmt.Sprintf("%.1f", -axisLimit)
	hi := fmt.Sprintf("%.1f", axisLimit)
	copy(row, lo)
	row[half] = '0'
	copy(row[len(row)-len(hi):], hi)
	return string(row)
}

// Render draws the amplitudes as a horizontal bar chart of the given width.
// Each state gets one row; values beyond the axis limit are drawn at the edge
// and printed unclipped.
func Render(labels []string, values []float64, width int) string {
	width = max(width, minWidth)
	n := min(len(labels), len(values))

	labelW := len("state")
	for _, l := range labels[:n] {
		labelW = max(labelW, len(l))
	}
	half := max((width-labelW-valueW-3)/2, 6)
	axisW := 2*half + 1

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(padCenter("Amplitudes", labelW+1+axisW)))
	sb.WriteString("\n\n")

	sb.WriteString(captionStyle.Render(padRight("state", labelW)))
	sb.WriteString(" ")
	sb.WriteString(dimStyle.Render(axisScale(half)))
	sb.WriteString("\n")

	for i := range n {
		sb.WriteString(stateLabelStyle.Render(padRight(labels[i], labelW)))
		sb.WriteString(" ")
		sb.WriteString(renderBar(values[i], half))
		sb.WriteString(" ")
		sb.WriteString(valueStyle.Render(fmt.Sprintf("%+.3f", values[i])))
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat(" ", labelW+1))
	sb.WriteString(captionStyle.Render(padCenter("magnitude", axisW)))
	return sb.String()
}
