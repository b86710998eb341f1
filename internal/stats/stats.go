// Package stats contains quiz history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/tuivoc/internal/model"
)

const sparkChars = " .:-=+*#%@"

var (
	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// AccuracyRate returns correct answers as a percentage of total questions.
// The second value is false when there were no questions.
func AccuracyRate(correct, total int) (float64, bool) {
	return model.AccuracyRate(correct, total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// AccuracySeries returns the per-quiz accuracy smoothed over window.
func AccuracySeries(results []model.QuizResult, window int) []float64 {
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.Accuracy()
	}
	return MovingAverage(values, window)
}

// RenderSummary prints aggregate figures for the results.
func RenderSummary(w io.Writer, results []model.QuizResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No quizzes found.")
		return err
	}
	var correct, total, skipped int
	best := 0.0
	for _, r := range results {
		correct += r.Correct
		total += r.Total
		skipped += r.Skipped
		best = math.Max(best, r.Accuracy())
	}
	overall, _ := AccuracyRate(correct, total)
	lines := []string{
		"Summary",
		fmt.Sprintf("Quizzes: %d", len(results)),
		fmt.Sprintf("Questions: %d (%d skipped)", total, skipped),
		fmt.Sprintf("Overall Accuracy: %.2f%%", overall),
		fmt.Sprintf("Best Accuracy: %.2f%%", best),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints the smoothed accuracy sparkline, clipped to the terminal width.
func RenderTrend(w io.Writer, results []model.QuizResult, window int) error {
	if len(results) == 0 {
		return nil
	}
	series := AccuracySeries(results, window)
	if width := terminalWidth(w); width > 0 && len(series) > width {
		series = series[len(series)-width:]
	}
	if _, err := fmt.Fprintf(w, "Accuracy Trend (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", Sparkline(series)); err != nil {
		return err
	}
	return nil
}

// RenderResultTable prints one line per quiz, newest last.
func RenderResultTable(w io.Writer, results []model.QuizResult) error {
	if len(results) == 0 {
		return nil
	}
	useColor := shouldUseColor(w)
	headers := []string{"Date", "Source", "Score", "Correct", "Skipped", "Accuracy"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		acc := fmt.Sprintf("%.1f%%", r.Accuracy())
		if useColor {
			if r.Accuracy() >= 50 {
				acc = goodStyle.Render(acc)
			} else {
				acc = badStyle.Render(acc)
			}
		}
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			shortSource(r.Source),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d/%d", r.Correct, r.Total),
			fmt.Sprintf("%d", r.Skipped),
			acc,
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func shortSource(source string) string {
	const limit = 32
	runes := []rune(source)
	if len(runes) <= limit {
		return source
	}
	return string(runes[:limit-3]) + "..."
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
