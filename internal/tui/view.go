package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/quiz"
)

var (
	accentStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	promptStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	optionStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	selectedStyle     = accentStyle.Bold(true)
	correctStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	toastSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	toastWarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	toastErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle         = lipgloss.NewStyle().
				Padding(1, 3).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.session.State() {
	case quiz.Loading:
		body = m.viewLoading()
	case quiz.AwaitingAnswer, quiz.Submitted:
		body = m.viewQuestion()
	case quiz.Completed:
		body = m.viewCompleted()
	}
	sections := []string{body}
	if t := m.toast.View(); t != "" {
		sections = append(sections, t)
	}
	if footer := m.renderFooter(); footer != "" {
		sections = append(sections, footerStyle.Render(footer))
	}
	sections = append(sections, m.help.View(m.keys))
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewLoading() string {
	if m.fetching {
		return m.spinner.View() + " Loading vocabulary..."
	}
	if err := m.session.LoadErr(); err != nil {
		return incorrectStyle.Render("Could not load vocabulary.") + "\n" +
			optionStyle.Render(err.Error()) + "\n\n" +
			footerStyle.Render("Press r to retry.")
	}
	return ""
}

func (m *Model) viewQuestion() string {
	q, ok := m.session.Question()
	if !ok || !q.HasOptions() {
		return optionStyle.Render("No question to show. Press s to skip.")
	}
	width := m.contentWidth()
	var b strings.Builder
	b.WriteString(promptStyle.Render(indentLines(wrapText(q.Content, width), 0)))
	b.WriteString("\n\n")
	for i, opt := range q.Options {
		prefix := fmt.Sprintf("%d. ", i+1)
		line := prefix + indentLines(wrapText(opt, width-len(prefix)), len(prefix))
		b.WriteString(m.optionStyleFor(q, i, opt).Render(line))
		if i < len(q.Options)-1 {
			b.WriteString("\n")
		}
	}
	if m.session.Submitted() {
		b.WriteString("\n\n")
		b.WriteString(m.renderFeedback(q))
	}
	return cardStyle.Render(b.String())
}

func (m *Model) optionStyleFor(q model.Question, idx int, opt string) lipgloss.Style {
	if m.session.Submitted() {
		switch {
		case opt == q.Key:
			return correctStyle
		case opt == m.session.Selected():
			return incorrectStyle
		default:
			return optionStyle
		}
	}
	if idx == m.cursor {
		return selectedStyle
	}
	return optionStyle
}

func (m *Model) renderFeedback(q model.Question) string {
	if m.session.LastCorrect() {
		return correctStyle.Render(fmt.Sprintf("Correct! +%d", quiz.PointsPerAnswer))
	}
	return incorrectStyle.Render("Wrong. Answer: " + q.Key)
}

func (m *Model) viewCompleted() string {
	total := m.session.Total()
	if total == 0 {
		return optionStyle.Render("The vocabulary list is empty.")
	}
	lines := []string{
		promptStyle.Render("Quiz complete"),
		"",
		fmt.Sprintf("Score     %d", m.session.Score()),
		fmt.Sprintf("Correct   %d/%d", m.session.Correct(), total),
		fmt.Sprintf("Skipped   %d", m.session.Skipped()),
	}
	if rate, ok := m.session.AccuracyRate(); ok {
		lines = append(lines, fmt.Sprintf("Accuracy  %.1f%%", rate))
	}
	lines = append(lines, "", footerStyle.Render("Press r to play again."))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	switch m.session.State() {
	case quiz.AwaitingAnswer, quiz.Submitted:
		return fmt.Sprintf("Question %d/%d  Score %d", m.session.Position()+1, m.session.Total(), m.session.Score())
	default:
		return ""
	}
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(int(float64(m.width)*0.60), 10)
}
