package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/natindo/LectureWizard/internal/models"
	"github.com/natindo/LectureWizard/internal/theme"
	"github.com/natindo/LectureWizard/internal/wizard"
)

const dateTimeLayout = "2006-01-02 15:04"

var stepNames = map[int]string{
	wizard.StepTitle:       "Название",
	wizard.StepPeriod:      "Время проведения",
	wizard.StepAttachments: "Материалы",
	wizard.StepUnits:       "Разделы",
	wizard.StepReview:      "Проверка",
}

var labels = map[string]string{
	wizard.TextNext:   "Далее",
	wizard.TextFinish: "Готово",
}

type palette struct {
	primary lipgloss.Color
	success lipgloss.Color
	errText lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
}

var (
	lightPalette = palette{
		primary: lipgloss.Color("#6D28D9"),
		success: lipgloss.Color("#047857"),
		errText: lipgloss.Color("#B91C1C"),
		muted:   lipgloss.Color("#4B5563"),
		border:  lipgloss.Color("#9CA3AF"),
	}
	darkPalette = palette{
		primary: lipgloss.Color("#A78BFA"),
		success: lipgloss.Color("#10B981"),
		errText: lipgloss.Color("#F87171"),
		muted:   lipgloss.Color("#9CA3AF"),
		border:  lipgloss.Color("#6B7280"),
	}
)

type styles struct {
	title    lipgloss.Style
	stepDone lipgloss.Style
	stepCur  lipgloss.Style
	stepTodo lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
	box      lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	p := lightPalette
	if t == theme.Dark {
		p = darkPalette
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.primary).MarginBottom(1),
		stepDone: lipgloss.NewStyle().Foreground(p.success),
		stepCur:  lipgloss.NewStyle().Bold(true).Foreground(p.primary).Underline(true),
		stepTodo: lipgloss.NewStyle().Foreground(p.muted),
		status:   lipgloss.NewStyle().Foreground(p.success),
		err:      lipgloss.NewStyle().Foreground(p.errText),
		help:     lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Мастер лекции"))
	b.WriteString("\n")

	if m.view == viewEditor {
		b.WriteString(m.styles.box.Render("Редактирование лекции\n" + m.summary()))
		b.WriteString("\n")
		b.WriteString(m.styles.help.Render(fmt.Sprintf("enter — продолжить с шага %d • esc — выход", m.editorStep)))
		return b.String()
	}

	b.WriteString(m.progress())
	b.WriteString("\n\n")

	if m.mode == models.ModeForm {
		b.WriteString("Режим формы: введите лекцию одной строкой.\n")
	} else {
		b.WriteString(m.stepBody())
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(m.styles.status.Render(m.status) + "\n")
	}
	if m.errText != "" {
		b.WriteString(m.styles.err.Render(m.errText) + "\n")
	}
	b.WriteString(m.styles.help.Render(m.helpLine()))
	return b.String()
}

// progress — строка шагов с отметкой текущего.
func (m *Model) progress() string {
	parts := make([]string, 0, wizard.TotalSteps)
	for step := 1; step <= wizard.TotalSteps; step++ {
		label := fmt.Sprintf("%d. %s", step, stepNames[step])
		switch {
		case step < m.seq.Step():
			parts = append(parts, m.styles.stepDone.Render(label))
		case step == m.seq.Step():
			parts = append(parts, m.styles.stepCur.Render(label))
		default:
			parts = append(parts, m.styles.stepTodo.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) stepBody() string {
	l := m.lecture
	switch m.seq.Step() {
	case wizard.StepTitle:
		icon := "нет"
		if l.Icon != "" {
			icon = l.Icon
		}
		return fmt.Sprintf("Введите название лекции. Иконка: %s (tab — сменить).\n", icon)
	case wizard.StepPeriod:
		if !m.selectedDate.IsZero() {
			return fmt.Sprintf("Дата: %s. Введите время HH:MM-HH:MM.\n", m.selectedDate.Format("2006-01-02"))
		}
		return "Введите время проведения или «сегодня»/«завтра».\n"
	case wizard.StepAttachments:
		return fmt.Sprintf("Добавьте ссылки на материалы (добавлено: %d).\n", len(l.Attachments))
	case wizard.StepUnits:
		return fmt.Sprintf("Добавьте разделы по одному (добавлено: %d). «Далее» сохранит лекцию.\n", len(l.Units))
	case wizard.StepReview:
		return m.styles.box.Render(m.summary()) + "\n"
	}
	return ""
}

func (m *Model) summary() string {
	l := m.lecture
	var sb strings.Builder
	if l.Persisted() {
		fmt.Fprintf(&sb, "ID=%d\n", l.ID)
	}
	sb.WriteString(l.DisplayTitle() + "\n")
	if l.StartDate != nil {
		sb.WriteString("Начало: " + l.StartDate.Format(dateTimeLayout) + "\n")
	}
	if l.EndDate != nil {
		sb.WriteString("Окончание: " + l.EndDate.Format(dateTimeLayout) + "\n")
	}
	for _, a := range l.Attachments {
		sb.WriteString("  • " + a.Name + "\n")
	}
	for _, u := range l.Units {
		fmt.Fprintf(&sb, "  %d. %s\n", u.Position, u.Name)
	}
	if e, ok := m.picker.LookupNative(l.Icon); ok {
		if img := m.picker.SingleImage(e.Unified); img != "" {
			sb.WriteString("Иконка: " + img + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) helpLine() string {
	next := m.seq.NextIcon() + " " + labels[m.seq.NextText()]
	return fmt.Sprintf("enter — ввод • ctrl+n — %s • ctrl+t — режим • ctrl+d — тема • esc — выход", next)
}
