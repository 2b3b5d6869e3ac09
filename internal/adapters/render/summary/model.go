package summary

import (
	"errors"
	"io"

	"github.com/bnema/session-ctx-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	view   func(s styles) string
	styles styles
	output string
}

func newModel(view func(s styles) string) model {
	return model{
		view:   view,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.view(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func render(view func(s styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(view),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

func RenderSummary(summary application.Summary) (string, error) {
	return render(func(s styles) string {
		return summaryView(summary, s)
	})
}

func RenderComparison(comparison application.Comparison) (string, error) {
	return render(func(s styles) string {
		return comparisonView(comparison, s)
	})
}

func RenderBenchReport(report application.BenchReport) (string, error) {
	return render(func(s styles) string {
		return benchView(report, s)
	})
}
