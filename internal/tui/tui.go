package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/store"
)

// Runner plays a new simulation from the browser. It may be nil.
type Runner interface {
	Run(ctx context.Context, cfg models.SimulationConfig, ruleText string) (*models.SimulationResult, error)
}

type sessionState int

const (
	stateLoading sessionState = iota
	stateList
	stateRunning
	stateViewing
	stateAnnotating
	stateError
)

type model struct {
	state     sessionState
	store     store.Store
	runner    Runner
	cfg       models.SimulationConfig
	rules     string
	list      list.Model
	viewport  viewport.Model
	textInput textinput.Model
	current   *models.SimulationResult
	status    string
	err       error
	width     int
	height    int
}

var (
	gmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// item adapts a stored result to the list component.
type item struct {
	res *models.SimulationResult
}

func (i item) Title() string {
	name := i.res.Config.Scenario
	if name == "" {
		name = "Untitled playtest"
	}
	return fmt.Sprintf("%s (%s)", name, i.res.Outcome)
}

func (i item) Description() string {
	return fmt.Sprintf("%s  %d players, %d rounds, heat %d/%d",
		i.res.Timestamp.Local().Format("2006-01-02 15:04"), len(i.res.FinalState.Characters),
		i.res.FinalState.RoundsCompleted, i.res.FinalState.Heat, i.res.FinalState.MaxHeat)
}

func (i item) FilterValue() string { return i.res.Config.Scenario + " " + i.res.ID }

func toItems(results []*models.SimulationResult) []list.Item {
	items := make([]list.Item, len(results))
	for i, res := range results {
		items[i] = item{res}
	}
	return items
}

func NewModel(st store.Store, runner Runner, cfg models.SimulationConfig, rules string) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Flomanji playtests"
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "Notes on this run..."
	ti.CharLimit = 500
	ti.Width = 60

	return model{
		state:     stateLoading,
		store:     st,
		runner:    runner,
		cfg:       cfg,
		rules:     rules,
		list:      l,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadResults()
}

type resultsLoadedMsg struct {
	results []*models.SimulationResult
}

type simulationFinishedMsg struct {
	res *models.SimulationResult
}

type annotationSavedMsg struct {
	text string
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case stateList:
			if m.list.FilterState() == list.Filtering {
				break
			}
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "enter":
				if it, ok := m.list.SelectedItem().(item); ok {
					m.open(it.res)
				}
				return m, nil
			case "n":
				if m.runner == nil {
					m.status = "No model configured; set PLAYTEST_PROVIDER and an API key to run simulations."
					return m, nil
				}
				m.state = stateRunning
				return m, m.runSimulation()
			case "r":
				m.state = stateLoading
				return m, m.loadResults()
			}

		case stateViewing:
			switch msg.String() {
			case "esc", "backspace", "q":
				m.state = stateList
				m.current = nil
				return m, nil
			case "a":
				m.state = stateAnnotating
				m.textInput.SetValue(m.current.Annotations)
				m.textInput.Focus()
				return m, textinput.Blink
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case stateAnnotating:
			switch msg.Type {
			case tea.KeyEsc:
				m.state = stateViewing
				m.textInput.Blur()
				return m, nil
			case tea.KeyEnter:
				m.textInput.Blur()
				return m, m.saveAnnotation(m.current.ID, m.textInput.Value())
			}
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd

		case stateError:
			if msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		if m.current != nil {
			m.viewport.SetContent(m.renderLog())
		}

	case resultsLoadedMsg:
		cmd = m.list.SetItems(toItems(msg.results))
		m.state = stateList
		return m, cmd

	case listRefreshedMsg:
		return m, m.list.SetItems(toItems(msg.results))

	case simulationFinishedMsg:
		m.open(msg.res)
		m.status = "Simulation saved as " + msg.res.ID
		return m, m.loadResultsQuietly()

	case annotationSavedMsg:
		m.current.Annotations = msg.text
		m.state = stateViewing
		m.status = "Annotations saved."
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == stateList {
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// open switches to the transcript view of res.
func (m *model) open(res *models.SimulationResult) {
	m.current = res
	m.state = stateViewing
	m.status = ""
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.logWidth(), max(m.height-6, 10))
	}
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoTop()
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 80
	}
	return int(float64(m.width) * 0.72)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = "\n  Loading playtests...\n"

	case stateRunning:
		s = "\n  Running a new simulation... please wait.\n"

	case stateList:
		help := helpStyle.Render("enter: open  n: new run  r: reload  /: filter  q: quit")
		s = lipgloss.JoinVertical(lipgloss.Left, m.list.View(), help)
		if m.status != "" {
			s += "\n" + noticeStyle.Render(m.status)
		}

	case stateViewing, stateAnnotating:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		bottom := helpStyle.Render("up/down: scroll  a: annotate  esc: back")
		if m.state == stateAnnotating {
			bottom = m.textInput.View() + "\n" + helpStyle.Render("enter: save  esc: cancel")
		} else if m.status != "" {
			bottom = noticeStyle.Render(m.status) + "\n" + bottom
		}
		s = lipgloss.JoinVertical(lipgloss.Left, mainView, "\n"+bottom)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.current == nil {
		return ""
	}
	res := m.current
	state := res.FinalState

	var b strings.Builder
	b.WriteString(titleStyle.Render("OUTCOME") + "\n")
	b.WriteString(string(res.Outcome))
	if res.Reason != "" {
		b.WriteString(" (" + res.Reason + ")")
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("HEAT") + "\n")
	b.WriteString(heatBar(state.Heat, state.MaxHeat) + "\n")
	fmt.Fprintf(&b, "Mood: %s\n\n", state.Mood)

	b.WriteString(titleStyle.Render("OBJECTIVES") + "\n")
	for _, o := range state.Objectives {
		mark := "[ ]"
		if state.ObjectiveCompleted(o.ID) {
			mark = "[x]"
		}
		b.WriteString(mark + " " + o.Name + "\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("SURVIVORS") + "\n")
	for i, ch := range state.Characters {
		if i >= len(state.Inventories) {
			break
		}
		inv := state.Inventories[i]
		fmt.Fprintf(&b, "%s: HP %d  W %d  L %d\n", ch.Name, inv.Health, inv.Weirdness, inv.Luck)
	}

	if res.Annotations != "" {
		b.WriteString("\n" + titleStyle.Render("NOTES") + "\n" + res.Annotations + "\n")
	}

	stateWidth := int(float64(m.width) * 0.25)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func heatBar(heat, maxHeat int) string {
	if maxHeat <= 0 {
		return fmt.Sprintf("%d", heat)
	}
	filled := min(max(heat, 0), maxHeat)
	return fmt.Sprintf("%s%s %d/%d", strings.Repeat("#", filled), strings.Repeat(".", maxHeat-filled), heat, maxHeat)
}

// renderLog renders the transcript grouped by round.
func (m model) renderLog() string {
	if m.current == nil {
		return ""
	}
	width := m.logWidth()
	chars := m.current.FinalState.Characters

	var b strings.Builder
	round := -1
	for _, msg := range m.current.Log {
		if msg.Metadata.Round != round {
			round = msg.Metadata.Round
			b.WriteString(titleStyle.Render(fmt.Sprintf("ROUND %d", round+1)) + "\n\n")
		}
		speaker := narration.Speaker(msg, chars)
		label := fmt.Sprintf("%s | %s", speaker, msg.Metadata.Phase)
		switch msg.Role {
		case models.RolePlayer:
			b.WriteString(playerStyle.Width(width).Render(label) + "\n")
		default:
			b.WriteString(gmStyle.Render(label) + "\n")
		}
		b.WriteString(gameStyle.Width(width).Render(msg.Content) + "\n")
		if r := msg.Metadata.Roll; r != nil {
			b.WriteString(noticeStyle.Render(fmt.Sprintf("rolled %s: %d+%d=%d, %s", r.Stat, r.Raw, r.Modifier, r.Total, r.Outcome)) + "\n")
		}
		if msg.Metadata.ItemUsed != "" {
			b.WriteString(noticeStyle.Render("used "+msg.Metadata.ItemUsed) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) loadResults() tea.Cmd {
	return func() tea.Msg {
		results, err := m.store.List(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return resultsLoadedMsg{results}
	}
}

// loadResultsQuietly refreshes the list without leaving the current view.
func (m model) loadResultsQuietly() tea.Cmd {
	return func() tea.Msg {
		results, err := m.store.List(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return listRefreshedMsg{results}
	}
}

type listRefreshedMsg resultsLoadedMsg

func (m model) runSimulation() tea.Cmd {
	return func() tea.Msg {
		res, err := m.runner.Run(context.Background(), m.cfg, m.rules)
		if err != nil {
			return errMsg{err}
		}
		if err := m.store.Save(context.Background(), res); err != nil {
			return errMsg{err}
		}
		return simulationFinishedMsg{res}
	}
}

func (m model) saveAnnotation(id, text string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.UpdateAnnotations(context.Background(), id, text); err != nil {
			return errMsg{err}
		}
		return annotationSavedMsg{text}
	}
}

// Run starts the browser. runner may be nil to browse only.
func Run(st store.Store, runner Runner, cfg models.SimulationConfig, rules string) error {
	p := tea.NewProgram(NewModel(st, runner, cfg, rules), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
