package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

type screen int

const (
	screenNoWorkspace screen = iota
	screenFrom
	screenTo
	screenValue
	screenResult
)

type unitItem struct {
	unit domain.Unit
}

func (i unitItem) Title() string { return unitLabel(i.unit) }
func (i unitItem) Description() string {
	return i.unit.Category + " · " + i.unit.ID
}
func (i unitItem) FilterValue() string {
	return strings.Join([]string{i.unit.ID, i.unit.Name, i.unit.Symbol, i.unit.Category}, " ")
}

type model struct {
	theme Theme
	deps  Deps

	scr      screen
	fromList list.Model
	toList   list.Model
	input    textinput.Model

	units   ports.UnitRepository
	convert Converter
	root    string
	cwd     string

	from       domain.Unit
	to         domain.Unit
	result     *domain.ConversionResult
	converting bool

	errMsg string
	toast  string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	in := textinput.New()
	in.Placeholder = "value, e.g. 150 or -40"
	in.Prompt = "› "
	in.CharLimit = 32

	m := model{
		theme:    DefaultTheme(),
		deps:     deps,
		scr:      screenNoWorkspace,
		fromList: newUnitList("Convert from", nil),
		toList:   newUnitList("Convert to", nil),
		input:    in,
		cwd:      deps.StartDir,
	}

	if deps.Units != nil && deps.Convert != nil {
		m = m.withUnits(deps.WorkspaceRoot, deps.Units, deps.Convert)
	}
	return m
}

func newUnitList(title string, units []domain.Unit) list.Model {
	items := make([]list.Item, 0, len(units))
	for _, u := range units {
		items = append(items, unitItem{unit: u})
	}

	l := list.New(items, list.NewDefaultDelegate(), 76, 16)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}

func (m model) withUnits(root string, units ports.UnitRepository, conv Converter) model {
	m.root = root
	m.units = units
	m.convert = conv
	m.fromList = newUnitList("Convert from", units.Catalog().Units)
	m.scr = screenFrom
	m.errMsg = ""
	return m
}

// targetUnits lists every unit, the source category first.
func targetUnits(all []domain.Unit, from domain.Unit) []domain.Unit {
	out := make([]domain.Unit, 0, len(all))
	for _, u := range all {
		if u.Category == from.Category && u.ID != from.ID {
			out = append(out, u)
		}
	}
	for _, u := range all {
		if u.Category != from.Category {
			out = append(out, u)
		}
	}
	return out
}

func (m model) Init() tea.Cmd {
	if m.units != nil {
		return nil
	}
	return cmdRefreshWorkspace(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.fromList.SetSize(w-4, h-10)
		m.toList.SetSize(w-4, h-10)
		return m, nil

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		if !msg.found {
			m.scr = screenNoWorkspace
			return m, nil
		}
		return m, cmdLoadUnits(msg.root, m.deps.Logger)

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace created at " + msg.root
		return m, cmdLoadUnits(msg.root, m.deps.Logger)

	case unitsLoadedMsg:
		if msg.err != nil {
			m.scr = screenNoWorkspace
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		return m.withUnits(msg.root, msg.units, msg.convert), nil

	case convertedMsg:
		m.converting = false
		m.scr = screenResult
		if msg.err != nil {
			m.result = nil
			m.errMsg = userMessage(msg.err)
			return m, nil
		}
		res := msg.res
		m.result = &res
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.filtering() {
			break
		}
		return m.handleKey(msg)
	}

	return m.updateActive(msg)
}

func (m model) filtering() bool {
	switch m.scr {
	case screenFrom:
		return m.fromList.FilterState() == list.Filtering
	case screenTo:
		return m.toList.FilterState() == list.Filtering
	}
	return false
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		switch m.scr {
		case screenFrom:
			// Let the list clear an applied filter.
			return m.updateActive(msg)
		case screenTo:
			m.scr = screenFrom
		case screenValue:
			m.input.Blur()
			m.errMsg = ""
			m.scr = screenTo
		case screenResult:
			m.errMsg = ""
			return m.focusValue()
		}
		return m, nil

	case "enter":
		return m.handleEnter()

	case "i":
		if m.scr == screenNoWorkspace && m.cwd != "" {
			m.errMsg = ""
			return m, cmdInitWorkspaceHere(m.deps, m.cwd)
		}

	case "r":
		// Swap units and convert the same value again.
		if m.scr == screenResult && !m.converting {
			m.from, m.to = m.to, m.from
			return m.startConvert()
		}

	case "x":
		if m.scr == screenFrom && m.units != nil {
			return m.removeSelectedUnit()
		}

	case "n":
		if m.scr == screenResult {
			m.result = nil
			m.errMsg = ""
			m.input.SetValue("")
			m.scr = screenFrom
			return m, nil
		}
	}

	return m.updateActive(msg)
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.scr {
	case screenFrom:
		it, ok := m.fromList.SelectedItem().(unitItem)
		if !ok {
			return m, nil
		}
		m.from = it.unit
		m.errMsg = ""
		m.toList = newUnitList("Convert "+unitLabel(it.unit)+" to", targetUnits(m.units.Catalog().Units, it.unit))
		m.scr = screenTo
		return m, nil

	case screenTo:
		it, ok := m.toList.SelectedItem().(unitItem)
		if !ok {
			return m, nil
		}
		m.to = it.unit
		return m.focusValue()

	case screenValue:
		if m.converting {
			return m, nil
		}
		return m.startConvert()

	case screenResult:
		return m.focusValue()
	}
	return m, nil
}

// removeSelectedUnit drops the highlighted unit from the session registry.
// The workspace catalog on disk is untouched.
func (m model) removeSelectedUnit() (tea.Model, tea.Cmd) {
	it, ok := m.fromList.SelectedItem().(unitItem)
	if !ok {
		return m, nil
	}
	if err := m.units.DeleteUnit(it.unit.ID); err != nil {
		m.toast = ""
		m.errMsg = userMessage(err)
		return m, nil
	}
	idx := m.fromList.Index()
	m.fromList = newUnitList("Convert from", m.units.Catalog().Units)
	if n := len(m.fromList.Items()); idx >= n && n > 0 {
		idx = n - 1
	}
	m.fromList.Select(idx)
	m.errMsg = ""
	m.toast = "Removed " + unitLabel(it.unit) + " for this session"
	return m, nil
}

func (m model) focusValue() (tea.Model, tea.Cmd) {
	m.scr = screenValue
	cmd := m.input.Focus()
	return m, cmd
}

func (m model) startConvert() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.scr = screenValue
		m.errMsg = fmt.Sprintf("%q is not a number", raw)
		return m, nil
	}

	m.input.Blur()
	m.errMsg = ""
	m.converting = true
	return m, cmdConvert(m.convert, v, m.from.ID, m.to.ID)
}

func (m model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenFrom:
		m.fromList, cmd = m.fromList.Update(msg)
	case screenTo:
		m.toList, cmd = m.toList.Update(msg)
	case screenValue:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("edugestor") + "\n" +
		m.theme.Subtitle.Render("Unit converter") + "\n"

	var banner string
	if m.root != "" {
		banner = m.theme.Help.Render("Workspace: " + clampString(m.root, 60))
	}
	if m.toast != "" {
		banner += "\n" + m.theme.OK.Render(m.toast)
	}

	var body, help string
	switch m.scr {
	case screenNoWorkspace:
		msg := "⚠ No workspace found.\n\nPress i to create one in " + clampString(m.cwd, 50) + "."
		if m.cwd == "" {
			msg = "⚠ No workspace found.\n\nRun `edugestor init` first."
		}
		if m.errMsg != "" {
			msg += "\n\n" + m.theme.Error.Render(m.errMsg)
		}
		body = m.theme.Card.Render(msg)
		help = "i init workspace • q quit"

	case screenFrom:
		content := m.fromList.View()
		if m.errMsg != "" {
			content += "\n" + m.theme.Error.Render(m.errMsg)
		}
		body = m.theme.Card.Render(content)
		help = "↑/↓ navigate • enter select • / search • x remove unit • q quit"

	case screenTo:
		body = m.theme.Card.Render(m.toList.View())
		help = "↑/↓ navigate • enter select • / search • esc back • q quit"

	case screenValue:
		content := m.theme.Title.Render(unitLabel(m.from)+" → "+unitLabel(m.to)) + "\n\n" + m.input.View()
		if m.converting {
			content += "\n\n" + m.theme.Help.Render("converting…")
		}
		if m.errMsg != "" {
			content += "\n\n" + m.theme.Error.Render(m.errMsg)
		}
		body = m.theme.Card.Render(content)
		help = "enter convert • esc back • q quit"

	case screenResult:
		content := m.theme.Title.Render(unitLabel(m.from)+" → "+unitLabel(m.to)) + "\n\n"
		if m.result != nil {
			content += m.theme.OK.Render(renderConversion(*m.result, m.from, m.to)) + "\n" +
				m.theme.Help.Render("via "+m.result.Via)
		} else {
			content += m.theme.Error.Render(m.errMsg)
		}
		body = m.theme.Card.Render(content)
		help = "enter/esc new value • r reverse • n new units • q quit"

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}

	return wrap.Render(header + banner + "\n\n" + body + "\n" + m.theme.Help.Render(help))
}
