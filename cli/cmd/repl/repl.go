package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/webuild/build"
	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help             Print this cruft
  list             List bound parameters
  bind NAME=VALUE  Bind parameters (replacing existing bindings)
  unset NAME       Remove parameter bindings
  reset            Restore the parameters bound at startup
  clear            Clear screen
  quit             Exit REPL

Usage:
  Type a line of parametric text to substitute its <[name]> references
  Type :PARAM:name:True|False:default; to declare a parameter
  Completions for bound names appear after <[
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between substitution and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

func formatCommand(input string, mode inputMode) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	env          *lang.Env
	initial      map[string]string // bindings restored by reset
	builder      *build.Builder
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session substituting lines against env. Lines
// are processed by b as the body of a parametric file. The session history
// is kept in cacheDir.
func Run(
	ctx context.Context,
	env *lang.Env,
	b *build.Builder,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("bindings", env.Len()),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, env, b, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	env *lang.Env,
	b *build.Builder,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		env:        env,
		initial:    env.Map(),
		builder:    b,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a line to substitute or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1, false), nil

	case tea.KeyDown:
		return m.historyMove(1, false), nil

	case tea.KeyShiftUp:
		return m.historyMove(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyMove(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, msg.Type == tea.KeyRunes)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous completion candidate.
func (m model) cycle(dir int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with replacement
// and repositions the cursor after it. A completed macro name is closed if
// the input does not already close it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	rest := input[m.wordEnd:]

	cursor := m.wordStart + len(replacement)

	if m.mode == modeEval && !m.tabActive && !closesMacro(rest) {
		rest = macroClose + rest
		cursor += len(macroClose)
	}

	value := input[:m.wordStart] + replacement + rest

	m.input.SetValue(value)
	m.input.SetCursor(utf8.RuneCountInString(value[:cursor]))

	m.wordEnd = m.wordStart + len(replacement)
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true the completion is accepted once the typed word
// equals the only remaining candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if word := m.input.Value()[m.wordStart:m.wordEnd]; word == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()

	input := strings.TrimSpace(raw)
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	err := m.history.Add(input, m.mode)
	if err != nil {
		m.logger.DebugContext(m.ctxFunc(), "repl history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatCommand(input, m.mode))

	if m.mode == modeCtrl {
		m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("input", input))

		cmd, out := m.executeCommand(input)
		if out == "" {
			return m, tea.Sequence(echo, cmd)
		}

		return m, tea.Sequence(echo, tea.Println(out), cmd)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl substitute", slog.String("input", raw))

	return m, tea.Sequence(echo, tea.Println(m.substitute(raw)))
}

// substitute processes line against the environment and returns the text to
// display: the substituted line, any diagnostics, and the bindings a
// declaration changed.
func (m model) substitute(line string) string {
	var (
		out  strings.Builder
		view []string
	)

	before := m.env.Map()
	seen := len(m.builder.Diagnostics())

	err := m.builder.ParametricLine(m.ctxFunc(), m.env, line, &out)

	if out.Len() > 0 {
		view = append(view, resultStyle.Render(out.String()))
	}

	for _, name := range m.env.Names() {
		if _, ok := before[name]; !ok {
			value, _ := m.env.Lookup(name)
			view = append(view, hintStyle.Render(name+" = "+value))
		}
	}

	for _, diag := range m.builder.Diagnostics()[seen:] {
		view = append(view, warnStyle.Render("warning: "+diag.Error()))
	}

	if err != nil {
		view = append(view, errorStyle.Render("error: "+err.Error()))
	}

	return strings.Join(view, "\n")
}

// executeCommand runs a control-mode command and returns the program command
// to run after it and the text to display.
func (m model) executeCommand(input string) (tea.Cmd, string) {
	parts := strings.Fields(input)
	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		return tea.Quit, ""

	case "h", "help":
		return nil, helpMessage()

	case "l", "list":
		return nil, m.listBindings()

	case "b", "bind":
		return nil, m.bind(args)

	case "u", "unset":
		for _, name := range args {
			m.env.Delete(name)
		}

		return nil, ""

	case "r", "reset":
		for _, name := range m.env.Names() {
			m.env.Delete(name)
		}

		for name, value := range m.initial {
			m.env.Set(name, value)
		}

		return nil, hintStyle.Render(fmt.Sprintf("%d parameters bound", m.env.Len()))

	case "c", "clear":
		return tea.ClearScreen, ""
	}

	return nil, errorStyle.Render(
		ErrUnknownCommand.With(slog.String("command", cmd)).Error() + " (try 'help')",
	)
}

// bind parses each argument as a name=value binding and binds it, replacing
// any existing binding.
func (m model) bind(args []string) string {
	if len(args) == 0 {
		return errorStyle.Render(ErrCommandUsage.Error() + ": bind NAME=VALUE...")
	}

	var view []string

	for _, arg := range args {
		name, value, err := lang.ParseBinding(arg)
		if err != nil {
			view = append(view, errorStyle.Render("error: "+err.Error()))

			continue
		}

		m.env.Set(name, value)
	}

	return strings.Join(view, "\n")
}

func (m model) listBindings() string {
	if m.env.Len() == 0 {
		return hintStyle.Render("  (no parameters bound)")
	}

	var b strings.Builder

	for name, value := range m.env.All() {
		b.WriteString(formatBinding(name, value))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// historyMove moves through the history by dir entries. If sameMode is set,
// entries of the other mode are skipped; otherwise the mode follows the
// selected entry. Moving past the newest entry clears the input.
func (m model) historyMove(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(utf8.RuneCountInString(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to the given mode, preserving the input of each.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
