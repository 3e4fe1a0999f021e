package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/nv/lang"
	"github.com/ardnew/nv/log"
)

// editDoneMsg is sent when the edited transcript parsed successfully.
type editDoneMsg struct{ src string }

// editCancelledMsg is sent when the user emptied the file or declined to fix
// a syntax error.
type editCancelledMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List global variables
  edit     Edit the session in $EDITOR and run it again
  reset    Discard every variable declared in this session
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type statements to run them; the value of the last one is printed
  Separate statements on one line with ';'
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`

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
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config configures a REPL session.
type Config struct {
	// Scripts run in order before the first prompt. Their declarations are
	// visible in the session.
	Scripts []*lang.AST
	// Globals are bound in the root scope before the scripts run.
	Globals map[string]lang.Value
	// HistoryPath is the file submitted lines are saved to.
	HistoryPath string
	Logger      log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
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

// Run starts an interactive session and blocks until the user quits.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := newSession(ctx, cfg.Globals, cfg.Scripts, cfg.Logger)
	if err != nil {
		return err
	}

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "history not loaded",
			slog.String("path", cfg.HistoryPath),
			slog.Any("error", err),
		)
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.Int("script_count", len(cfg.Scripts)),
		slog.Int("history_count", history.Len()),
	)

	_, err = tea.NewProgram(newModel(ctx, s, history, cfg.Logger), tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session,
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
		session:    s,
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

	case editDoneMsg:
		out, err := m.session.replay(m.ctxFunc(), msg.src)

		cmds := []tea.Cmd{printOutput(out)}
		if err != nil {
			cmds = append(cmds, tea.Println(errorStyle.Render(describe(err, msg.src))))
		} else {
			cmds = append(cmds, tea.Println(resultStyle.Render("session replaced")))
		}

		return m, tea.Sequence(cmds...)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		if call := detectFunctionCall(input, m.input.Position()); call.inCall {
			if params, ok := m.signature(call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return m.renderCandidateBar()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

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
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil
	}

	// Typing confirms a tab candidate; deletions and cursor movement must
	// not complete anything.
	typed := msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(typed)

	return m, cmd
}

// cycle moves the tab selection by step, starting a new cycle if none is
// active. A single candidate is completed immediately.
func (m model) cycle(step int) model {
	switch n := len(m.matches); {
	case n == 0:
		return m

	case n == 1:
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state. When
// autoConfirm is set and the typed word already equals the only candidate,
// the completion is accepted.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Append(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	out, result, err := m.session.eval(m.ctxFunc(), input)

	cmds := []tea.Cmd{echo, printOutput(out)}

	switch {
	case err != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render(describe(err, input))))
	case result.Kind() != lang.KindUndefined:
		cmds = append(cmds, tea.Println(resultStyle.Render(display(result))))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	cmd, _, _ := strings.Cut(input, " ")
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", cmd))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Printf("%s", helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listGlobals()))

	case "r", "reset":
		if err := m.session.reset(m.ctxFunc()); err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(resultStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// edit suspends the program while the user edits the session transcript.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		content: m.session.source(),
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == "":
			return editCancelledMsg{}
		}

		return editDoneMsg{src: cmd.edited}
	})
}

// historyStep moves through history by step. With inMode set, entries from
// the other mode are skipped; otherwise the mode follows the entry. Moving
// past the newest entry clears the input.
func (m model) historyStep(step int, inMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, _ := m.history.Entry(i)
		if inMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return m
	}

	if step > 0 {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// listGlobals describes every variable in the root scope.
func (m model) listGlobals() string {
	var b strings.Builder

	for _, name := range m.session.in.Globals().Names() {
		v, _ := m.session.lookup(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(display(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// switchToMode switches to the specified mode, preserving each mode's input.
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

	m.refreshMatches(false)

	return m
}

// printOutput echoes what a program printed, if anything.
func printOutput(out string) tea.Cmd {
	if out = strings.TrimSuffix(out, "\n"); out == "" {
		return nil
	}

	return tea.Println(out)
}

// describe formats an error raised by input, locating it within the input.
func describe(err error, input string) string {
	return lang.Describe(err, inputName, input)
}
