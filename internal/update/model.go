package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/apolo/internal/assistant"
	"github.com/sandeepkv93/apolo/internal/board"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/sandeepkv93/apolo/internal/oracle"
	"github.com/sandeepkv93/apolo/internal/scheduler"
)

type View string

const (
	ViewBoard     View = "Board"
	ViewCalendar  View = "Calendar"
	ViewReminders View = "Reminders"
	ViewOracle    View = "Oracle"
	ViewHistory   View = "History"
	ViewSettings  View = "Settings"
)

var Views = []View{ViewBoard, ViewCalendar, ViewReminders, ViewOracle, ViewHistory, ViewSettings}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Help string
	Undo string
	Quit string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// BoardState is the kanban cursor: a column index into model.Statuses and a
// row within that column.
type BoardState struct {
	Column    int
	Row       int
	EditingID string
}

type CalendarState struct {
	Focus time.Time
}

type OracleState struct {
	Typing      bool
	OutputTitle string
	Output      string
}

type SettingsState struct {
	Cursor int
}

// PreferenceStore persists preference changes.
type PreferenceStore interface {
	SavePreferences(ctx context.Context, prefs model.Preferences) error
}

// Deps are the collaborators a Model drives. Board and Assistant are
// required; the rest may be nil.
type Deps struct {
	Board       *board.Board
	Assistant   *assistant.Assistant
	Enricher    *oracle.Enricher
	Provider    oracle.Provider
	Scheduler   *scheduler.Engine
	Prefs       PreferenceStore
	Preferences model.Preferences
	ImageDir    string
	Now         func() time.Time
	Logger      zerolog.Logger
}

type Model struct {
	CurrentView View
	Keys        GlobalKeyMap
	Status      StatusBar
	HelpVisible bool
	Palette     CommandPaletteState
	Quitting    bool
	Prefs       model.Preferences

	Board    BoardState
	Calendar CalendarState
	Oracle   OracleState
	Settings SettingsState

	// LastAlarm is the most recent reminder that fired.
	LastAlarm *scheduler.Alarm

	board     *board.Board
	assistant *assistant.Assistant
	enricher  *oracle.Enricher
	provider  oracle.Provider
	engine    *scheduler.Engine
	prefs     PreferenceStore
	imageDir  string
	now       func() time.Time
	log       zerolog.Logger
	ctx       context.Context

	// enriching holds the outstanding analyze ticket per task.
	enriching map[string]oracle.Ticket
	estimates map[string]string
	chatting  map[string]bool
	inflight  int

	transcriptSig string

	commandInput   textinput.Model
	chatInput      textinput.Model
	descArea       textarea.Model
	transcript     viewport.Model
	reminderTable  table.Model
	subtaskBar     progress.Model
	requestSpinner spinner.Model
	helpModel      help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AlarmMsg struct {
	Alarm scheduler.Alarm
}

type EnrichedMsg struct {
	Result oracle.Result
}

type ChatReplyMsg struct {
	Pending assistant.Pending
	Reply   string
	Err     error
}

type TextMsg struct {
	Prompt string
	Text   string
	Err    error
}

type ImageMsg struct {
	Prompt string
	Image  oracle.Image
	Err    error
}

type SearchMsg struct {
	Query  string
	Result oracle.Grounded
	Err    error
}

func NewModel(ctx context.Context, deps Deps) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		CurrentView: ViewBoard,
		Keys:        GlobalKeyMap{Help: "?", Undo: "u", Quit: "q"},
		Prefs:       deps.Preferences,
		board:       deps.Board,
		assistant:   deps.Assistant,
		enricher:    deps.Enricher,
		provider:    deps.Provider,
		engine:      deps.Scheduler,
		prefs:       deps.Prefs,
		imageDir:    deps.ImageDir,
		now:         deps.Now,
		log:         deps.Logger,
		ctx:         ctx,
		enriching:   make(map[string]oracle.Ticket),
		estimates:   make(map[string]string),
		chatting:    make(map[string]bool),
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.provider == nil {
		m.provider = oracle.Offline{}
	}
	if m.enricher == nil {
		m.enricher = oracle.NewEnricher(m.provider, oracle.PolicySentinel, m.log)
	}
	if m.imageDir == "" {
		m.imageDir = "."
	}
	if m.Prefs == (model.Preferences{}) {
		m.Prefs = model.DefaultPreferences()
	}
	m.Calendar.Focus = startOfDay(m.now())
	m.initBubbleComponents()
	m.scheduleReminders()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 512
	m.commandInput.Width = 64

	m.chatInput = textinput.New()
	m.chatInput.Prompt = "ask> "
	m.chatInput.Placeholder = "speak to the oracle (enter to send, esc to leave)"
	m.chatInput.CharLimit = 2000
	m.chatInput.Width = 60

	m.descArea = textarea.New()
	m.descArea.SetWidth(54)
	m.descArea.SetHeight(6)
	m.descArea.ShowLineNumbers = false
	m.descArea.Placeholder = "Task description"

	m.transcript = viewport.New(74, 14)

	cols := []table.Column{
		{Title: "Kind", Width: 9},
		{Title: "Date", Width: 11},
		{Title: "Next", Width: 11},
		{Title: "Name", Width: 30},
	}
	m.reminderTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))

	m.subtaskBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.requestSpinner = spinner.New()
	m.requestSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

// BoardRef exposes the underlying board for inspection.
func (m Model) BoardRef() *board.Board {
	return m.board
}
