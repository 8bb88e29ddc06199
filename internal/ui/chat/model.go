// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The Model is a thin front end: all chat semantics live in the
// session store. Keys dispatch store operations as commands; the
// store answers through the Surface adapter, which posts messages
// back into Update.
package chat

import (
	"context"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/obsidian-tui/internal/config"
	"github.com/jeranaias/obsidian-tui/internal/model"
	"github.com/jeranaias/obsidian-tui/internal/session"
	"github.com/jeranaias/obsidian-tui/internal/typed"
)

// =============================================================================
// STATE
// =============================================================================

// State is the interaction mode of the chat view.
type State int

const (
	// StateChat is the normal compose-and-read mode.
	StateChat State = iota
	// StateList is the chat list overlay.
	StateList
	// StateAttach is the attach-file path prompt.
	StateAttach
	// StateRename is the rename-chat prompt.
	StateRename
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat workspace.
type Model struct {
	state State
	store *session.Store
	ctx   context.Context

	// Startup restoration
	initialChat model.ChatID
	booted      bool

	// View copies of session state. The store owns the truth; these
	// exist only to paint.
	title    string
	location model.ChatID
	messages []model.Message
	welcome  bool
	pending  bool

	chats      []model.ChatSummary
	activeChat model.ChatID
	listCursor int
	archived   bool

	// Typed reveal
	stepper    *typed.Stepper
	renderer   typed.Renderer
	interval   time.Duration
	revealBuf  string
	revealing  bool

	// Overlays
	alert  string
	status string

	// Components
	viewport viewport.Model
	input    textinput.Model
	prompt   textinput.Model
	spinner  spinner.Model
	keys     KeyMap

	width  int
	height int
	ready  bool
}

// New creates the chat model over an already-wired session store.
// initialChat, when non-empty, is the deep-link id from the command
// line.
func New(store *session.Store, cfg *config.Config, initialChat model.ChatID) Model {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Focus()
	input.CharLimit = 0

	prompt := textinput.New()
	prompt.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer := newRenderer(cfg)

	return Model{
		state:       StateChat,
		store:       store,
		ctx:         context.Background(),
		initialChat: initialChat,
		title:       session.NewChatTitle,
		welcome:     true,
		renderer:    renderer,
		interval:    typed.New(renderer, cfg.UI.RevealCharsPerSec).Interval(),
		input:       input,
		prompt:      prompt,
		spinner:     sp,
		keys:        DefaultKeyMap(),
	}
}

// newRenderer builds the reply renderer the config asks for, falling
// back to plain text when glamour cannot initialize.
func newRenderer(cfg *config.Config) typed.Renderer {
	if cfg.UI.Markdown {
		if md, err := typed.NewMarkdownRenderer(cfg.UI.WordWrap); err == nil {
			return md
		}
	}
	return typed.PlainRenderer{}
}

// Init starts the spinner and kicks off session bootstrap.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bootstrapCmd())
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) bootstrapCmd() tea.Cmd {
	store, id, ctx := m.store, m.initialChat, m.ctx
	return func() tea.Msg {
		return BootstrapDoneMsg{Err: store.Bootstrap(ctx, id, "")}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if err := store.Send(ctx, text); err != nil {
			return ErrMsg{Err: err}
		}
		return OpDoneMsg{}
	}
}

func (m Model) newChatCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if _, err := store.CreateChat(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return OpDoneMsg{}
	}
}

func (m Model) loadChatCmd(id model.ChatID) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if err := store.LoadChat(ctx, id); err != nil {
			return ErrMsg{Err: err}
		}
		return OpDoneMsg{}
	}
}

func (m Model) archiveChatCmd(id model.ChatID) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if err := store.ArchiveChat(ctx, id); err != nil {
			return ErrMsg{Err: err}
		}
		return OpDoneMsg{}
	}
}

func (m Model) deleteChatCmd(id model.ChatID) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if err := store.DeleteChat(ctx, id); err != nil {
			return ErrMsg{Err: err}
		}
		return OpDoneMsg{}
	}
}

func (m Model) renameChatCmd(id model.ChatID, title string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if err := store.RenameChat(ctx, id, title); err != nil {
			return ErrMsg{Err: err}
		}
		return OpDoneMsg{}
	}
}

func (m Model) setArchivedCmd(archived bool) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if err := store.SetArchivedFilter(ctx, archived); err != nil {
			return ErrMsg{Err: err}
		}
		return OpDoneMsg{}
	}
}

func (m Model) attachCmd(path string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ErrMsg{Err: err}
		}
		defer f.Close()

		mediaType := mime.TypeByExtension(filepath.Ext(path))
		err = store.Tracker().Stage(ctx, filepath.Base(path), mediaType, f)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return TrackerChangedMsg{}
	}
}

func (m Model) revealTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return RevealTickMsg{}
	})
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages by kind, then by interaction state for keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Session state.
	case ChatListMsg:
		m.chats = msg.Chats
		m.activeChat = msg.Active
		if m.listCursor >= len(m.chats) {
			m.listCursor = max(0, len(m.chats)-1)
		}
		return m, nil

	case TitleMsg:
		m.title = msg.Title
		return m, nil

	case HistoryMsg:
		m.messages = msg.Messages
		m.welcome = false
		m.revealing = false
		m.revealBuf = ""
		m.refreshViewport(true)
		return m, nil

	case AppendMsg:
		m.messages = append(m.messages, msg.Message)
		m.welcome = false
		m.refreshViewport(true)
		return m, nil

	case PendingMsg:
		m.pending = true
		m.refreshViewport(true)
		return m, nil

	case ClearPendingMsg:
		m.pending = false
		m.refreshViewport(false)
		return m, nil

	case RevealMsg:
		m.stepper = typed.NewStepper(m.renderer, msg.Content)
		m.revealing = true
		m.welcome = false
		m.revealBuf = ""
		// The revealed turn joins the history up front; the buffer
		// paints over it until the animation completes.
		m.messages = append(m.messages, model.NewAssistantMessage(msg.Content))
		return m, m.revealTick()

	case RevealTickMsg:
		if !m.revealing || m.stepper == nil {
			return m, nil
		}
		rendered, scroll, done := m.stepper.Step()
		m.revealBuf = rendered
		m.refreshViewport(scroll)
		if done {
			m.revealing = false
			m.stepper = nil
			m.revealBuf = ""
			m.refreshViewport(true)
			return m, nil
		}
		return m, m.revealTick()

	case LocationMsg:
		m.location = msg.ID
		return m, nil

	case WelcomeMsg:
		m.messages = nil
		m.welcome = true
		m.pending = false
		m.revealing = false
		m.revealBuf = ""
		m.refreshViewport(true)
		return m, nil

	case ClearInputMsg:
		m.input.Reset()
		return m, nil

	case AlertMsg:
		m.alert = msg.Text
		return m, nil

	// Operation results.
	case BootstrapDoneMsg:
		m.booted = true
		if errors.Is(msg.Err, session.ErrNotAuthenticated) {
			m.alert = "Not signed in. Run with --plain to log in from the terminal."
			return m, nil
		}
		if msg.Err != nil {
			m.status = msg.Err.Error()
		}
		return m, nil

	case ErrMsg:
		m.status = msg.Err.Error()
		return m, nil

	case OpDoneMsg:
		m.status = ""
		return m, nil

	case TrackerChangedMsg:
		return m, nil

	case ConfigMsg:
		m.renderer = newRenderer(msg.Config)
		m.interval = typed.New(m.renderer, msg.Config.UI.RevealCharsPerSec).Interval()
		if m.store != nil {
			m.store.SetGracePeriod(time.Duration(msg.Config.Chat.GraceMinutes) * time.Minute)
		}
		m.refreshViewport(false)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	vpHeight := max(1, msg.Height-chromeHeight(m))
	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = max(10, msg.Width-4)
	m.prompt.Width = max(10, msg.Width-4)
	m.refreshViewport(true)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The alert overlay swallows everything except dismissal.
	if m.alert != "" {
		if key.Matches(msg, m.keys.Cancel) {
			m.alert = ""
		}
		return m, nil
	}

	switch m.state {
	case StateList:
		return m.handleListKey(msg)
	case StateAttach, StateRename:
		return m.handlePromptKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" && m.store.Tracker().Empty() {
			m.status = session.ErrNothingToSend.Error()
			return m, nil
		}
		return m, m.sendCmd(text)

	case key.Matches(msg, m.keys.NewChat):
		return m, m.newChatCmd()

	case key.Matches(msg, m.keys.ChatList):
		m.state = StateList
		m.listCursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Attach):
		m.state = StateAttach
		m.prompt.Placeholder = "path to image or PDF"
		m.prompt.Reset()
		m.prompt.Focus()
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		if m.activeChat == "" && m.location == "" {
			return m, nil
		}
		m.state = StateRename
		m.prompt.Placeholder = "new title"
		m.prompt.Reset()
		m.prompt.SetValue(m.title)
		m.prompt.Focus()
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.RemoveFile):
		tracker := m.store.Tracker()
		if n := tracker.Len(); n > 0 {
			tracker.Remove(n - 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateChat
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.listCursor > 0 {
			m.listCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.listCursor < len(m.chats)-1 {
			m.listCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.listCursor < len(m.chats) {
			id := m.chats[m.listCursor].ID
			m.state = StateChat
			return m, m.loadChatCmd(id)
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.archived = !m.archived
		m.listCursor = 0
		return m, m.setArchivedCmd(m.archived)

	case key.Matches(msg, m.keys.Archive):
		if m.listCursor < len(m.chats) && !m.archived {
			return m, m.archiveChatCmd(m.chats[m.listCursor].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.listCursor < len(m.chats) {
			return m, m.deleteChatCmd(m.chats[m.listCursor].ID)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateChat
		m.prompt.Blur()
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := strings.TrimSpace(m.prompt.Value())
		state := m.state
		m.state = StateChat
		m.prompt.Blur()
		m.input.Focus()
		if value == "" {
			return m, nil
		}
		if state == StateAttach {
			return m, m.attachCmd(value)
		}
		id := m.activeChat
		if id == "" {
			id = m.location
		}
		return m, m.renameChatCmd(id, value)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}
