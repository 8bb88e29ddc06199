// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal chat front end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/obsidian-tui/internal/api"
	"github.com/jeranaias/obsidian-tui/internal/attach"
	"github.com/jeranaias/obsidian-tui/internal/auth"
	"github.com/jeranaias/obsidian-tui/internal/config"
	"github.com/jeranaias/obsidian-tui/internal/model"
	"github.com/jeranaias/obsidian-tui/internal/session"
	"github.com/jeranaias/obsidian-tui/internal/storage"
	"github.com/jeranaias/obsidian-tui/internal/typed"
	"github.com/jeranaias/obsidian-tui/internal/ui/styles"
	"github.com/jeranaias/obsidian-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Violet).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)
)

// =============================================================================
// REPL
// =============================================================================

// REPL is the line-oriented chat loop. It implements session.Surface
// directly: session callbacks print as they arrive, which is safe
// because every store operation here runs on the loop goroutine.
type REPL struct {
	out      io.Writer
	store    *session.Store
	client   *api.Client
	auth     *auth.Manager
	input    *Input
	tw       *typed.Typewriter
	markdown bool
	renderer typed.Renderer

	// Surface state
	title    string
	location model.ChatID
	chats    []model.ChatSummary
	pending  bool
}

// Run assembles the session stack over stdout and loops until /quit
// or EOF.
func Run(client *api.Client, state *storage.Store, cfg *config.Config, initialChat model.ChatID) error {
	var renderer typed.Renderer = typed.PlainRenderer{}
	if cfg.UI.Markdown {
		if md, err := typed.NewMarkdownRenderer(cfg.UI.WordWrap); err == nil {
			renderer = md
		}
	}

	r := &REPL{
		out:      os.Stdout,
		client:   client,
		auth:     auth.NewManager(client),
		tw:       typed.New(typed.PlainRenderer{}, cfg.UI.RevealCharsPerSec),
		markdown: cfg.UI.Markdown,
		renderer: renderer,
		title:    session.NewChatTitle,
	}
	defer r.auth.Close()

	tracker := attach.NewTracker(client)
	r.store = session.NewStore(client, state, r, tracker).
		WithGracePeriod(time.Duration(cfg.Chat.GraceMinutes) * time.Minute)

	// Live reload applies the grace period to the running store.
	// Render settings are captured above and picked up at the next
	// start.
	if path, err := config.Path(); err == nil {
		w, err := config.NewWatcher(path, func(next *config.Config) {
			r.store.SetGracePeriod(time.Duration(next.Chat.GraceMinutes) * time.Minute)
		})
		if err == nil {
			defer w.Close()
		}
	}

	r.input = NewInput()
	defer r.input.Close()

	ctx := context.Background()
	if err := r.store.Bootstrap(ctx, initialChat, ""); err != nil {
		if !errors.Is(err, session.ErrNotAuthenticated) {
			return err
		}
		if err := r.authenticate(ctx); err != nil {
			return err
		}
		if err := r.store.Bootstrap(ctx, initialChat, ""); err != nil {
			return err
		}
	}

	return r.loop(ctx)
}

func (r *REPL) loop(ctx context.Context) error {
	for {
		// liner counts prompt columns itself, so no styling here.
		text, err := r.input.Read("> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "/") {
			if quit := r.command(ctx, text); quit {
				return nil
			}
			continue
		}

		if err := r.store.Send(ctx, text); err != nil {
			// Send already surfaced the failure as a chat turn; only
			// validation errors need a direct line.
			if errors.Is(err, session.ErrNothingToSend) ||
				errors.Is(err, session.ErrUploadsInFlight) ||
				errors.Is(err, session.ErrFailedAttachment) ||
				errors.Is(err, session.ErrSendInFlight) {
				fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
			}
		}
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func (r *REPL) command(ctx context.Context, text string) (quit bool) {
	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/logout":
		return r.logout(ctx)

	case "/passwd":
		r.changePassword(ctx)

	case "/memory":
		if len(args) == 0 {
			fmt.Fprintln(r.out, infoStyle.Render("usage: /memory TEXT"))
			break
		}
		r.updateMemory(ctx, strings.Join(args, " "))

	case "/help", "/h":
		r.printHelp()

	case "/chats", "/c":
		r.printChats()

	case "/new", "/n":
		if _, err := r.store.CreateChat(ctx); err != nil {
			r.printErr(err)
		}

	case "/open", "/o":
		if id, ok := r.chatArg(args); ok {
			if err := r.store.LoadChat(ctx, id); err != nil {
				r.printErr(err)
			}
		}

	case "/rename":
		if len(args) == 0 {
			fmt.Fprintln(r.out, infoStyle.Render("usage: /rename NEW TITLE"))
			break
		}
		id, _ := r.store.ActiveChat()
		if id == "" {
			fmt.Fprintln(r.out, infoStyle.Render("no active chat"))
			break
		}
		if err := r.store.RenameChat(ctx, id, strings.Join(args, " ")); err != nil {
			r.printErr(err)
		}

	case "/archive":
		id, _ := r.store.ActiveChat()
		if id == "" {
			fmt.Fprintln(r.out, infoStyle.Render("no active chat"))
			break
		}
		if err := r.store.ArchiveChat(ctx, id); err != nil {
			r.printErr(err)
		}

	case "/delete":
		id, _ := r.store.ActiveChat()
		if len(args) > 0 {
			var ok bool
			if id, ok = r.chatArg(args); !ok {
				break
			}
		}
		if id == "" {
			fmt.Fprintln(r.out, infoStyle.Render("no active chat"))
			break
		}
		if err := r.store.DeleteChat(ctx, id); err != nil {
			r.printErr(err)
		}

	case "/attach", "/a":
		if len(args) == 0 {
			fmt.Fprintln(r.out, infoStyle.Render("usage: /attach PATH"))
			break
		}
		r.attach(ctx, strings.Join(args, " "))

	case "/files", "/f":
		r.printFiles()

	case "/remove":
		if len(args) != 1 {
			fmt.Fprintln(r.out, infoStyle.Render("usage: /remove N"))
			break
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintln(r.out, infoStyle.Render("usage: /remove N"))
			break
		}
		if err := r.store.Tracker().Remove(n - 1); err != nil {
			r.printErr(err)
		}

	default:
		fmt.Fprintln(r.out, infoStyle.Render("unknown command (try /help)"))
	}
	return false
}

// chatArg resolves a 1-based index from the last printed chat list.
func (r *REPL) chatArg(args []string) (model.ChatID, bool) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, infoStyle.Render("usage: /open N (see /chats)"))
		return "", false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(r.chats) {
		fmt.Fprintln(r.out, infoStyle.Render("usage: /open N (see /chats)"))
		return "", false
	}
	return r.chats[n-1].ID, true
}

func (r *REPL) attach(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		r.printErr(err)
		return
	}
	defer f.Close()

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if err := r.store.Tracker().Stage(ctx, filepath.Base(path), mediaType, f); err != nil {
		r.printErr(err)
		return
	}
	fmt.Fprintln(r.out, infoStyle.Render("attached "+filepath.Base(path)))
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, infoStyle.Render(strings.Join([]string{
		"/chats        list chats",
		"/new          start a new chat",
		"/open N       open chat N from the list",
		"/rename T...  rename the active chat",
		"/archive      archive the active chat",
		"/delete [N]   delete the active chat (or chat N)",
		"/attach PATH  stage an image or PDF",
		"/files        list staged attachments",
		"/remove N     unstage attachment N",
		"/passwd       change your password",
		"/memory TEXT  update the assistant's user memory",
		"/logout       sign out and exit",
		"/quit         exit",
	}, "\n")))
	fmt.Fprintln(r.out)
}

func (r *REPL) printChats() {
	if len(r.chats) == 0 {
		fmt.Fprintln(r.out, infoStyle.Render("no chats"))
		return
	}
	active, _ := r.store.ActiveChat()
	for i, c := range r.chats {
		marker := "  "
		if c.ID == active {
			marker = promptStyle.Render("*") + " "
		}
		fmt.Fprintf(r.out, "%s[%d] %s\n", marker, i+1, c.Title)
	}
}

func (r *REPL) printFiles() {
	entries := r.store.Tracker().Entries()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, infoStyle.Render("no attachments staged"))
		return
	}
	for i, e := range entries {
		state := "ready"
		switch {
		case e.Loading:
			state = "uploading"
		case e.Error != "":
			state = "failed: " + e.Error
		}
		fmt.Fprintf(r.out, "  [%d] %s %s\n", i+1, util.PadRight(e.Label(), 28), state)
	}
}

func (r *REPL) printErr(err error) {
	fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
}

// =============================================================================
// SURFACE
// =============================================================================

func (r *REPL) SetChatList(chats []model.ChatSummary, active model.ChatID) {
	r.chats = chats
}

func (r *REPL) SetTitle(title string) {
	r.title = title
}

func (r *REPL) ShowMessages(msgs []model.Message) {
	fmt.Fprintln(r.out, welcomeStyle.Render("── "+r.title+" ──"))
	for _, msg := range msgs {
		r.printTurn(msg)
	}
}

func (r *REPL) AppendMessage(msg model.Message) {
	r.printTurn(msg)
}

func (r *REPL) ShowPending() {
	r.pending = true
	fmt.Fprint(r.out, infoStyle.Render("Thinking..."))
}

func (r *REPL) ClearPending() {
	if !r.pending {
		return
	}
	r.pending = false
	fmt.Fprint(r.out, "\r            \r")
}

// RevealAssistant types the reply out character by character, then
// reprints it through the markdown renderer when one is configured;
// styled markdown cannot be revealed incrementally on a line terminal.
func (r *REPL) RevealAssistant(ctx context.Context, content string) {
	fmt.Fprintln(r.out, styles.AssistantLabelStyle.Render("ObsidianAI"))
	if r.markdown {
		fmt.Fprintln(r.out, strings.TrimRight(r.renderer.Render(content), "\n"))
		return
	}
	surface := &teletype{out: r.out}
	if err := r.tw.Reveal(ctx, content, surface); err != nil {
		return
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) SetLocation(id model.ChatID) {
	r.location = id
}

func (r *REPL) ShowWelcome() {
	fmt.Fprintln(r.out, welcomeStyle.Render("ObsidianAI"))
	fmt.Fprintln(r.out, infoStyle.Render("type a message, or /help for commands"))
}

func (r *REPL) ClearInput() {
	// liner consumed the line already
}

func (r *REPL) Alert(text string) {
	fmt.Fprintln(r.out, warningStyle.Render("⚠ "+text))
}

func (r *REPL) printTurn(msg model.Message) {
	switch msg.Role {
	case model.RoleUser:
		fmt.Fprintln(r.out, styles.UserLabelStyle.Render("You"))
		fmt.Fprintln(r.out, msg.Content)
		for _, f := range msg.Files {
			fmt.Fprintln(r.out, infoStyle.Render("  📎 "+f.Label()))
		}
	default:
		fmt.Fprintln(r.out, styles.AssistantLabelStyle.Render("ObsidianAI"))
		if strings.HasPrefix(msg.Content, "Error:") {
			fmt.Fprintln(r.out, errorStyle.Render(msg.Content))
		} else {
			fmt.Fprintln(r.out, strings.TrimRight(r.renderer.Render(msg.Content), "\n"))
		}
	}
	fmt.Fprintln(r.out)
}

// =============================================================================
// TELETYPE SURFACE
// =============================================================================

// teletype adapts a line terminal to the typewriter surface: each
// SetContent extends the previously written prefix, so only the
// suffix is emitted. Works with the plain renderer, whose output of a
// prefix is the prefix.
type teletype struct {
	out     io.Writer
	written int
}

func (t *teletype) SetContent(rendered string) {
	runes := []rune(rendered)
	if t.written > len(runes) {
		return
	}
	fmt.Fprint(t.out, string(runes[t.written:]))
	t.written = len(runes)
}

func (t *teletype) ScrollToEnd() {}
