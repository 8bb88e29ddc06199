// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/obsidian-tui/internal/model"
	"github.com/jeranaias/obsidian-tui/internal/ui/components"
	"github.com/jeranaias/obsidian-tui/internal/ui/styles"
	"github.com/jeranaias/obsidian-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat workspace for the current interaction state.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.alert != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			components.RenderAlert(m.alert, m.width))
	}

	if m.state == StateList {
		return m.renderListOverlay()
	}

	var b strings.Builder
	b.WriteString(m.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if strip := components.RenderAttachmentStrip(m.store.Tracker().Entries()); strip != "" {
		b.WriteString(strip)
		b.WriteString("\n")
	}

	switch m.state {
	case StateAttach:
		b.WriteString(styles.MutedStyle.Render("attach: "))
		b.WriteString(m.prompt.View())
	case StateRename:
		b.WriteString(styles.MutedStyle.Render("rename: "))
		b.WriteString(m.prompt.View())
	default:
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTitleBar() string {
	title := styles.TitleStyle.Render(util.TruncateWidth(m.title, max(10, m.width-20)))
	if m.location == "" {
		return title
	}
	link := styles.MutedStyle.Render(fmt.Sprintf("#chat-%s", m.location))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(link)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + link
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return styles.ErrorStyle.Render(util.TruncateWidth(m.status, m.width))
	}
	if hint := components.AttachmentHint(m.store.Tracker().Entries()); hint != "" {
		return hint
	}
	if m.store.Sending() {
		return m.spinner.View() + styles.PendingStyle.Render(" waiting for reply")
	}
	return styles.MutedStyle.Render("enter send · ctrl+n new · ctrl+l chats · ctrl+o attach · ctrl+c quit")
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshViewport repaints the transcript. Scroll pins the view to the
// bottom, which every append and reveal wants; mid-scroll repaints
// (pending cleared while the user reads back) leave the offset alone.
func (m *Model) refreshViewport(scroll bool) {
	if !m.ready {
		return
	}
	if m.welcome && len(m.messages) == 0 && !m.pending {
		m.viewport.SetContent(components.RenderWelcome(m.viewport.Width, m.viewport.Height))
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	if scroll {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderTranscript() string {
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		// The turn being revealed is painted from the reveal buffer.
		if m.revealing && i == len(m.messages)-1 && msg.Role == model.RoleAssistant {
			b.WriteString(styles.AssistantLabelStyle.Render("ObsidianAI"))
			b.WriteString("\n")
			b.WriteString(m.revealBuf)
			continue
		}
		b.WriteString(m.renderTurn(msg))
	}
	if m.pending {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(styles.AssistantLabelStyle.Render("ObsidianAI"))
		b.WriteString("\n")
		b.WriteString(styles.PendingStyle.Render("Thinking..."))
	}
	return b.String()
}

func (m *Model) renderTurn(msg model.Message) string {
	var b strings.Builder
	switch msg.Role {
	case model.RoleUser:
		b.WriteString(styles.UserLabelStyle.Render("You"))
		b.WriteString("\n")
		b.WriteString(msg.Content)
		for _, f := range msg.Files {
			b.WriteString("\n")
			b.WriteString(styles.MutedStyle.Render("  📎 " + fileLabel(f)))
		}
	default:
		b.WriteString(styles.AssistantLabelStyle.Render("ObsidianAI"))
		b.WriteString("\n")
		if strings.HasPrefix(msg.Content, "Error:") {
			b.WriteString(styles.ErrorStyle.Render(msg.Content))
		} else {
			b.WriteString(strings.TrimRight(m.renderer.Render(msg.Content), "\n"))
		}
	}
	return b.String()
}

// fileLabel names an attachment turn line, falling back to the source
// reference for legacy entries with no name at all.
func fileLabel(f model.FileData) string {
	if label := f.Label(); label != "" {
		return label
	}
	return f.Source()
}

// =============================================================================
// CHAT LIST OVERLAY
// =============================================================================

func (m Model) renderListOverlay() string {
	heading := "Chats"
	if m.archived {
		heading = "Archived Chats"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(heading))
	b.WriteString("\n\n")

	if len(m.chats) == 0 {
		b.WriteString(styles.MutedStyle.Render("  (none)"))
	}
	for i, c := range m.chats {
		line := util.TruncateWidth(util.FirstLine(c.Title), max(10, m.width-8))
		switch {
		case i == m.listCursor:
			line = styles.SelectedStyle.Render("> " + line)
		case c.ID == m.activeChat:
			line = styles.TitleStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := "enter open · tab archived · ctrl+a archive · ctrl+d delete · esc back"
	if m.archived {
		hint = "enter open · tab active · ctrl+d delete · esc back"
	}
	b.WriteString(styles.MutedStyle.Render(hint))

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
		styles.BorderStyle.Padding(1, 2).Render(b.String()))
}

// chromeHeight is the vertical space the non-viewport chrome takes:
// title bar, attachment strip slot, input line, footer.
func chromeHeight(m Model) int {
	h := 4
	if m.store != nil && !m.store.Tracker().Empty() {
		h++
	}
	return h
}
