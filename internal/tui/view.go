package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width == 0 {
		return "loading…"
	}

	var body string
	switch m.view {
	case viewCategories:
		body = m.categoriesList.View()
	case viewNotes:
		body = m.notesList.View()
	case viewDetail:
		body = m.renderDetail()
	}

	if m.modal != modalNone {
		body = m.renderModal()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m appModel) renderFooter() string {
	left := "q quit · r refresh · enter open · e rename · d delete · esc back"
	if m.view == viewDetail {
		left = "j/k scroll · esc back · q quit"
	}
	if m.errText != "" {
		left = m.errText
	} else if m.status != "" {
		left = m.status
	}
	if !colorEnabled() {
		return truncate(left, m.width)
	}
	if m.errText != "" {
		return styleError.Render(truncate(left, m.width))
	}
	return styleStatus.Render(truncate(left, m.width))
}

func (m appModel) renderModal() string {
	var b strings.Builder
	switch m.modal {
	case modalRename:
		b.WriteString(styleTitle.Render("Rename"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(styleMuted.Render("enter save · esc cancel"))
	case modalDelete:
		b.WriteString(styleTitle.Render("Delete"))
		b.WriteString("\n\n")
		if m.view == viewCategories {
			b.WriteString("Delete this category and every note in it?")
		} else {
			b.WriteString("Delete this note?")
		}
		b.WriteString("\n\n")
		b.WriteString(styleMuted.Render("enter confirm · esc cancel"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(min(m.width-4, 60))
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}

func (m appModel) renderDetail() string {
	detail, ok := m.store.NoteDetails()[m.openNoteID]
	if !ok {
		return styleMuted.Render("note not loaded")
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", detail.Title)
	if detail.Description != "" {
		md.WriteString(detail.Description)
		md.WriteString("\n\n")
	}
	fmt.Fprintf(&md, "*#%s · %s · %d pages*\n\n", fmtInt64(detail.UserSeqNo),
		detail.OriginalFilename, len(detail.PageItems))
	for _, t := range detail.TocItems {
		fmt.Fprintf(&md, "## %d. %s (p.%d–%d)\n\n", t.IndexNumber, t.Title, t.StartPage, t.EndPage)
		if t.Body != "" {
			md.WriteString(t.Body)
			md.WriteString("\n\n")
		}
	}

	rendered := renderMarkdown(md.String(), m.width-2)
	lines := strings.Split(rendered, "\n")

	// Manual scroll window; the markdown is re-rendered only on resize.
	visible := m.height - 2
	if visible < 1 {
		visible = 1
	}
	top := m.detailScroll
	if top > len(lines)-visible {
		top = len(lines) - visible
	}
	if top < 0 {
		top = 0
	}
	end := top + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[top:end], "\n")
}
