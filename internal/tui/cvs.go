package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interviewpro/cli/internal/uploader"
	"github.com/interviewpro/cli/pkg/client"
	"github.com/interviewpro/cli/pkg/domain"
)

const cvPageSize = 50

type cvsLoadedMsg struct {
	list *domain.CVList
	err  error
}

type cvDeletedMsg struct {
	err error
}

// uploadsFinishedMsg fires when a pre-launch upload batch has fully drained,
// so the list refreshes with the new records.
type uploadsFinishedMsg struct{}

// cvsModel shows the stored CV list plus the live upload queue above it.
// Queue rows update as tasks move through the saga; finished rows stay until
// dismissed so failures are never silently swallowed.
type cvsModel struct {
	client  *client.Client
	up      *uploader.Uploader
	pending []string
	updates <-chan uploader.Task

	queue   []uploader.Task
	cvs     []domain.CV
	total   int
	cursor  int
	loading bool
	err     string
	notice  string
	width   int
	height  int
}

func newCVsModel(c *client.Client, up *uploader.Uploader, pending []string, updates <-chan uploader.Task) cvsModel {
	return cvsModel{client: c, up: up, pending: pending, updates: updates, loading: true}
}

func (m cvsModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load()}
	if m.updates != nil {
		cmds = append(cmds, m.waitUpload())
	}
	if len(m.pending) > 0 {
		cmds = append(cmds, m.startUploads())
	}
	return tea.Batch(cmds...)
}

func (m cvsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		list, err := c.ListCVs(context.Background(), 0, cvPageSize)
		return cvsLoadedMsg{list: list, err: err}
	}
}

// startUploads pushes the pre-launch batch through the uploader. Progress
// arrives separately on the updates channel.
func (m cvsModel) startUploads() tea.Cmd {
	up, paths := m.up, m.pending
	return func() tea.Msg {
		up.Upload(context.Background(), paths, nil)
		return uploadsFinishedMsg{}
	}
}

// waitUpload blocks on the updates channel and re-arms after every message.
func (m cvsModel) waitUpload() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return UploadProgressMsg{Task: t}
	}
}

func (m cvsModel) deleteCV(id int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		return cvDeletedMsg{err: c.DeleteCV(context.Background(), id)}
	}
}

func (m cvsModel) Update(msg tea.Msg) (cvsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cvsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Detail(msg.err)
			return m, nil
		}
		m.err = ""
		m.cvs = msg.list.CVs
		m.total = msg.list.Total
		if m.cursor >= len(m.cvs) {
			m.cursor = 0
		}

	case UploadProgressMsg:
		m.upsertTask(msg.Task)
		return m, m.waitUpload()

	case uploadsFinishedMsg:
		return m, m.load()

	case cvDeletedMsg:
		if msg.err != nil {
			m.notice = errStyle.Render(client.Detail(msg.err))
			return m, nil
		}
		m.notice = okStyle.Render("deleted")
		return m, m.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.cvs)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "d":
			if m.cursor < len(m.cvs) {
				return m, m.deleteCV(m.cvs[m.cursor].ID)
			}
		case "x":
			m.dismissDone()
		case "r":
			m.loading = true
			return m, m.load()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// upsertTask replaces the queue row for the task, appending on first sight.
func (m *cvsModel) upsertTask(t uploader.Task) {
	for i := range m.queue {
		if m.queue[i].ID == t.ID {
			m.queue[i] = t
			return
		}
	}
	m.queue = append(m.queue, t)
}

// dismissDone drops finished rows, keeping in-flight ones.
func (m *cvsModel) dismissDone() {
	kept := m.queue[:0]
	for _, t := range m.queue {
		if !t.Done() {
			kept = append(kept, t)
		}
	}
	m.queue = kept
}

// activeUploads counts in-flight queue rows for the tab badge.
func (m cvsModel) activeUploads() int {
	n := 0
	for _, t := range m.queue {
		if !t.Done() {
			n++
		}
	}
	return n
}

func (m cvsModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n")

	if len(m.queue) > 0 {
		sb.WriteString(" " + metaStyle.Render("uploads") + "\n")
		for _, t := range m.queue {
			name := t.Filename
			if name == "" {
				name = t.Path
			}
			status := statusStyle(t.Status).Render(string(t.Status))
			line := fmt.Sprintf(" %s %s  %s", statusStyle(t.Status).Render("●"), normalStyle.Render(truncStr(name, 36)), status)
			if t.Status == uploader.StatusFailed && t.Err != nil {
				line += "  " + errStyle.Render(truncStr(t.Err.Error(), m.width-50))
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	switch {
	case m.loading && len(m.cvs) == 0:
		sb.WriteString(" " + dimStyle.Render("loading CVs...") + "\n")
	case m.err != "":
		sb.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
	case len(m.cvs) == 0:
		sb.WriteString(" " + dimStyle.Render("no CVs yet — upload one with `interviewpro cv upload <file>`") + "\n")
	default:
		sb.WriteString(" " + metaStyle.Render(fmt.Sprintf("%d of %d CVs", len(m.cvs), m.total)) + "\n")
		for i, cv := range m.cvs {
			name := normalStyle.Render(truncStr(cv.Filename, 36))
			if i == m.cursor {
				name = selectedRowBg.Render(selectedStyle.Render(truncStr(cv.Filename, 36)))
			}
			status := dimStyle.Render(cv.Status)
			if cv.Status == domain.CVStatusParsed {
				status = okStyle.Render(cv.Status)
			}
			sb.WriteString(fmt.Sprintf(" %s  %s  %s  %s\n",
				name,
				metaStyle.Render(formatSize(cv.SizeBytes)),
				status,
				metaStyle.Render(formatTime(cv.CreatedAt)),
			))
		}
	}

	if m.notice != "" {
		sb.WriteString("\n " + m.notice + "\n")
	}
	return sb.String()
}
