package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/roadmap"
	"github.com/matzehuels/waymark/pkg/service"
	"github.com/matzehuels/waymark/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listLikedStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// browseCommand starts the interactive roadmap browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse roadmaps interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			views, err := a.svc.List(ctx, a.sess)
			if err != nil {
				return err
			}

			m := NewBrowseModel(ctx, a.svc, a.sess, views)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// BrowseModel - Roadmap list and expandable tree
// =============================================================================

type browseScreen int

const (
	screenList browseScreen = iota
	screenTree
)

// treeRow is one visible line of the step tree.
type treeRow struct {
	node  roadmap.Node
	depth int
}

// likeMsg reports the outcome of an asynchronous like toggle.
type likeMsg struct {
	state *service.LikeState
	err   error
}

// BrowseModel is the bubbletea model for `waymark browse`.
type BrowseModel struct {
	ctx  context.Context
	svc  *service.Service
	sess *session.Session

	Screen   browseScreen
	Roadmaps []service.RoadmapView
	Cursor   int
	Offset   int
	Height   int

	// Tree screen
	Current  int // index into Roadmaps
	Expanded layout.Expanded
	Rows     []treeRow
	Row      int

	Status string
}

// NewBrowseModel creates a browser over views.
func NewBrowseModel(ctx context.Context, svc *service.Service, sess *session.Session, views []service.RoadmapView) BrowseModel {
	return BrowseModel{
		ctx:      ctx,
		svc:      svc,
		sess:     sess,
		Roadmaps: views,
		Height:   15,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Screen == screenTree {
			return m.updateTree(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	case likeMsg:
		if msg.err != nil {
			m.Status = errs.UserMessage(msg.err)
			return m, nil
		}
		for i := range m.Roadmaps {
			if m.Roadmaps[i].ID == msg.state.RoadmapID {
				m.Roadmaps[i].Liked = msg.state.Liked
				m.Roadmaps[i].DisplayLikes = msg.state.Count
			}
		}
		m.Status = ""
	}
	return m, nil
}

func (m BrowseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.Roadmaps)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "l":
		if len(m.Roadmaps) > 0 {
			return m, m.toggleLike(m.Roadmaps[m.Cursor].ID)
		}
	case "enter":
		if len(m.Roadmaps) == 0 {
			return m, nil
		}
		m.Screen = screenTree
		m.Current = m.Cursor
		m.Expanded = layout.Expanded{}
		m.Row = 0
		m.Rows = visibleRows(m.Roadmaps[m.Current].Nodes, m.Expanded)
		m.Status = ""
	}
	return m, nil
}

func (m BrowseModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rm := &m.Roadmaps[m.Current]
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.Screen = screenList
		m.Status = ""
		return m, nil
	case "up", "k":
		if m.Row > 0 {
			m.Row--
		}
	case "down", "j":
		if m.Row < len(m.Rows)-1 {
			m.Row++
		}
	case "enter", " ":
		if n := m.selected(); n != nil && n.HasChildren() {
			m.Expanded = m.Expanded.Toggle(n.ID)
		}
	case "right":
		if n := m.selected(); n != nil && n.HasChildren() && !m.Expanded.Has(n.ID) {
			m.Expanded = m.Expanded.Toggle(n.ID)
		}
	case "left":
		if n := m.selected(); n != nil && m.Expanded.Has(n.ID) {
			m.Expanded = m.Expanded.Toggle(n.ID)
		}
	case "e":
		m.Expanded = layout.NewExpanded(rm.ExpandableIDs()...)
	case "c":
		m.Expanded = layout.Expanded{}
	case "l":
		return m, m.toggleLike(rm.ID)
	}

	m.Rows = visibleRows(rm.Nodes, m.Expanded)
	if m.Row >= len(m.Rows) {
		m.Row = max(len(m.Rows)-1, 0)
	}
	return m, nil
}

func (m BrowseModel) selected() *roadmap.Node {
	if m.Row < 0 || m.Row >= len(m.Rows) {
		return nil
	}
	return &m.Rows[m.Row].node
}

func (m BrowseModel) toggleLike(id string) tea.Cmd {
	ctx, svc, sess := m.ctx, m.svc, m.sess
	return func() tea.Msg {
		state, err := svc.ToggleLike(ctx, sess, id)
		return likeMsg{state: state, err: err}
	}
}

// visibleRows flattens the expanded part of a tree in display order.
func visibleRows(nodes []roadmap.Node, exp layout.Expanded) []treeRow {
	var rows []treeRow
	roadmap.Walk(nodes, func(n roadmap.Node, depth int) bool {
		rows = append(rows, treeRow{node: n, depth: depth})
		return exp.Has(n.ID)
	})
	return rows
}

func (m BrowseModel) View() string {
	if m.Screen == screenTree {
		return m.viewTree()
	}
	return m.viewList()
}

func (m BrowseModel) viewList() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Roadmaps"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  l like  q quit"))
	b.WriteString("\n\n")

	if len(m.Roadmaps) == 0 {
		b.WriteString(listDimStyle.Render("No roadmaps yet"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Roadmaps))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Roadmaps[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.Title, "@" + r.Author.Username, likeLabel(r.Liked, r.DisplayLikes), strconv.Itoa(r.NodeCount)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Roadmap", "Author", "Likes", "Steps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Roadmaps) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 && m.Roadmaps[idx].Liked {
				base = listLikedStyle
			} else if col == 2 || col == 4 {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				if col == 1 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Roadmaps))))
	if m.Status != "" {
		b.WriteString("  " + StyleWarning.Render(m.Status))
	}
	return b.String()
}

func (m BrowseModel) viewTree() string {
	var b strings.Builder
	rm := m.Roadmaps[m.Current]

	b.WriteString(StyleTitle.Render(rm.Title))
	b.WriteString("  ")
	if rm.Liked {
		b.WriteString(listLikedStyle.Render(likeLabel(true, rm.DisplayLikes)))
	} else {
		b.WriteString(listDimStyle.Render(likeLabel(false, rm.DisplayLikes)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("@" + rm.Author.Username + "  ↑/↓ move  ⏎ expand/collapse  e all  c none  l like  esc back"))
	b.WriteString("\n\n")

	for i, r := range m.Rows {
		cursor := "  "
		if i == m.Row {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", r.depth), stepMarker(r.node, m.Expanded), r.node.Title)
		if i == m.Row {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if n := m.selected(); n != nil && n.Description != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
		b.WriteString("\n")
		b.WriteString(StyleValue.Render(n.Description))
		b.WriteString("\n")
	}
	if m.Status != "" {
		b.WriteString("\n" + StyleWarning.Render(m.Status))
	}
	return b.String()
}
