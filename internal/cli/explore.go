package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	cgerrors "github.com/matzehuels/castgraph/pkg/errors"
	"github.com/matzehuels/castgraph/pkg/fetch"
	"github.com/matzehuels/castgraph/pkg/graph"
	"github.com/matzehuels/castgraph/pkg/interaction"
	"github.com/matzehuels/castgraph/pkg/session"
)

// exploreCommand creates the interactive explorer command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		local   bool
		noCache bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "explore [book-id]",
		Short: "Explore a book's character graph in the terminal",
		Long: `Explore a book's character graph in the terminal.

The explorer asks the analysis service for the book's characters, lays them
out as the simulation runs and lets you click a character (or cycle with
tab) to see who they are connected to and why. Press / to switch books;
a new request always wins over one still in flight.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var book string
			if len(args) == 1 {
				id, err := validateBookID(args[0])
				if err != nil {
					return err
				}
				book = id
			}
			return c.runExplore(cmd.Context(), book, local, noCache, logFile)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "analyze in-process instead of calling the service")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (with --local)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the explorer runs")

	return cmd
}

// runExplore runs the explorer until the user quits or ctx is cancelled.
func (c *CLI) runExplore(ctx context.Context, book string, local, noCache bool, logFile string) error {
	backend, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer backend.Close()

	// The terminal belongs to the explorer; logs go to a file or nowhere.
	logger := log.NewWithOptions(io.Discard, log.Options{})
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = newLogger(f, c.Logger.GetLevel())
	}
	quiet := *c
	quiet.Logger = logger

	cfg := c.Config
	sess, err := session.New(ctx, quiet.newAnalyzer(backend, local), session.Options{
		PartIndex: cfg.Analysis.PartIndex,
		Layout:    cfg.Layout,
		Width:     float64(cfg.View.Width),
		Height:    cfg.View.Height,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	p := tea.NewProgram(newExploreModel(sess, book),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	sess.OnEvent(func(ev session.Event) { p.Send(sessionMsg{ev: ev}) })

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// =============================================================================
// Explorer Model
// =============================================================================

// Layout of the explorer screen, in terminal rows.
const (
	canvasTop    = 3 // title, status, blank
	panelRows    = 7 // focus title plus relationships
	maxPanelRels = panelRows - 1
	chromeRows   = canvasTop + 1 + panelRows + 1
	minCanvasRow = 5
)

// sessionMsg carries a session event into the bubbletea loop.
type sessionMsg struct{ ev session.Event }

// tickMsg advances the loading indicator.
type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// exploreModel is the bubbletea model of the explorer.
type exploreModel struct {
	sess *session.Session

	book     string
	input    string
	editing  bool
	inputErr string

	width, height int
	frame         int

	state     fetch.State
	iteration int
	laidOut   bool

	focus   string
	rels    []interaction.Relationship
	pending []interaction.Relationship
}

func newExploreModel(sess *session.Session, book string) exploreModel {
	return exploreModel{sess: sess, book: book, width: 100, height: 40}
}

func (m exploreModel) Init() tea.Cmd {
	if m.book == "" {
		return tick()
	}
	sess, book := m.sess, m.book
	return tea.Batch(tick(), func() tea.Msg {
		sess.Load(book)
		return nil
	})
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sess.Resize(msg.Height * cellHeightPx)
	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.tap(msg.X, msg.Y)
		}
	case sessionMsg:
		m.apply(msg.ev)
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m exploreModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/", "b":
		m.editing, m.input, m.inputErr = true, "", ""
	case "r":
		if m.book != "" {
			m.sess.Load(m.book)
		}
	case "tab", "right", "l":
		m.cycle(1)
	case "shift+tab", "left", "h":
		m.cycle(-1)
	}
	return m, nil
}

func (m exploreModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyEnter:
		id, err := validateBookID(m.input)
		if err != nil {
			m.inputErr = cgerrors.UserMessage(err)
			return m, nil
		}
		m.editing, m.book = false, id
		m.sess.Load(id)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		m.inputErr = ""
	}
	return m, nil
}

// apply folds a session event into the model.
func (m *exploreModel) apply(ev session.Event) {
	switch e := ev.(type) {
	case session.FetchChanged:
		m.state = e.State
		if e.State.Status == fetch.Success || e.State.Status == fetch.Idle {
			m.focus, m.rels, m.pending = "", nil, nil
			m.iteration, m.laidOut = 0, false
		}
	case session.LayoutProgress:
		m.iteration, m.laidOut = e.Iteration, e.Final
	case session.RelationshipSelected:
		m.pending = append(m.pending, e.Relationship)
	case session.SelectionChanged:
		focus := ""
		if e.Selection.Focused {
			focus = e.Selection.Focus
		}
		if len(m.pending) > 0 || focus != m.focus {
			m.rels = m.pending
		}
		m.focus, m.pending = focus, nil
	}
}

// cycle focuses the next character by importance.
func (m *exploreModel) cycle(dir int) {
	snap := m.sess.Snapshot()
	if snap.NodeCount() == 0 {
		return
	}
	nodes := byImportance(snap.Nodes())
	i := slices.IndexFunc(nodes, func(n graph.Node) bool { return n.ID == m.focus })
	switch {
	case i < 0 && dir < 0:
		i = len(nodes) - 1
	case i < 0:
		i = 0
	default:
		i = (i + dir + len(nodes)) % len(nodes)
	}
	m.sess.Activate(nodes[i].ID)
}

// tap forwards a click on the canvas to the session in frame coordinates.
func (m *exploreModel) tap(x, y int) {
	cols, rows := m.canvasSize()
	row := y - canvasTop
	if x < 0 || x >= cols || row < 0 || row >= rows {
		return
	}
	w, h := m.sess.FrameSize()
	cv := canvas{cols: cols, rows: rows, cellW: w / float64(cols), cellH: h / float64(rows)}
	fx, fy := cv.point(x, row)
	m.sess.Tap(fx, fy)
}

// canvasSize returns the canvas grid size for the current terminal and
// canvas height.
func (m exploreModel) canvasSize() (cols, rows int) {
	_, h := m.sess.FrameSize()
	rows = min(int(h)/cellHeightPx, m.height-chromeRows)
	return max(m.width, 1), max(rows, minCanvasRow)
}

func (m exploreModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render(appName)
	if m.book != "" {
		title += StyleDim.Render(" · book ") + StyleValue.Render(m.book)
	}
	b.WriteString(title + "\n")
	b.WriteString(m.statusLine() + "\n\n")

	cols, rows := m.canvasSize()
	// A failed request keeps the previous graph on screen.
	if m.sess.Snapshot() != nil {
		b.WriteString(drawCanvas(m.sess.View(), cols, rows).String())
	} else {
		b.WriteString(strings.Repeat("\n", rows-1))
	}
	b.WriteString("\n\n")

	b.WriteString(m.panel())
	b.WriteString("\n" + StyleDim.Render("/ book · tab next character · click select · r reload · q quit"))
	return b.String()
}

func (m exploreModel) statusLine() string {
	if m.editing {
		line := "Book ID: " + StyleValue.Render(m.input) + styleIconSpinner.Render("█")
		if m.inputErr != "" {
			line += "  " + styleError.Render(m.inputErr)
		}
		return line
	}

	switch m.state.Status {
	case fetch.Loading:
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		return styleIconSpinner.Render(frame) + " " + StyleDim.Render("Analyzing book "+m.state.BookID+"...")
	case fetch.Error:
		return styleIconError.Render(iconError) + " " + styleError.Render(m.state.Message)
	case fetch.Success:
		snap := m.state.Snapshot
		line := StyleDim.Render(fmt.Sprintf("%d characters · %d relationships", snap.NodeCount(), snap.EdgeCount()))
		if !m.laidOut {
			line += StyleDim.Render(fmt.Sprintf(" · laying out (%d)", m.iteration))
		}
		return line
	default:
		return StyleDim.Render("Press / to choose a book")
	}
}

func (m exploreModel) panel() string {
	lines := make([]string, 0, panelRows)
	if m.focus != "" {
		lines = append(lines, styleFocusName.Render(m.focus))
		for i, r := range m.rels {
			if i == maxPanelRels-1 && len(m.rels) > maxPanelRels {
				lines = append(lines, StyleDim.Render(fmt.Sprintf("  +%d more", len(m.rels)-i)))
				break
			}
			lines = append(lines, "  "+relationshipLine(r))
		}
	}
	for len(lines) < panelRows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
