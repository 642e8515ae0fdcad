package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blametrail/blametrail/gitx"
	"github.com/blametrail/blametrail/session"
)

// viewMode selects what the keyboard is currently driving.
type viewMode int

const (
	modeBlame   viewMode = iota
	modePager            // commit / diff / help text in a viewport overlay
	modeHistory          // live-updating line history overlay
	modePrompt           // goto-line or search input
)

type promptKind int

const (
	promptGoto promptKind = iota
	promptSearch
)

// Messages produced by background commands.
type annWakeMsg struct{ tree gitx.Hash }
type chainWakeMsg struct{ key chainID }
type contentMsg struct {
	tree  gitx.Hash
	lines []string
	err   error
}
type pagerMsg struct {
	title   string
	content string
	err     error
}
type metasMsg struct{ metas map[gitx.Hash]gitx.CommitMeta }

type chainID struct {
	tree gitx.Hash
	line int
}

// App is the bubbletea model for the blame view. It owns no blame
// data: annotations and chains live in the session cache, the model
// holds snapshots and re-snapshots on subscription wakeups.
type App struct {
	sess *session.Session
	keys KeyMap

	width  int
	height int
	ready  bool

	content []string // file lines at the current tree
	ann     session.AnnotationSnapshot
	metas   map[gitx.Hash]gitx.CommitMeta

	top    int // first visible 0-based line index
	status string

	mode       viewMode
	pager      viewport.Model
	pagerTitle string

	chain    session.ChainSnapshot
	chainKey chainID

	prompt     textinput.Model
	promptKind promptKind
	search     string
}

// NewApp builds the model around an open session.
func NewApp(sess *session.Session) *App {
	prompt := textinput.New()
	prompt.CharLimit = 200
	prompt.Width = 40
	prompt.PromptStyle = PromptStyle
	return &App{
		sess:   sess,
		keys:   DefaultKeyMap(),
		metas:  make(map[gitx.Hash]gitx.CommitMeta),
		prompt: prompt,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadContent(), a.subscribeAnnotation())
}

// loadContent reads the file at the current tree off the UI goroutine.
func (a *App) loadContent() tea.Cmd {
	tree := a.sess.Nav.Tree()
	path := a.sess.Nav.Path()
	repo := a.sess.Repo
	return func() tea.Msg {
		lines, err := repo.BlobLines(tree, path)
		return contentMsg{tree: tree, lines: lines, err: err}
	}
}

// subscribeAnnotation snapshots the current tree's annotation and
// arranges a wakeup message for the next published batch.
func (a *App) subscribeAnnotation() tea.Cmd {
	snap, sub := a.sess.Annotate()
	a.ann = snap
	tree := a.sess.Nav.Tree()
	return tea.Batch(
		waitForSub(sub, annWakeMsg{tree: tree}),
		a.fetchMissingMetas(),
	)
}

// waitForSub blocks on a cache subscription and resurfaces as a
// bubbletea message.
func waitForSub(sub *session.Sub, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-sub.Ready()
		return msg
	}
}

// fetchMissingMetas resolves commit metadata for blamed commits the
// gutter has not seen yet.
func (a *App) fetchMissingMetas() tea.Cmd {
	var missing []gitx.Hash
	for _, h := range a.ann.Lines {
		if _, ok := a.metas[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	repo := a.sess.Repo
	return func() tea.Msg {
		metas := make(map[gitx.Hash]gitx.CommitMeta, len(missing))
		for _, h := range missing {
			if m, err := repo.Commit(h); err == nil {
				metas[h] = m
			}
		}
		return metasMsg{metas: metas}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.pager = viewport.New(a.pagerWidth(), a.pagerHeight())
		a.ready = true
		a.ensureVisible()
		return a, nil

	case contentMsg:
		if msg.tree != a.sess.Nav.Tree() {
			return a, nil // stale: navigation moved on
		}
		if msg.err != nil {
			a.status = ErrorStyle.Render(msg.err.Error())
			return a, nil
		}
		a.content = msg.lines
		a.sess.Nav.SetLineCount(len(msg.lines))
		a.ensureVisible()
		return a, nil

	case annWakeMsg:
		if msg.tree != a.sess.Nav.Tree() {
			return a, nil
		}
		snap, ok := a.sess.Cache.Annotation(msg.tree, a.sess.Nav.Path())
		if !ok {
			return a, nil
		}
		a.ann = snap
		cmds := []tea.Cmd{a.fetchMissingMetas()}
		if !snap.Complete && snap.Err == nil {
			_, sub := a.sess.Cache.GetOrStart(msg.tree, a.sess.Nav.Path())
			cmds = append(cmds, waitForSub(sub, annWakeMsg{tree: msg.tree}))
		}
		return a, tea.Batch(cmds...)

	case chainWakeMsg:
		if a.mode != modeHistory || msg.key != a.chainKey {
			return a, nil
		}
		snap, sub := a.sess.Cache.GetOrStartHistory(msg.key.tree, msg.key.line, a.sess.Nav.Path())
		a.chain = snap
		a.pager.SetContent(a.renderChain())
		if !snap.Complete && snap.Err == nil {
			return a, waitForSub(sub, chainWakeMsg{key: msg.key})
		}
		return a, nil

	case metasMsg:
		for h, m := range msg.metas {
			a.metas[h] = m
		}
		return a, nil

	case pagerMsg:
		if msg.err != nil {
			a.status = ErrorStyle.Render(msg.err.Error())
			return a, nil
		}
		a.mode = modePager
		a.pagerTitle = msg.title
		a.pager = viewport.New(a.pagerWidth(), a.pagerHeight())
		a.pager.SetContent(msg.content)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case modePrompt:
		return a.handlePromptKey(msg)
	case modePager, modeHistory:
		return a.handlePagerKey(msg)
	}
	return a.handleBlameKey(msg)
}

func (a *App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Escape):
		a.mode = modeBlame
		return a, nil
	case msg.Type == tea.KeyEnter:
		value := a.prompt.Value()
		a.mode = modeBlame
		switch a.promptKind {
		case promptGoto:
			a.gotoLineInput(value)
		case promptSearch:
			a.search = value
			a.findMatch(1, true)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

func (a *App) handlePagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Escape), key.Matches(msg, a.keys.Quit):
		a.mode = modeBlame
		return a, nil
	}
	var cmd tea.Cmd
	a.pager, cmd = a.pager.Update(msg)
	return a, cmd
}

func (a *App) handleBlameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.status = ""

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = modePager
		a.pagerTitle = "Help"
		a.pager = viewport.New(a.pagerWidth(), a.pagerHeight())
		a.pager.SetContent(a.renderHelp())
		return a, nil

	case key.Matches(msg, a.keys.Up):
		a.report(a.sess.Nav.MoveCursor(-1))
	case key.Matches(msg, a.keys.Down):
		a.report(a.sess.Nav.MoveCursor(1))
	case key.Matches(msg, a.keys.PageUp):
		a.report(a.sess.Nav.MoveCursor(-a.viewHeight()))
	case key.Matches(msg, a.keys.PageDown):
		a.report(a.sess.Nav.MoveCursor(a.viewHeight()))
	case key.Matches(msg, a.keys.Home):
		a.report(a.sess.Nav.GotoLine(1))
	case key.Matches(msg, a.keys.End):
		a.report(a.sess.Nav.GotoLine(len(a.content)))

	case key.Matches(msg, a.keys.GotoLine):
		return a.openPrompt(promptGoto, "line number"), nil
	case key.Matches(msg, a.keys.Search):
		return a.openPrompt(promptSearch, "search"), nil
	case key.Matches(msg, a.keys.SearchNext):
		a.findMatch(1, false)
	case key.Matches(msg, a.keys.SearchPrev):
		a.findMatch(-1, false)

	case key.Matches(msg, a.keys.Older):
		return a.gotoParent()
	case key.Matches(msg, a.keys.Newer):
		if b := a.sess.Nav.Undo(); b != session.BoundaryNone {
			a.report(b)
			return a, nil
		}
		return a, tea.Batch(a.loadContent(), a.subscribeAnnotation())

	case key.Matches(msg, a.keys.Copy):
		a.copyCurrentHash()
	case key.Matches(msg, a.keys.ShowCommit):
		return a, a.showCommit()
	case key.Matches(msg, a.keys.ShowDiff):
		return a, a.showDiff()
	case key.Matches(msg, a.keys.History):
		return a.openHistory()
	}

	a.ensureVisible()
	return a, nil
}

// gotoParent retargets the session one commit back for the current
// line. Boundaries leave the view in place and show up as status text.
func (a *App) gotoParent() (tea.Model, tea.Cmd) {
	boundary, err := a.sess.Nav.GotoParent()
	if err != nil {
		a.status = ErrorStyle.Render(err.Error())
		return a, nil
	}
	if boundary != session.BoundaryNone {
		a.report(boundary)
		return a, nil
	}
	a.content = nil
	a.top = 0
	return a, tea.Batch(a.loadContent(), a.subscribeAnnotation())
}

func (a *App) openPrompt(kind promptKind, placeholder string) *App {
	a.mode = modePrompt
	a.promptKind = kind
	a.prompt.Placeholder = placeholder
	a.prompt.SetValue("")
	a.prompt.Focus()
	return a
}

func (a *App) openHistory() (tea.Model, tea.Cmd) {
	id := chainID{tree: a.sess.Nav.Tree(), line: a.sess.Nav.Line()}
	snap, sub := a.sess.Cache.GetOrStartHistory(id.tree, id.line, a.sess.Nav.Path())
	a.mode = modeHistory
	a.chain = snap
	a.chainKey = id
	a.pagerTitle = fmt.Sprintf("History of line %d", id.line)
	a.pager = viewport.New(a.pagerWidth(), a.pagerHeight())
	a.pager.SetContent(a.renderChain())
	if snap.Complete || snap.Err != nil {
		return a, nil
	}
	return a, waitForSub(sub, chainWakeMsg{key: id})
}

func (a *App) gotoLineInput(value string) {
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err != nil {
		a.status = ErrorStyle.Render("not a line number: " + value)
		return
	}
	a.report(a.sess.Nav.GotoLine(n))
	a.ensureVisible()
}

// findMatch searches the file content for the current pattern, wrapping
// around. fromCurrent starts at the cursor line instead of after it.
func (a *App) findMatch(dir int, fromCurrent bool) {
	if a.search == "" || len(a.content) == 0 {
		return
	}
	n := len(a.content)
	start := a.sess.Nav.Line() - 1
	if !fromCurrent {
		start += dir
	}
	for i := 0; i < n; i++ {
		idx := ((start+dir*i)%n + n) % n
		if strings.Contains(a.content[idx], a.search) {
			a.sess.Nav.GotoLine(idx + 1)
			a.ensureVisible()
			return
		}
	}
	a.status = StatusStyle.Render("no match: " + a.search)
}

func (a *App) copyCurrentHash() {
	commit, ok := a.sess.CurrentCommit()
	if !ok {
		a.status = StatusStyle.Render(session.Pending.String())
		return
	}
	if err := copyToClipboard(string(commit)); err != nil {
		a.status = ErrorStyle.Render("copy failed: " + err.Error())
		return
	}
	a.status = StatusStyle.Render("copied " + commit.Short())
}

func (a *App) showCommit() tea.Cmd {
	commit, ok := a.sess.CurrentCommit()
	if !ok {
		a.status = StatusStyle.Render(session.Pending.String())
		return nil
	}
	repo := a.sess.Repo
	return func() tea.Msg {
		out, err := repo.ShowCommit(commit)
		return pagerMsg{title: "Commit " + commit.Short(), content: out, err: err}
	}
}

func (a *App) showDiff() tea.Cmd {
	commit, ok := a.sess.CurrentCommit()
	if !ok {
		a.status = StatusStyle.Render(session.Pending.String())
		return nil
	}
	repo := a.sess.Repo
	path := a.sess.Nav.Path()
	return func() tea.Msg {
		out, err := repo.DiffForCommit(commit, path)
		return pagerMsg{title: "Diff " + commit.Short(), content: out, err: err}
	}
}

// report turns a navigation boundary into a status message.
func (a *App) report(b session.Boundary) {
	if b != session.BoundaryNone {
		a.status = StatusStyle.Render(b.String())
	}
}

func (a *App) viewHeight() int {
	h := a.height - 3 // header, status line, help bar
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) pagerWidth() int {
	w := a.width - 8
	if w < 20 {
		w = 20
	}
	return w
}

func (a *App) pagerHeight() int {
	h := a.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

// ensureVisible scrolls the window so the cursor line stays on screen.
func (a *App) ensureVisible() {
	cursor := a.sess.Nav.Line() - 1
	if cursor < a.top {
		a.top = cursor
	}
	if cursor >= a.top+a.viewHeight() {
		a.top = cursor - a.viewHeight() + 1
	}
	if a.top < 0 {
		a.top = 0
	}
}

func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	view := strings.Join([]string{
		a.renderHeader(),
		a.renderBlame(),
		a.renderStatus(),
		RenderHelpBar(HelpBarContext{Mode: a.mode, HasSearch: a.search != ""}, a.width),
	}, "\n")

	switch a.mode {
	case modePager, modeHistory:
		overlay := renderFloating(a.pagerTitle, a.pager.View(),
			a.width, a.height, a.pagerWidth()+4, a.pagerHeight()+2)
		return overlayOnto(view, overlay)
	case modePrompt:
		label := "goto line"
		if a.promptKind == promptSearch {
			label = "search"
		}
		overlay := renderFloating(label, "\n "+a.prompt.View()+"\n",
			a.width, a.height, 50, 5)
		return overlayOnto(view, overlay)
	}
	return view
}

func (a *App) renderHeader() string {
	tree := a.sess.Nav.Tree()
	header := fmt.Sprintf("%s @ %s", a.sess.Nav.Path(), tree.Short())
	if m, ok := a.metas[tree]; ok && m.Summary != "" {
		header += "  " + m.Summary
	}
	return TitleStyle.Render(truncate(header, a.width))
}

func (a *App) renderBlame() string {
	height := a.viewHeight()
	numWidth := len(fmt.Sprint(len(a.content)))
	if numWidth < 3 {
		numWidth = 3
	}
	gutterWidth := GutterWidth

	cells := buildGutter(len(a.content), a.ann.Line, func(h gitx.Hash) (gitx.CommitMeta, bool) {
		m, ok := a.metas[h]
		return m, ok
	}, gutterWidth)

	cursor := a.sess.Nav.Line() - 1
	contentWidth := a.width - gutterWidth - numWidth - 3
	if contentWidth < 1 {
		contentWidth = 1
	}

	rows := make([]string, 0, height)
	for i := a.top; i < a.top+height; i++ {
		if i >= len(a.content) {
			rows = append(rows, "")
			continue
		}
		num := LineNumberStyle.Render(fmt.Sprintf("%*d", numWidth, i+1))
		gut := renderCell(cells[i], gutterWidth)
		line := truncate(strings.ReplaceAll(a.content[i], "\t", "    "), contentWidth)
		if i == cursor {
			line = CursorLineStyle.Render(line)
		} else {
			line = ContentStyle.Render(line)
		}
		rows = append(rows, gut+" "+num+"  "+line)
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderStatus() string {
	if a.status != "" {
		return a.status
	}
	pos := fmt.Sprintf("line %d/%d", a.sess.Nav.Line(), len(a.content))
	extra := ""
	if !a.ann.Complete && a.ann.Err == nil {
		extra = "  annotating..."
	}
	if depth := a.sess.Nav.UndoDepth(); depth > 0 {
		extra += fmt.Sprintf("  undo:%d", depth)
	}
	return HelpDescStyle.Render(pos + extra)
}

// renderChain formats the history overlay: one block per chain entry,
// newest first, plus a trailing marker while the walk is running.
func (a *App) renderChain() string {
	if a.chain.Err != nil {
		return ErrorStyle.Render(a.chain.Err.Error())
	}
	var b strings.Builder
	for _, e := range a.chain.Entries {
		head := HashStyle.Render(e.Commit.Short())
		if m, ok := a.metas[e.Commit]; ok {
			head += " " + DateStyle.Render(m.When.Format("2006-01-02")) +
				" " + AuthorStyle.Render(m.Author) +
				"  " + SummaryStyle.Render(m.Summary)
		}
		fmt.Fprintf(&b, "%s\n", head)
		fmt.Fprintf(&b, "  %4d: %s\n", e.Line, e.Content)
		if e.Final {
			fmt.Fprintf(&b, "  %s\n", HelpDescStyle.Render("(introduced here)"))
		}
		b.WriteString("\n")
	}
	if !a.chain.Complete {
		b.WriteString(PendingStyle.Render("..."))
	}
	return b.String()
}

func (a *App) renderHelp() string {
	var b strings.Builder
	for _, group := range a.keys.FullHelp() {
		for _, binding := range group {
			fmt.Fprintf(&b, "  %s  %s\n",
				HelpKeyStyle.Render(fmt.Sprintf("%-10s", binding.Help().Key)),
				HelpDescStyle.Render(binding.Help().Desc))
		}
		b.WriteString("\n")
	}
	return b.String()
}
