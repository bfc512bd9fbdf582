// Package tui provides the Bubble Tea typing race interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typerace/internal/cursor"
	"github.com/verte-zerg/typerace/internal/excerpt"
	"github.com/verte-zerg/typerace/internal/game"
	"github.com/verte-zerg/typerace/internal/ghost"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/prefs"
	"github.com/verte-zerg/typerace/internal/report"
	"github.com/verte-zerg/typerace/internal/scheduler"
	"github.com/verte-zerg/typerace/internal/stats"
	"github.com/verte-zerg/typerace/internal/store"
)

const (
	collaboratorTimeout = 5 * time.Second
	blinkInterval       = 530 * time.Millisecond
	saveFailedNotice    = "Failed to save results"
)

// Leaderboard supplies the race-mode target.
type Leaderboard interface {
	TopEntry(ctx context.Context) (model.LeaderboardEntry, error)
}

// Results persists finished sessions.
type Results interface {
	InsertResult(ctx context.Context, sub model.Submission) (int64, error)
	ShareResult(ctx context.Context, resultID int64, shortID string) error
}

// TimerPrefs loads and saves the countdown preference.
type TimerPrefs interface {
	Load(ctx context.Context) int
	Save(ctx context.Context, duration int) error
}

// Deps are the collaborators of the game host. A nil collaborator turns off
// the feature that needs it.
type Deps struct {
	Excerpts    excerpt.Provider
	Timer       TimerPrefs
	Leaderboard Leaderboard
	Results     Results
	Clock       game.Clock
	Tick        scheduler.TickFunc
	Clipboard   func(string) error
	Logger      *slog.Logger
}

type saveState int

const (
	saveIdle saveState = iota
	saveRunning
	saveDone
	saveFailed
)

type (
	timerLoadedMsg struct{ duration int }
	timerSavedMsg  struct {
		duration int
		err      error
	}
	targetMsg struct {
		req   uint64
		entry model.LeaderboardEntry
		err   error
	}
	submittedMsg struct {
		session uint64
		id      int64
		shortID string
		err     error
	}
	sharedMsg struct {
		session uint64
		err     error
	}
	copiedMsg struct {
		session uint64
		url     string
		err     error
	}
	blinkMsg struct{}
)

type layoutKey struct {
	session uint64
	width   int
	valid   bool
}

// Model implements the Bubble Tea game host.
type Model struct {
	cfg    model.Config
	deps   Deps
	logger *slog.Logger

	session  *game.Session
	sched    *scheduler.Scheduler
	reporter *report.Reporter

	duration     int
	timerTouched bool

	race     bool
	raceReq  uint64
	raceBusy bool
	ghost    *ghost.Ghost
	ghostIdx int

	layout    cursor.Layout
	layoutKey layoutKey
	motion    cursor.Motion
	blinkOn   bool

	save        saveState
	resultID    int64
	shareID     string
	shareStored bool
	notice      string

	keys keyMap
	help help.Model

	width  int
	height int
}

// NewModel constructs the game host. A zero cfg.Duration defers to the
// saved timer preference.
func NewModel(cfg model.Config, deps Deps) *Model {
	if deps.Clock == nil {
		deps.Clock = game.SystemClock{}
	}
	if deps.Tick == nil {
		deps.Tick = tea.Tick
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Excerpts == nil {
		deps.Excerpts = excerpt.NewQuotes()
	}
	duration := cfg.Duration
	if !prefs.Valid(duration) {
		duration = prefs.DefaultDuration
	}

	m := &Model{
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger,
		duration: duration,
		race:     cfg.Race,
		keys:     defaultKeyMap(),
		help:     help.New(),
		blinkOn:  true,
	}
	m.sched = scheduler.New(nil).WithTickFunc(deps.Tick)
	m.reporter = report.NewReporter(func(r model.FinalResult) {
		m.logger.Info("session finished", "wpm", r.WPM, "accuracy", r.Accuracy, "duration", r.Duration)
	})
	m.session = game.NewSession(deps.Clock, deps.Excerpts.Next(), duration)
	m.syncKeys()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.blink()}
	if m.deps.Timer != nil && m.cfg.Duration == 0 {
		cmds = append(cmds, m.loadTimer())
	}
	if m.race {
		cmds = append(cmds, m.fetchTarget())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncKeys()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case scheduler.TickMsg:
		return m.handleTick(msg)
	case blinkMsg:
		m.blinkOn = !m.blinkOn
		return m.blink()
	case timerLoadedMsg:
		if !m.timerTouched {
			m.duration = msg.duration
			m.session.SetDuration(msg.duration)
		}
		return nil
	case timerSavedMsg:
		m.handleTimerSaved(msg)
		return nil
	case targetMsg:
		return m.handleTarget(msg)
	case submittedMsg:
		return m.handleSubmitted(msg)
	case sharedMsg:
		m.handleShared(msg)
		return nil
	case copiedMsg:
		m.handleCopied(msg)
		return nil
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sched.Stop()
		return tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.restart()
		return nil
	case key.Matches(msg, m.keys.Again):
		m.restart()
		return nil
	case key.Matches(msg, m.keys.Timer):
		return m.toggleTimer()
	case key.Matches(msg, m.keys.Race):
		return m.toggleRace()
	case key.Matches(msg, m.keys.Share):
		return m.share()
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.session.Backspace()
		m.observeCursor()
		return nil
	case tea.KeySpace:
		return m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		if msg.Alt || msg.Paste {
			return nil
		}
		return m.typeRunes(msg.Runes)
	default:
		return nil
	}
}

func (m *Model) typeRunes(runes []rune) tea.Cmd {
	wasIdle := m.session.Phase() == game.PhaseIdle
	finished := m.session.Type(runes)
	m.observeCursor()

	var cmds []tea.Cmd
	if wasIdle && m.session.Phase() != game.PhaseIdle {
		kinds := []scheduler.Kind{scheduler.Countdown, scheduler.Metrics}
		if m.ghost != nil {
			kinds = append(kinds, scheduler.Ghost)
		}
		cmds = append(cmds, m.sched.Start(kinds...))
		m.notice = ""
	}
	if finished {
		cmds = append(cmds, m.finish())
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleTick(msg scheduler.TickMsg) tea.Cmd {
	if !m.sched.Current(msg) {
		return nil
	}
	if m.session.Phase() != game.PhaseActive {
		m.sched.Stop()
		return nil
	}
	switch msg.Kind {
	case scheduler.Countdown:
		if m.session.Tick() {
			return m.finish()
		}
	case scheduler.Metrics:
		m.session.Sample()
	case scheduler.Ghost:
		if m.ghost == nil {
			m.sched.Cancel(scheduler.Ghost)
			return nil
		}
		m.ghostIdx = m.ghost.Index(m.session.Elapsed(), len(m.session.Text()))
	}
	return m.sched.Next(msg)
}

func (m *Model) finish() tea.Cmd {
	m.sched.Stop()
	m.ghostIdx = 0
	result, ok := m.session.Result()
	if !ok || !m.reporter.Report(m.session.ID(), result) {
		return nil
	}
	return m.submit(result, "")
}

func (m *Model) restart() {
	m.sched.Stop()
	m.session.Reset(m.deps.Excerpts.Next(), m.duration)
	m.ghostIdx = 0
	m.save = saveIdle
	m.resultID = 0
	m.shareID = ""
	m.shareStored = false
	m.notice = ""
	m.motion = cursor.Motion{}
}

func (m *Model) submit(result model.FinalResult, shortID string) tea.Cmd {
	if m.deps.Results == nil {
		return nil
	}
	sub, err := report.ForSubmission(result, string(m.session.Text()), m.cfg.Player)
	if err != nil {
		m.logger.Warn("result rejected", "error", err)
		m.save = saveFailed
		m.notice = saveFailedNotice
		return nil
	}
	sub.ShortID = shortID
	m.save = saveRunning
	results, session := m.deps.Results, m.session.ID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()
		id, err := results.InsertResult(ctx, sub)
		return submittedMsg{session: session, id: id, shortID: shortID, err: err}
	}
}

func (m *Model) handleSubmitted(msg submittedMsg) tea.Cmd {
	if msg.session != m.session.ID() {
		return nil
	}
	if msg.err != nil {
		m.logger.Warn("failed to save result", "error", msg.err)
		m.save = saveFailed
		m.notice = saveFailedNotice
		return nil
	}
	m.save = saveDone
	m.resultID = msg.id
	if msg.shortID != "" && msg.shortID == m.shareID {
		m.shareStored = true
	}
	if m.shareID != "" && !m.shareStored {
		return m.storeShare()
	}
	return nil
}

func (m *Model) share() tea.Cmd {
	if m.session.Phase() != game.PhaseFinished {
		return nil
	}
	if m.shareID == "" {
		m.shareID = report.NewShareID()
	}
	url := report.ShareURL(m.cfg.ShareURL, m.shareID)
	cmds := []tea.Cmd{m.copyLink(url)}
	if !m.shareStored {
		switch m.save {
		case saveDone:
			cmds = append(cmds, m.storeShare())
		case saveIdle, saveFailed:
			result, _ := m.session.Result()
			cmds = append(cmds, m.submit(result, m.shareID))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) storeShare() tea.Cmd {
	results, session, id, shortID := m.deps.Results, m.session.ID(), m.resultID, m.shareID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()
		return sharedMsg{session: session, err: results.ShareResult(ctx, id, shortID)}
	}
}

func (m *Model) handleShared(msg sharedMsg) {
	if msg.session != m.session.ID() {
		return
	}
	if msg.err != nil {
		m.logger.Warn("failed to save share link", "error", msg.err)
		m.notice = saveFailedNotice
		return
	}
	m.shareStored = true
}

func (m *Model) copyLink(url string) tea.Cmd {
	clip, session := m.deps.Clipboard, m.session.ID()
	return func() tea.Msg {
		return copiedMsg{session: session, url: url, err: clip(url)}
	}
}

func (m *Model) handleCopied(msg copiedMsg) {
	if msg.session != m.session.ID() {
		return
	}
	if msg.err != nil {
		m.logger.Debug("clipboard unavailable", "error", msg.err)
		m.notice = "Share link: " + msg.url
		return
	}
	m.notice = "Link copied: " + msg.url
}

func (m *Model) loadTimer() tea.Cmd {
	timer := m.deps.Timer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()
		return timerLoadedMsg{duration: timer.Load(ctx)}
	}
}

func (m *Model) toggleTimer() tea.Cmd {
	m.duration = prefs.Toggle(m.duration)
	m.timerTouched = true
	m.session.SetDuration(m.duration)
	if m.deps.Timer == nil {
		m.notice = fmt.Sprintf("Timer set to %d seconds", m.duration)
		return nil
	}
	timer, duration := m.deps.Timer, m.duration
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()
		return timerSavedMsg{duration: duration, err: timer.Save(ctx, duration)}
	}
}

func (m *Model) handleTimerSaved(msg timerSavedMsg) {
	switch {
	case msg.err == nil:
		m.notice = fmt.Sprintf("Timer set to %d seconds", msg.duration)
	case errors.Is(msg.err, prefs.ErrNoIdentity):
		m.notice = fmt.Sprintf("Timer set to %d seconds (set a player name to save preference)", msg.duration)
	default:
		m.logger.Warn("failed to save timer preference", "error", msg.err)
		m.notice = fmt.Sprintf("Timer set to %d seconds (preference not saved)", msg.duration)
	}
}

func (m *Model) toggleRace() tea.Cmd {
	m.race = !m.race
	if m.race {
		return m.fetchTarget()
	}
	m.raceReq++
	m.raceBusy = false
	m.ghost = nil
	m.ghostIdx = 0
	m.sched.Cancel(scheduler.Ghost)
	return nil
}

func (m *Model) fetchTarget() tea.Cmd {
	m.raceReq++
	if m.deps.Leaderboard == nil {
		m.raceBusy = false
		return nil
	}
	m.raceBusy = true
	board, req := m.deps.Leaderboard, m.raceReq
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
		defer cancel()
		entry, err := board.TopEntry(ctx)
		return targetMsg{req: req, entry: entry, err: err}
	}
}

func (m *Model) handleTarget(msg targetMsg) tea.Cmd {
	if msg.req != m.raceReq || !m.race {
		return nil
	}
	m.raceBusy = false
	if msg.err != nil {
		if !errors.Is(msg.err, store.ErrNotFound) {
			m.logger.Warn("failed to load race target", "error", msg.err)
		}
		return nil
	}
	m.ghost = ghost.New(model.GhostTarget{WPM: msg.entry.WPM, DisplayName: msg.entry.PlayerName})
	if m.session.Phase() == game.PhaseActive {
		return m.sched.Add(scheduler.Ghost)
	}
	return nil
}

func (m *Model) blink() tea.Cmd {
	return m.deps.Tick(blinkInterval, func(time.Time) tea.Msg {
		return blinkMsg{}
	})
}

func (m *Model) syncKeys() {
	finished := m.session.Phase() == game.PhaseFinished
	m.keys.Again.SetEnabled(finished)
	m.keys.Share.SetEnabled(finished)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70)-2*cursor.StartInset)
}

func (m *Model) currentLayout() cursor.Layout {
	k := layoutKey{session: m.session.ID(), width: m.contentWidth(), valid: true}
	if k != m.layoutKey {
		m.layout = cursor.NewLayout(m.session.Text(), k.width)
		m.layoutKey = k
	}
	return m.layout
}

func (m *Model) observeCursor() {
	p := cursor.Position(m.currentLayout(), len(m.session.Input()))
	m.motion.Observe(p, m.deps.Clock.Now())
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.session.Text()) == 0 {
		return "No excerpt available."
	}
	content := m.renderContent()
	footer := m.renderFooter()
	if m.notice != "" {
		footer += "\n" + noticeStyle.Render(m.notice)
	}
	footer += "\n" + m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := m.height - footerHeight
	if bodyHeight < 1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerBlock := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerBlock
}

func (m *Model) renderContent() string {
	l := m.currentLayout()
	text := m.session.Text()
	input := m.session.Input()
	live := cursor.Position(l, len(input))
	finished := m.session.Phase() == game.PhaseFinished
	showLive := !finished && (m.blinkOn || m.motion.Moving(m.deps.Clock.Now()))

	var ghostAt *cursor.Point
	if m.ghost != nil && m.session.Phase() == game.PhaseActive {
		p := cursor.Position(l, m.ghostIdx)
		ghostAt = &p
	}
	body := renderText(l, styleRunes(text, input, len(input)), live, showLive, ghostAt)
	if result, ok := m.session.Result(); ok {
		body = renderResult(result) + "\n\n" + body
	}
	return body
}

func renderResult(r model.FinalResult) string {
	line := resultStyle.Render(fmt.Sprintf("%d WPM  %d%% accuracy  %ds", r.WPM, r.Accuracy, r.Duration))
	if spark := stats.HistorySparkline(r.WPMHistory); spark != "" {
		line += "\n" + footerStyle.Render(spark)
	}
	return line
}

func (m *Model) renderFooter() string {
	var segments []string
	if result, ok := m.session.Result(); ok {
		segments = append(segments,
			fmt.Sprintf("WPM %d", result.WPM),
			fmt.Sprintf("Accuracy %d%%", result.Accuracy),
			"Share ctrl+s",
		)
	} else {
		segments = append(segments,
			fmt.Sprintf("%ds", m.session.Remaining()),
			fmt.Sprintf("WPM %d", m.session.LiveWPM()),
		)
	}
	if race := m.raceLabel(); race != "" {
		segments = append(segments, race)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) raceLabel() string {
	switch {
	case !m.race:
		return ""
	case m.raceBusy:
		return "Race: loading"
	case m.ghost == nil:
		return "Race: no target"
	default:
		target := m.ghost.Target()
		return fmt.Sprintf("Race vs %s (%d WPM)", target.Name(), target.WPM)
	}
}
