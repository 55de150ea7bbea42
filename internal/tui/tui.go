package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/lastcard/internal/autoplay"
	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/fileutil"
	"github.com/lox/lastcard/internal/game"
)

// humanSeat is where the engine always seats the human
const humanSeat = 0

// eventBuffer bounds how far the log can fall behind the engine
const eventBuffer = 1024

// Model is the Bubble Tea model for a match between the human and the bots
type Model struct {
	engine    *game.Engine
	driver    *autoplay.Driver
	formatter *game.EventFormatter
	logger    *log.Logger
	savePath  string

	ctx    context.Context
	cancel context.CancelFunc
	sink   *eventSink

	// UI components
	logViewport viewport.Model
	help        help.Model
	keys        keyMap

	// State
	gameLog       []string
	selected      int
	choosingColor bool
	botsThinking  bool
	matchOver     bool
	status        string
	statusIsError bool
	quitting      bool

	// Dimensions
	width  int
	height int
}

type eventMsg struct {
	event game.GameEvent
}

type botsDoneMsg struct {
	err error
}

// eventSink forwards engine events into the Bubble Tea loop. Events are
// published on whichever goroutine moved the engine, so it never blocks.
type eventSink struct {
	events chan game.GameEvent
	logger *log.Logger
}

func (s *eventSink) OnEvent(event game.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("Dropped event, log is behind", "type", event.EventType())
	}
}

// NewModel creates the model and subscribes it to the engine's events.
// savePath may be empty to disable saving. Call Close when done.
func NewModel(engine *game.Engine, driver *autoplay.Driver, logger *log.Logger, savePath string) *Model {
	logger = logger.WithPrefix("tui")
	ctx, cancel := context.WithCancel(context.Background())
	sink := &eventSink{events: make(chan game.GameEvent, eventBuffer), logger: logger}
	engine.Events().Subscribe(sink)

	m := &Model{
		engine:      engine,
		driver:      driver,
		formatter:   game.NewEventFormatter(game.FormattingOptions{Perspective: game.HumanID}),
		logger:      logger,
		savePath:    savePath,
		ctx:         ctx,
		cancel:      cancel,
		sink:        sink,
		logViewport: viewport.New(10, 5),
		help:        help.New(),
		keys:        defaultKeyMap(),
		matchOver:   engine.IsMatchOver(),
	}

	// the opening deal happened before we subscribed
	view := engine.Round()
	m.addLog(m.formatter.FormatHandStarted(game.HandStartedEvent{
		MatchID:     view.MatchID,
		HandNumber:  view.HandNumber,
		TopCard:     view.TopCard,
		FirstPlayer: view.CurrentPlayer(),
		Players:     view.Players,
	}))
	return m
}

// Close stops background work and unsubscribes from the engine
func (m *Model) Close() {
	m.cancel()
	m.engine.Events().Unsubscribe(m.sink)
}

// Init starts listening for events and lets the bots move if they are first
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.runBots())
}

// listen waits for the next engine event
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-m.sink.events:
			return eventMsg{event: ev}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// runBots plays automated turns in the background until the human is up
func (m *Model) runBots() tea.Cmd {
	view := m.engine.Round()
	if m.botsThinking || view.Over() || !view.CurrentPlayer().Automated {
		return nil
	}
	m.botsThinking = true
	ctx := m.ctx
	return func() tea.Msg {
		return botsDoneMsg{err: m.driver.RunUntilHuman(ctx)}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updated dimensions", "width", m.width, "height", m.height)
		return m, nil

	case eventMsg:
		m.handleEvent(msg.event)
		return m, m.listen()

	case botsDoneMsg:
		m.botsThinking = false
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Error("Bot turn failed", "error", msg.err)
			m.setError(msg.err.Error())
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleEvent(event game.GameEvent) {
	m.addLog(m.formatter.Format(event))

	switch ev := event.(type) {
	case game.HandStartedEvent:
		m.selected = 0
	case game.HandEndedEvent:
		if ev.Winner.ID == game.HumanID {
			m.setStatus(fmt.Sprintf("You won the hand for %d points. Press n for the next hand.", ev.Score))
		} else {
			m.setStatus(fmt.Sprintf("%s won the hand. Press n for the next hand.", ev.Winner.Name))
		}
	case game.MatchEndedEvent:
		m.matchOver = true
		m.setStatus(fmt.Sprintf("%s won the match. Press q to quit.", ev.Winner.Name))
	case game.ChallengeResolvedEvent:
		if ev.Target.ID == game.HumanID && ev.Outcome == game.ChallengeUpheld {
			m.setError(fmt.Sprintf("%s caught you without a call!", ev.Challenger.Name))
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.Close()
		return tea.Quit
	}

	if m.choosingColor {
		switch {
		case key.Matches(msg, m.keys.Color):
			return m.play(colorKeys[msg.String()])
		case key.Matches(msg, m.keys.Cancel):
			m.choosingColor = false
			m.setStatus("")
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Play):
		return m.playSelected()
	case key.Matches(msg, m.keys.Color):
		return m.playSelectedAs(colorKeys[msg.String()])
	case key.Matches(msg, m.keys.Draw):
		return m.draw()
	case key.Matches(msg, m.keys.Declare):
		m.declare()
	case key.Matches(msg, m.keys.Challenge):
		m.challenge()
	case key.Matches(msg, m.keys.NextHand):
		return m.nextHand()
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.ScrollUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.ScrollDn):
		m.logViewport.HalfPageDown()
	}
	return nil
}

// humanTurn returns the current view and whether the human may act in it
func (m *Model) humanTurn() (game.RoundView, bool) {
	view := m.engine.Round()
	switch {
	case view.Over():
		m.setError("The hand is over. Press n for the next hand.")
		return view, false
	case m.botsThinking || view.Current != humanSeat:
		m.setError("Wait for your turn.")
		return view, false
	}
	return view, true
}

func (m *Model) humanHand() []deck.Card {
	hand, err := m.engine.Hand(game.HumanID)
	if err != nil {
		m.logger.Error("Failed to read hand", "error", err)
		return nil
	}
	return hand
}

func (m *Model) moveSelection(delta int) {
	n := len(m.humanHand())
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = (m.selected + delta + n) % n
}

func (m *Model) clampSelection() {
	n := len(m.humanHand())
	if m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m *Model) playSelected() tea.Cmd {
	view, ok := m.humanTurn()
	if !ok {
		return nil
	}
	hand := view.Players[humanSeat].Hand
	if m.selected >= len(hand) {
		return nil
	}
	if hand[m.selected].IsWild() {
		m.choosingColor = true
		m.setStatus("Choose a color: r/g/b/y, esc to cancel")
		return nil
	}
	return m.play(deck.NoColor)
}

func (m *Model) playSelectedAs(color deck.Color) tea.Cmd {
	hand := m.humanHand()
	if m.selected >= len(hand) || !hand[m.selected].IsWild() {
		m.setError("Select a wild card to choose its color.")
		return nil
	}
	return m.play(color)
}

func (m *Model) play(color deck.Color) tea.Cmd {
	m.choosingColor = false
	if _, ok := m.humanTurn(); !ok {
		return nil
	}
	if _, err := m.engine.Play(humanSeat, m.selected, color); err != nil {
		m.setError(describe(err))
		return nil
	}
	m.setStatus("")
	m.clampSelection()
	return m.runBots()
}

func (m *Model) draw() tea.Cmd {
	if _, ok := m.humanTurn(); !ok {
		return nil
	}
	if _, err := m.engine.Draw(humanSeat); err != nil {
		m.setError(describe(err))
		return nil
	}
	m.setStatus("")
	return m.runBots()
}

// declare announces the human's last card. Declaring with two cards is
// allowed so the call can be made before playing down to one.
func (m *Model) declare() {
	if n := len(m.humanHand()); n > 2 {
		m.setError(fmt.Sprintf("You still hold %d cards.", n))
		return
	}
	if err := m.engine.DeclareLastCard(game.HumanID); err != nil {
		m.setError(describe(err))
		return
	}
	m.setStatus("Last card!")
}

// challenge calls out the opponent holding a single card, preferring the one
// the engine is watching.
func (m *Model) challenge() {
	view := m.engine.Round()
	target := ""
	if holder, ok := view.Player(view.Call.Holder); ok && holder.ID != game.HumanID && holder.HandSize() == 1 {
		target = holder.ID
	}
	for _, p := range view.Players {
		if target == "" && p.ID != game.HumanID && p.HandSize() == 1 {
			target = p.ID
		}
	}
	if target == "" {
		m.setError("Nobody is down to one card.")
		return
	}

	outcome, err := m.engine.RaiseChallenge(game.HumanID, target)
	if err != nil {
		m.setError(describe(err))
		return
	}
	if outcome == game.ChallengeUpheld {
		m.setStatus("Caught them! They draw 4.")
	} else {
		m.setError("They had called it. You draw 4.")
	}
}

func (m *Model) nextHand() tea.Cmd {
	if _, err := m.engine.StartHand(); err != nil {
		m.setError(describe(err))
		return nil
	}
	m.selected = 0
	m.setStatus("")
	return m.runBots()
}

func (m *Model) save() {
	if m.savePath == "" {
		m.setError("No save file configured.")
		return
	}
	if err := fileutil.WriteJSON(m.savePath, m.engine.Snapshot()); err != nil {
		m.logger.Error("Failed to save game", "path", m.savePath, "error", err)
		m.setError(fmt.Sprintf("Save failed: %v", err))
		return
	}
	m.logger.Info("Saved game", "path", m.savePath)
	m.setStatus("Saved to " + m.savePath)
}

// describe turns engine errors into something a player can act on
func describe(err error) string {
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		return "You can't play that card now."
	case errors.Is(err, game.ErrMissingColorChoice):
		return "Choose a color for the wild card."
	case errors.Is(err, game.ErrHandOver):
		return "The hand is over. Press n for the next hand."
	case errors.Is(err, game.ErrHandInProgress):
		return "Finish this hand first."
	case errors.Is(err, game.ErrMatchOver):
		return "The match is over."
	}
	return err.Error()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusIsError = true
}

// addLog appends an entry to the game log and scrolls to it
func (m *Model) addLog(entry string) {
	if entry == "" {
		return
	}
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	view := m.engine.Round()
	match := m.engine.Match()

	actionContent := m.renderActionPane(view)
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane(view, match)
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows every seat's card count and match total
func (m *Model) renderSidebarPane(view game.RoundView, match game.MatchState) string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" Hand #%d ", view.HandNumber)))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Target: %d", match.TargetScore)))
	content.WriteString("\n\n")

	for i, p := range view.Players {
		line := fmt.Sprintf("%-9s %2d cards %4d pts", p.Name, p.HandSize(), match.TotalScores[p.ID])
		if view.Call.HasDeclared(p.ID) {
			line += " !"
		}
		if i == view.Current && !view.Over() {
			content.WriteString(CurrentPlayerStyle.Render("> " + line))
		} else {
			content.WriteString(PlayerInfoStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Deck %d  Discard %d  %s", view.DeckSize, view.DiscardSize, view.Direction)))
	return content.String()
}

// renderActionPane shows the table, the human's hand and the key help
func (m *Model) renderActionPane(view game.RoundView) string {
	var content strings.Builder

	content.WriteString(HandInfoStyle.Render("Top: "))
	content.WriteString(renderCard(view.TopCard))
	content.WriteString(HandInfoStyle.Render("  Color: "))
	content.WriteString(ColorStyle(view.ActiveColor).Render(view.ActiveColor.String()))
	if view.PendingDraw > 0 {
		content.WriteString("  ")
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Pending draw: %d", view.PendingDraw)))
	}
	content.WriteString("\n")

	content.WriteString(HandInfoStyle.Render("Your hand: "))
	content.WriteString(m.renderHand(view.Players[humanSeat].Hand))
	content.WriteString("\n")

	switch {
	case m.status != "" && m.statusIsError:
		content.WriteString(ErrorStyle.Render(m.status))
	case m.status != "":
		content.WriteString(SuccessStyle.Render(m.status))
	case m.botsThinking:
		content.WriteString(InfoStyle.Render("Waiting for the bots..."))
	case !view.Over() && view.Current == humanSeat:
		content.WriteString(SuccessStyle.Render("Your turn."))
	}
	content.WriteString("\n")

	content.WriteString(m.help.View(m.keys))
	return content.String()
}

func (m *Model) renderHand(hand []deck.Card) string {
	cards := make([]string, len(hand))
	for i, card := range hand {
		rendered := renderCard(card)
		if i == m.selected {
			rendered = SelectedCardStyle.Render(card.String())
		}
		cards[i] = rendered
	}
	return strings.Join(cards, " ")
}

func renderCard(card deck.Card) string {
	return ColorStyle(card.Color).Render(card.String())
}
