package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/lastcard/internal/game"
)

// Bot is the automated opponent: the first-fit move policy plus its instincts.
// A Bot is not safe for concurrent use; give each driver its own.
type Bot struct {
	rng       *rand.Rand
	logger    *log.Logger
	instincts Instincts
}

// New creates a bot. A nil instincts uses Probabilistic with the defaults.
func New(rng *rand.Rand, instincts Instincts, logger *log.Logger) *Bot {
	if instincts == nil {
		instincts = NewProbabilistic(DefaultDeclareProbability, DefaultChallengeProbability, rng)
	}
	return &Bot{
		rng:       rng,
		logger:    logger.WithPrefix("bot"),
		instincts: instincts,
	}
}

// Instincts returns the bot's declare/challenge reflexes
func (b *Bot) Instincts() Instincts {
	return b.instincts
}

// Decide chooses a move for the player whose turn it is in view
func (b *Bot) Decide(view game.RoundView) Action {
	player := view.CurrentPlayer()
	action := ChooseMove(player.Hand, view.TopCard, view.ActiveColor, view.PendingDraw, b.rng)

	b.logger.Debug("Bot decision",
		"player", player.Name,
		"top", view.TopCard,
		"active", view.ActiveColor,
		"pending", view.PendingDraw,
		"cards", len(player.Hand),
		"action", action,
		"reasoning", action.Reasoning)

	return action
}
