package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fireworks-games/hanabot/internal/dependencies/clock"
	"github.com/fireworks-games/hanabot/internal/dependencies/random"
	"github.com/fireworks-games/hanabot/internal/model"
	"github.com/fireworks-games/hanabot/internal/services/deck"
	"github.com/fireworks-games/hanabot/internal/storage"
)

// Publisher receives engine events in the order they occur.
type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

// Controller manages the game state machine and turn flow
type Controller struct {
	storage     storage.Storage
	deckService *deck.Service
	events      Publisher
	rules       model.Rules
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[model.GameID]*sync.Mutex
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	deckService *deck.Service,
	events Publisher,
	rules model.Rules,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:     storage,
		deckService: deckService,
		events:      events,
		rules:       rules,
		clock:       clock,
		random:      random,
		logger:      logger,
		locks:       make(map[model.GameID]*sync.Mutex),
	}
}

// gameLock returns the mutex serializing all moves against one game
func (c *Controller) gameLock(gameID model.GameID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[gameID] = lock
	}
	return lock
}

func (c *Controller) publish(ctx context.Context, event model.Event) {
	if c.events != nil {
		c.events.Publish(ctx, event)
	}
}

// publishAll emits the events a move produced, in order. Moves buffer their
// events and publish here after the game lock is released and the state is
// saved: subscribers (the lobby's release hook included) may take their own
// locks, so nothing is published while the game lock is held.
func (c *Controller) publishAll(ctx context.Context, events []model.Event) {
	for _, event := range events {
		c.publish(ctx, event)
	}
}

// CreateGame deals a fresh game for the given players, in seat order
func (c *Controller) CreateGame(ctx context.Context, players []model.PlayerID) (*model.Game, error) {
	cards := c.deckService.Build()
	c.deckService.Shuffle(cards)
	dealt, rest, err := c.deckService.Deal(cards, len(players))
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	gameID := model.GameID(c.random.String(12, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"))

	hands := make([]model.Hand, len(players))
	for i, playerID := range players {
		hand := model.Hand{Player: playerID}
		for _, card := range dealt[i] {
			hand.Append(card)
		}
		hands[i] = hand
	}

	game := &model.Game{
		ID:        gameID,
		Status:    model.GameStatusInProgress,
		Rules:     c.rules,
		Players:   players,
		Hands:     hands,
		Deck:      rest,
		Discards:  []model.Card{},
		Stacks:    make(map[model.Color]model.Rank),
		Clues:     c.rules.ClueTokens,
		Bombs:     0,
		Turn:      0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	handSize, _ := deck.HandSize(len(players))
	c.publish(ctx, model.Event{
		Type:      model.EventGameFormed,
		Timestamp: now,
		GameID:    gameID,
		Payload: model.GameFormedPayload{
			GameID:   gameID,
			Players:  players,
			HandSize: handSize,
		},
	})

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.Int("player_count", len(players)),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// Observe returns the game as seen by one player, with their own cards hidden
func (c *Controller) Observe(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.ObservableState, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Seat(playerID) == -1 {
		return nil, model.ErrNotInGame
	}
	return game.Observe(playerID), nil
}

// validateMove checks that the game accepts moves and it is this player's turn
func (c *Controller) validateMove(game *model.Game, playerID model.PlayerID) error {
	if game.Status != model.GameStatusInProgress {
		return model.ErrGameFinished
	}
	if game.Seat(playerID) == -1 {
		return model.ErrNotInGame
	}
	if game.CurrentPlayer() != playerID {
		return model.ErrNotYourTurn
	}
	return nil
}

// Play attempts to play the card in the given 1-based slot onto its stack
func (c *Controller) Play(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, error) {
	lock := c.gameLock(gameID)
	lock.Lock()
	game, events, err := c.playLocked(ctx, gameID, playerID, slot)
	lock.Unlock()
	if err != nil {
		return nil, err
	}
	c.publishAll(ctx, events)
	return game, nil
}

func (c *Controller) playLocked(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, []model.Event, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if err := c.validateMove(game, playerID); err != nil {
		return nil, nil, err
	}

	hand := game.HandOf(playerID)
	card, err := hand.Remove(slot)
	if err != nil {
		return nil, nil, err
	}

	success := card.Rank == game.StackTop(card.Color)+1
	if success {
		game.Stacks[card.Color] = card.Rank
		if card.Rank == model.MaxRank && game.Rules.StackBonus && game.Clues < game.Rules.ClueTokens {
			game.Clues++
		}
	} else {
		game.Discards = append(game.Discards, card)
		game.Bombs++
	}

	events := []model.Event{{
		Type:      model.EventCardPlayed,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		PlayerID:  playerID,
		Payload: model.CardPlayedPayload{
			Player:  playerID,
			Slot:    slot,
			Card:    card,
			Success: success,
		},
	}}

	if !success {
		events = c.checkUnwinnable(game, events)
	}

	events, err = c.finishMove(ctx, game, true, events)
	if err != nil {
		return nil, nil, err
	}
	return game, events, nil
}

// Discard discards the card in the given 1-based slot for a clue token
func (c *Controller) Discard(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, error) {
	lock := c.gameLock(gameID)
	lock.Lock()
	game, events, err := c.discardLocked(ctx, gameID, playerID, slot)
	lock.Unlock()
	if err != nil {
		return nil, err
	}
	c.publishAll(ctx, events)
	return game, nil
}

func (c *Controller) discardLocked(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, []model.Event, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if err := c.validateMove(game, playerID); err != nil {
		return nil, nil, err
	}
	if game.Clues >= game.Rules.ClueTokens {
		return nil, nil, model.ErrMaxClues
	}

	hand := game.HandOf(playerID)
	card, err := hand.Remove(slot)
	if err != nil {
		return nil, nil, err
	}

	game.Discards = append(game.Discards, card)
	game.Clues++

	events := []model.Event{{
		Type:      model.EventCardDiscarded,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		PlayerID:  playerID,
		Payload: model.CardDiscardedPayload{
			Player: playerID,
			Slot:   slot,
			Card:   card,
		},
	}}

	events = c.checkUnwinnable(game, events)

	events, err = c.finishMove(ctx, game, true, events)
	if err != nil {
		return nil, nil, err
	}
	return game, events, nil
}

// Clue spends a clue token to tell the target which of their cards match
func (c *Controller) Clue(ctx context.Context, gameID model.GameID, playerID, target model.PlayerID, clue model.Clue) (*model.Game, error) {
	lock := c.gameLock(gameID)
	lock.Lock()
	game, events, err := c.clueLocked(ctx, gameID, playerID, target, clue)
	lock.Unlock()
	if err != nil {
		return nil, err
	}
	c.publishAll(ctx, events)
	return game, nil
}

func (c *Controller) clueLocked(ctx context.Context, gameID model.GameID, playerID, target model.PlayerID, clue model.Clue) (*model.Game, []model.Event, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if err := c.validateMove(game, playerID); err != nil {
		return nil, nil, err
	}
	if game.Clues == 0 {
		return nil, nil, model.ErrNoCluesLeft
	}
	if target == playerID {
		return nil, nil, model.ErrSelfClue
	}
	if game.Seat(target) == -1 {
		return nil, nil, model.ErrPlayerNotFound
	}
	if !clue.Valid() {
		return nil, nil, model.ErrInvalidClue
	}

	slots, err := game.HandOf(target).ApplyClue(playerID, clue)
	if err != nil {
		return nil, nil, err
	}
	game.Clues--

	events := []model.Event{{
		Type:      model.EventClueGiven,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		PlayerID:  playerID,
		Payload: model.ClueGivenPayload{
			Giver:  playerID,
			Target: target,
			Clue:   clue,
			Slots:  slots,
		},
	}}

	events, err = c.finishMove(ctx, game, false, events)
	if err != nil {
		return nil, nil, err
	}
	return game, events, nil
}

// finishMove draws a replacement card if the move consumed one, runs the
// final-lap countdown, checks end conditions, and advances the turn.
//
// The countdown starts only after the move that empties the deck completes,
// so every player gets exactly one more move.
func (c *Controller) finishMove(ctx context.Context, game *model.Game, drew bool, events []model.Event) ([]model.Event, error) {
	finalLapMove := game.TurnsLeft != nil

	if drew && len(game.Deck) > 0 {
		card := game.Deck[0]
		game.Deck = game.Deck[1:]
		game.HandOf(game.CurrentPlayer()).Append(card)
	}

	if finalLapMove {
		*game.TurnsLeft--
	} else if len(game.Deck) == 0 && game.TurnsLeft == nil {
		lap := game.Rules.FinalLap
		if lap == 0 {
			lap = len(game.Players)
		}
		game.TurnsLeft = &lap
	}

	switch {
	case game.Bombs >= game.Rules.BombTokens:
		return c.endGame(ctx, game, model.EndReasonLost, events)
	case game.Score() == model.PerfectScore:
		return c.endGame(ctx, game, model.EndReasonWon, events)
	case game.TurnsLeft != nil && *game.TurnsLeft == 0:
		return c.endGame(ctx, game, model.EndReasonCompleted, events)
	}

	game.Turn = (game.Turn + 1) % len(game.Players)
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	return append(events, model.Event{
		Type:      model.EventTurnAdvanced,
		Timestamp: game.UpdatedAt,
		GameID:    game.ID,
		Payload: model.TurnAdvancedPayload{
			Next:      game.CurrentPlayer(),
			Clues:     game.Clues,
			Bombs:     game.Bombs,
			DeckCount: game.DeckCount(),
			FinalLap:  game.TurnsLeft != nil,
		},
	}), nil
}

// checkUnwinnable appends the one-shot unwinnable event when every copy of a
// still-needed card has hit the discard pile
func (c *Controller) checkUnwinnable(game *model.Game, events []model.Event) []model.Event {
	if game.Unwinnable {
		return events
	}
	max := game.MaxAchievableScore()
	if max >= model.PerfectScore {
		return events
	}
	game.Unwinnable = true
	c.logger.Info("game became unwinnable",
		slog.String("game_id", string(game.ID)),
		slog.Int("max_score", max),
	)
	return append(events, model.Event{
		Type:      model.EventGameUnwinnable,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		Payload:   model.GameUnwinnablePayload{MaxScore: max},
	})
}

func (c *Controller) endGame(ctx context.Context, game *model.Game, reason model.EndReason, events []model.Event) ([]model.Event, error) {
	switch reason {
	case model.EndReasonWon:
		game.Status = model.GameStatusWon
	case model.EndReasonCompleted:
		game.Status = model.GameStatusCompleted
	case model.EndReasonLost:
		game.Status = model.GameStatusLost
	case model.EndReasonAbandoned:
		game.Status = model.GameStatusAbandoned
	}
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game ended",
		slog.String("game_id", string(game.ID)),
		slog.String("reason", string(reason)),
		slog.Int("score", game.Score()),
	)
	return append(events, model.Event{
		Type:      model.EventGameEnded,
		Timestamp: game.UpdatedAt,
		GameID:    game.ID,
		Payload: model.GameEndedPayload{
			Reason: reason,
			Score:  game.Score(),
		},
	}), nil
}

// AbandonGame ends a game prematurely
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID) error {
	lock := c.gameLock(gameID)
	lock.Lock()
	events, err := c.abandonLocked(ctx, gameID)
	lock.Unlock()
	if err != nil {
		return err
	}
	c.publishAll(ctx, events)
	return nil
}

func (c *Controller) abandonLocked(ctx context.Context, gameID model.GameID) ([]model.Event, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status.Terminal() {
		return nil, nil // Already finished
	}
	return c.endGame(ctx, game, model.EndReasonAbandoned, nil)
}

// Ping nudges the active player without touching game state
func (c *Controller) Ping(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Status != model.GameStatusInProgress {
		return model.ErrGameFinished
	}
	if game.Seat(playerID) == -1 {
		return model.ErrNotInGame
	}

	c.publish(ctx, model.Event{
		Type:      model.EventPlayerPinged,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		PlayerID:  playerID,
		Payload: model.PlayerPingedPayload{
			By:     playerID,
			Active: game.CurrentPlayer(),
		},
	})
	return nil
}

// ControllerInterface defines operations of the game controller
type ControllerInterface interface {
	CreateGame(ctx context.Context, players []model.PlayerID) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	Observe(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.ObservableState, error)
	Play(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, error)
	Discard(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot int) (*model.Game, error)
	Clue(ctx context.Context, gameID model.GameID, playerID, target model.PlayerID, clue model.Clue) (*model.Game, error)
	Ping(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error
	AbandonGame(ctx context.Context, gameID model.GameID) error
}

var _ ControllerInterface = (*Controller)(nil)
