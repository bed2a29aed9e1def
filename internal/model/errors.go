package model

import "errors"

// Common errors used across the application. Every rejection is a pure
// function of current state plus the attempted command; none of them leave
// partial mutations behind.
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Configuration errors (fatal to game formation, not to the process)
	ErrInvalidPlayerCount = errors.New("player count must be between 2 and 5")

	// Illegal moves (recoverable, reported to the actor)
	ErrNotYourTurn     = errors.New("not this player's turn")
	ErrNoSuchSlot      = errors.New("no card at that slot index")
	ErrSelfClue        = errors.New("cannot clue your own hand")
	ErrNoMatchingCards = errors.New("clue matches no cards in the target hand")
	ErrNoCluesLeft     = errors.New("no clue tokens remaining")
	ErrMaxClues        = errors.New("cannot discard with all clue tokens available")
	ErrInvalidClue     = errors.New("clue must name one color or one rank")
	ErrGameFinished    = errors.New("game has already ended")

	// Lobby errors
	ErrGameNotFound        = errors.New("game not found")
	ErrAlreadyInGame       = errors.New("player is already in a game")
	ErrNotWaiting          = errors.New("player is not in the waiting queue")
	ErrNotInGame           = errors.New("player is not in a game")
	ErrInsufficientPlayers = errors.New("not enough waiting players to start a game")
)
