package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fireworks-games/hanabot/internal/model"
	"github.com/fireworks-games/hanabot/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeNoSuchSlot          = "NO_SUCH_SLOT"
	CodeSelfClue            = "SELF_CLUE"
	CodeNoMatchingCards     = "NO_MATCHING_CARDS"
	CodeNoCluesLeft         = "NO_CLUES_LEFT"
	CodeMaxClues            = "MAX_CLUES"
	CodeInvalidClue         = "INVALID_CLUE"
	CodeGameFinished        = "GAME_FINISHED"
	CodeInvalidPlayerCount  = "INVALID_PLAYER_COUNT"
	CodeAlreadyInGame       = "ALREADY_IN_GAME"
	CodeNotWaiting          = "NOT_WAITING"
	CodeNotInGame           = "NOT_IN_GAME"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Player and game lookups
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}

	// Illegal moves
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrNoSuchSlot):
		return &httpError{http.StatusBadRequest, APIError{CodeNoSuchSlot, "No card at that slot"}}
	case errors.Is(err, model.ErrSelfClue):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfClue, "Cannot clue your own hand"}}
	case errors.Is(err, model.ErrNoMatchingCards):
		return &httpError{http.StatusConflict, APIError{CodeNoMatchingCards, "Clue matches no cards in the target hand"}}
	case errors.Is(err, model.ErrNoCluesLeft):
		return &httpError{http.StatusConflict, APIError{CodeNoCluesLeft, "No clue tokens remaining"}}
	case errors.Is(err, model.ErrMaxClues):
		return &httpError{http.StatusConflict, APIError{CodeMaxClues, "Cannot discard with all clue tokens available"}}
	case errors.Is(err, model.ErrInvalidClue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidClue, "Clue must name one color or one rank"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game has already ended"}}

	// Lobby
	case errors.Is(err, model.ErrInvalidPlayerCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerCount, "Games seat 2 to 5 players"}}
	case errors.Is(err, model.ErrAlreadyInGame):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInGame, "Already playing in a game"}}
	case errors.Is(err, model.ErrNotWaiting):
		return &httpError{http.StatusConflict, APIError{CodeNotWaiting, "Join the lobby before starting a game"}}
	case errors.Is(err, model.ErrNotInGame):
		return &httpError{http.StatusNotFound, APIError{CodeNotInGame, "Not playing in any game"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough waiting players"}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrPasswordTooShort):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
