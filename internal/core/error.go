package core

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidMove       = "INVALID_MOVE"
	ErrInvalidSquare     = "INVALID_SQUARE"
	ErrNotHumanTurn      = "NOT_HUMAN_TURN"
	ErrGameOver          = "GAME_OVER"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidFEN        = "INVALID_FEN"
	ErrInternalError     = "INTERNAL_ERROR"
)

// RequestError is a failed request carrying the API error envelope. Status
// is the HTTP status, zero when the request never left the process.
type RequestError struct {
	Status   int
	Response ErrorResponse
}

func (e *RequestError) Error() string {
	if e.Response.Details != "" {
		return e.Response.Error + ": " + e.Response.Details
	}
	return e.Response.Error
}
