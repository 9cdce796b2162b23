package errors

import "net/http"

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Common errors
var (
	ErrUnauthorized = NewAppError(http.StatusUnauthorized, "Not authenticated")
	ErrForbidden    = NewAppError(http.StatusForbidden, "Not authorized")
	ErrRateLimit    = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded")
)

// Chat domain errors
var (
	ErrNotAMember             = NewAppError(http.StatusForbidden, "Not a member of this channel")
	ErrInvalidInvite          = NewAppError(http.StatusNotFound, "Invalid invite code")
	ErrDuplicateFriendship    = NewAppError(http.StatusConflict, "Friendship already exists")
	ErrSelfRequest            = NewAppError(http.StatusBadRequest, "Cannot send friend request to yourself")
	ErrUsernameTaken          = NewAppError(http.StatusConflict, "Username already taken")
	ErrCodeGenExhausted       = NewAppError(http.StatusInternalServerError, "Could not generate a unique invite code")
	ErrAmbiguousTarget        = NewAppError(http.StatusBadRequest, "Exactly one of channelId or recipientId must be set")
	ErrInvalidCredentials     = NewAppError(http.StatusUnauthorized, "Invalid email or password")
	ErrEmailAlreadyRegistered = NewAppError(http.StatusConflict, "Email already registered")
)
