package errors

import (
	stderrors "errors"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError is reported for errors that carry no code.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"

	// LedgerInvariantViolation is raised when an order breaks its escrow invariants.
	// It is a defect, never a recoverable condition.
	LedgerInvariantViolation ErrorCode = "ledger_invariant_violation"
	// CheckedOverflow is raised when checked arithmetic overflows.
	CheckedOverflow ErrorCode = "checked_overflow"

	// UnknownSession represents a request whose session has no bound principal.
	UnknownSession ErrorCode = "unknown_session"
	// UnknownVenue represents a request for a venue without a ledger.
	UnknownVenue ErrorCode = "unknown_venue"
	// NoSuchOrder represents a request for an order the ledger does not hold.
	NoSuchOrder ErrorCode = "no_such_order"
	// OrderNotOwned represents a request on an order created by someone else.
	OrderNotOwned ErrorCode = "order_not_owned"
	// UntrustedInventory represents an inventory too far from the venue or the actor.
	UntrustedInventory ErrorCode = "untrusted_inventory"
	// InsufficientFunds represents a buy the inventory cannot pay for.
	InsufficientFunds ErrorCode = "insufficient_funds"
	// InsufficientStock represents a sell the inventory cannot supply.
	InsufficientStock ErrorCode = "insufficient_stock"
	// InvalidRequest represents a malformed request.
	InvalidRequest ErrorCode = "invalid_request"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisHGetAllError represents an error when reading a whole hash from Redis.
	RedisHGetAllError ErrorCode = "redis_hgetall_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
)

// validationCodes are the codes a server answers with a validation failure.
var validationCodes = map[string]bool{
	string(UnknownSession):     true,
	string(UnknownVenue):       true,
	string(NoSuchOrder):        true,
	string(OrderNotOwned):      true,
	string(UntrustedInventory): true,
	string(InsufficientFunds):  true,
	string(InsufficientStock):  true,
	string(InvalidRequest):     true,
}

// NewValidationError builds the ErrorDetails returned for a rejected request.
func NewValidationError(code ErrorCode, message, field string) *ErrorDetails {
	return NewErrorDetails(message, string(code), field)
}

// IsValidation reports whether err carries one of the validation codes.
func IsValidation(err error) bool {
	var details *ErrorDetails
	if !stderrors.As(err, &details) {
		return false
	}
	return validationCodes[details.Code]
}

// DetailsOf returns the ErrorDetails carried by err. Errors without details
// are reported as a general internal server error.
func DetailsOf(err error) *ErrorDetails {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details
	}
	return NewErrorDetails(err.Error(), string(GeneralInternalServerError), "")
}

// CodeOf returns the code carried by err, or an empty string.
func CodeOf(err error) string {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details.Code
	}
	return ""
}
