package rpc

import (
	"errors"
	"net/http"

	"paywow/core/identity"
	"paywow/native/bank"
	"paywow/native/dispute"
	"paywow/native/escrow"
	"paywow/native/fees"
	"paywow/native/loyalty"
	"paywow/native/payments"
)

// mapEngineError translates engine sentinel errors to an HTTP status, RPC
// error code and stable message string for the wire.
func mapEngineError(err error) (int, int, string) {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		return http.StatusForbidden, codeForbidden, "forbidden"
	case errors.Is(err, payments.ErrTransactionNotFound),
		errors.Is(err, escrow.ErrNotFound),
		errors.Is(err, dispute.ErrNotFound),
		errors.Is(err, loyalty.ErrRewardNotFound):
		return http.StatusNotFound, codeNotFound, "not_found"
	case errors.Is(err, payments.ErrDuplicateTransaction),
		errors.Is(err, escrow.ErrDuplicateID),
		errors.Is(err, dispute.ErrDuplicateID),
		errors.Is(err, dispute.ErrAlreadyResolved):
		return http.StatusConflict, codeConflict, "conflict"
	case errors.Is(err, escrow.ErrFundsLocked),
		errors.Is(err, dispute.ErrNotYetResolvable):
		return http.StatusUnprocessableEntity, codePrecondition, "precondition_failed"
	case errors.Is(err, payments.ErrInvalidAmount),
		errors.Is(err, escrow.ErrInvalidAmount),
		errors.Is(err, dispute.ErrInvalidAmount),
		errors.Is(err, fees.ErrInvalidAmount),
		errors.Is(err, fees.ErrInvalidBps),
		errors.Is(err, fees.ErrFeeExceedsPrincipal),
		errors.Is(err, bank.ErrInvalidAmount),
		errors.Is(err, bank.ErrAssetNotSupported),
		errors.Is(err, loyalty.ErrInvalidPoints):
		return http.StatusBadRequest, codeInvalidParams, "invalid_params"
	case errors.Is(err, bank.ErrInsufficientBalance),
		errors.Is(err, loyalty.ErrInsufficientPoints):
		return http.StatusUnprocessableEntity, codePrecondition, "insufficient_funds"
	default:
		return http.StatusInternalServerError, codeServerError, "internal_error"
	}
}

func writeEngineError(w http.ResponseWriter, id interface{}, err error) {
	status, code, message := mapEngineError(err)
	writeError(w, status, id, code, message, err.Error())
}
