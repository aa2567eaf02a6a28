package models

import "fmt"

// KindError is a domain error carrying a machine-readable kind. Sentinels
// below are compared with errors.Is; wrap them with %w to preserve the kind
// across layers.
type KindError struct {
	Kind    string
	Message string
}

func (e *KindError) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any KindError with the same kind.
func (e *KindError) Is(target error) bool {
	t, ok := target.(*KindError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInsufficientHistory     = &KindError{Kind: "insufficient_history"}
	ErrModelUnderdetermined    = &KindError{Kind: "model_underdetermined"}
	ErrModelNonConvergent      = &KindError{Kind: "model_non_convergent"}
	ErrAllModelsFailed         = &KindError{Kind: "all_models_failed"}
	ErrInvalidTradeRequest     = &KindError{Kind: "invalid_trade_request"}
	ErrDataProviderUnavailable = &KindError{Kind: "data_provider_unavailable"}
)

// NewKindError derives a new error of the same kind with a detail message.
func NewKindError(base *KindError, format string, a ...interface{}) *KindError {
	return &KindError{Kind: base.Kind, Message: fmt.Sprintf(format, a...)}
}
