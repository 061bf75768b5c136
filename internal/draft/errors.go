package draft

import "errors"

var (
	// ErrSubmitDisabled is returned when Submit is called while the submit
	// action is disabled: no template chosen in create mode, or a previous
	// submission still outstanding.
	ErrSubmitDisabled = errors.New("submit disabled")

	// ErrUnknownField is returned by UpdateField for a name that is not a
	// draft field.
	ErrUnknownField = errors.New("unknown draft field")

	// ErrInvalidValue is returned by UpdateField when the value does not
	// have the field's input type.
	ErrInvalidValue = errors.New("invalid field value")
)
