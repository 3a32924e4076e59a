package errorsx

import "errors"

// ReasonedError wraps an error with a reason code and, optionally, the text a
// listener should see instead of the raw error.
type ReasonedError struct {
	Err     error
	Reason  ReasonCode
	Message string
}

func (e ReasonedError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return e.Err.Error()
}

func (e ReasonedError) Unwrap() error {
	return e.Err
}

// Wrap attaches a reason code to an error (no-op if err is nil or already reasoned).
func Wrap(err error, reason ReasonCode) error {
	return WrapMessage(err, reason, "")
}

// WrapMessage is Wrap plus a user-facing message. An error that already
// carries a reason keeps it; the message is only added if it had none.
func WrapMessage(err error, reason ReasonCode, message string) error {
	if err == nil {
		return nil
	}
	var re ReasonedError
	if errors.As(err, &re) {
		if re.Message != "" || message == "" {
			return err
		}
		return ReasonedError{Err: err, Reason: re.Reason, Message: message}
	}
	return ReasonedError{Err: err, Reason: reason, Message: message}
}

// Reason extracts a reason code from an error, if present.
func Reason(err error) ReasonCode {
	if err == nil {
		return ReasonUnknown
	}
	var re ReasonedError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ReasonUnknown
}

// HasReason returns true if err contains the given reason code.
func HasReason(err error, reason ReasonCode) bool {
	return Reason(err) == reason
}

// Message returns the outermost user-facing message in err's chain, or
// fallback when none was attached.
func Message(err error, fallback string) string {
	for err != nil {
		if re, ok := err.(ReasonedError); ok && re.Message != "" {
			return re.Message
		}
		err = errors.Unwrap(err)
	}
	return fallback
}
