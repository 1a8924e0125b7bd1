package exitcodes

import "errors"

// Exit codes returned by the aitoolbox CLI. The same codes double as the
// error kinds surfaced by the update checker and the model fetch workflow.
const (
	Success = 0

	// GeneralError indicates a general/unknown error
	GeneralError = 1

	// InvalidArgs indicates invalid command-line arguments or flags
	InvalidArgs = 2

	// PreconditionFailed indicates a precondition was not met
	// (e.g., a fetch is already in flight, bridge not configured)
	PreconditionFailed = 3

	// NetworkError indicates the request failed or returned a non-success status
	NetworkError = 4

	// ProcessError indicates the host bridge rejected or failed a command
	ProcessError = 5

	// ValidationError indicates invalid input (malformed config JSON, empty version)
	ValidationError = 6

	// ParseError indicates a response body could not be decoded
	ParseError = 7
)

// CodeForError returns the appropriate exit code for an error.
// Wrapped errors are searched for an *ErrorWithCode; anything else maps to
// GeneralError.
func CodeForError(err error) int {
	if err == nil {
		return Success
	}
	var ec *ErrorWithCode
	if errors.As(err, &ec) {
		return ec.Code
	}
	return GeneralError
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code int) bool {
	var ec *ErrorWithCode
	return errors.As(err, &ec) && ec.Code == code
}

// KindName returns a short label for a code. The CLI logs it on failure.
func KindName(code int) string {
	switch code {
	case Success:
		return "ok"
	case InvalidArgs:
		return "invalid_args"
	case PreconditionFailed:
		return "precondition"
	case NetworkError:
		return "network"
	case ProcessError:
		return "bridge"
	case ValidationError:
		return "validation"
	case ParseError:
		return "parse"
	default:
		return "general"
	}
}
