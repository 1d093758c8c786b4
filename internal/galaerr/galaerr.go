// Package galaerr defines the error taxonomy shared across the Galadriel
// CSS core: every error carries a kind, a human message, and the action
// the caller should take in response.
package galaerr

import "fmt"

// ErrorType classifies how severely an error should be treated.
type ErrorType string

const (
	// TypeCritical errors bubble all the way up and trigger a restart.
	TypeCritical ErrorType = "Critical"
	// TypeGeneral errors are reported and the current operation is skipped.
	TypeGeneral ErrorType = "General"
	// TypeNenyr wraps a parser-reported error; the core never produces these itself.
	TypeNenyr ErrorType = "Nenyr"
)

// Action is what the caller should do next.
type Action string

const (
	ActionRestart Action = "Restart"
	ActionNotify  Action = "Notify"
	ActionIgnore  Action = "Ignore"
	ActionExit    Action = "Exit"
	ActionFix     Action = "Fix"
)

// Kind enumerates the specific error conditions this core can raise.
// Parser, server, and terminal-specific kinds live with those
// collaborators instead.
type Kind string

const (
	KindAccessDenied             Kind = "AccessDeniedToSemanticStore"
	KindContextNameConflict      Kind = "ContextNameConflict"
	KindFileReadMaxRetries       Kind = "FileReadMaxRetriesExceeded"
	KindFileReadFailed           Kind = "FileReadFailed"
	KindConfigFileReadError      Kind = "ConfigFileReadError"
	KindConfigFileParsingError   Kind = "ConfigFileParsingError"
	KindExcludeMatcherBuildError Kind = "ExcludeMatcherBuildFailed"
	KindServerPortWriteError     Kind = "ServerPortWriteError"
	KindServerPortRemovalFailed  Kind = "ServerPortRemovalFailed"
	KindWatcherInitFailed        Kind = "AsyncWatcherInitializationFailed"
	KindOther                    Kind = "Other"
)

// Error is the concrete error value propagated through the core.
type Error struct {
	Type    ErrorType
	Kind    Kind
	Action  Action
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("TYPE: %s\nKIND: %s\nACTION: %s\nMESSAGE: %s", e.Type, e.Kind, e.Action, e.Message)
}

// New builds a general (recoverable, single-operation) error.
func New(kind Kind, action Action, message string) *Error {
	return &Error{Type: TypeGeneral, Kind: kind, Action: action, Message: message}
}

// Newf is New with message formatting.
func Newf(kind Kind, action Action, format string, args ...any) *Error {
	return New(kind, action, fmt.Sprintf(format, args...))
}

// Critical builds a critical (fatal, restart-worthy) error.
func Critical(kind Kind, action Action, message string) *Error {
	return &Error{Type: TypeCritical, Kind: kind, Action: action, Message: message}
}

// Criticalf is Critical with message formatting.
func Criticalf(kind Kind, action Action, format string, args ...any) *Error {
	return Critical(kind, action, fmt.Sprintf(format, args...))
}

// IsCritical reports whether err is a critical *Error.
func IsCritical(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Type == TypeCritical
}
