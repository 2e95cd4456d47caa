// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Setup
	OpConfigLoad   Op = "load configuration"
	OpLogOpen      Op = "open log file"
	OpTerminalOpen Op = "open terminal"

	// Image operations
	OpImageRead   Op = "read image"
	OpImageShow   Op = "show image"
	OpImageDelete Op = "delete image"

	// Page operations
	OpPagesSplit Op = "split image into pages"
	OpPagesShow  Op = "show page"
	OpPagesCycle Op = "change page"
	OpPagesCache Op = "cache pages"

	// Terminal operations
	OpTerminalClear Op = "clear images"
	OpTerminalSize  Op = "query terminal size"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error wraps err so that its message reads like Format. It returns nil
// for a nil err.
func Error(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// ErrorWith is Error with additional context.
func ErrorWith(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return Error(op, err)
	}
	return fmt.Errorf("failed to %s '%s': %w", op, context, err)
}
