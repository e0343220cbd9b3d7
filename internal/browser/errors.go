package browser

import "fmt"

// NavigationError represents a failed page load.
type NavigationError struct {
	URL     string
	Timeout bool
	Cause   error
}

func (e *NavigationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("navigation timed out for %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Cause)
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

// InjectionError represents a failed write into a single form field. It is
// recoverable: the filler logs it and moves on to the next field.
type InjectionError struct {
	Key     string
	Message string
	Cause   error
}

func (e *InjectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("injection failed for field %s: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("injection failed for field %s: %s", e.Key, e.Message)
}

func (e *InjectionError) Unwrap() error {
	return e.Cause
}

// CrashError represents the loss of the browser process. Unlike page-level
// failures it aborts the whole batch.
type CrashError struct {
	Message string
	Cause   error
}

func (e *CrashError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("browser crash: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("browser crash: %s", e.Message)
}

func (e *CrashError) Unwrap() error {
	return e.Cause
}
