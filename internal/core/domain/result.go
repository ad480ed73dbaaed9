package domain

// Result carries an outcome the immediate caller is expected to branch on
// programmatically. Exceptional conditions travel the error channel as
// Fault values instead; the two are never interchangeable.
//
// A failure Result never carries a payload: Data stays at the zero value.
type Result[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Data    T        `json:"data,omitempty"`
}

// OK returns a successful Result wrapping data.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Message: "operation successful", Data: data}
}

// OKMsg returns a successful Result with a caller-supplied message.
func OKMsg[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Fail returns a failure Result carrying a message and optional error list.
func Fail[T any](message string, errs ...string) Result[T] {
	return Result[T]{Message: message, Errors: errs}
}
