package llm

import "fmt"

// ConfigError means the client cannot be constructed at all. It is only
// returned at startup, never from a request path.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm: missing configuration: %s", e.Field)
}

// TransportError wraps a failure to reach the completion endpoint at all
// (timeout, DNS, connection reset). Resubmitting the operation may succeed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError carries a non-success response from the completion endpoint,
// or a success response missing the completion content.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm: upstream %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm: upstream: %s", e.Message)
}

// MalformedResponseError means the reply was still not valid JSON after the
// single repair attempt.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("llm: response is not valid JSON after repair: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
