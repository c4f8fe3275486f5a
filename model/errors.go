package model

import "fmt"

// TransientUpstreamError marks a retryable completion failure (5xx-class or
// transport). It stays inside the provider's retry loop; once the budget is
// spent the provider wraps the last one in FatalUpstreamError.
type TransientUpstreamError struct {
	StatusCode int
	Err        error
}

func (e *TransientUpstreamError) Error() string {
	return fmt.Sprintf("transient upstream error (status %d): %v", e.StatusCode, e.Err)
}

func (e *TransientUpstreamError) Unwrap() error { return e.Err }

// FatalUpstreamError marks a completion failure that is not worth retrying:
// retries exhausted or a non-retryable status.
type FatalUpstreamError struct {
	StatusCode int
	Err        error
}

func (e *FatalUpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream request failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *FatalUpstreamError) Unwrap() error { return e.Err }

// InvalidResponseError marks an upstream payload that carried neither a
// message nor a tool-call list.
type InvalidResponseError struct {
	Detail string
}

func (e *InvalidResponseError) Error() string {
	return "invalid upstream response: " + e.Detail
}

// ToolExecutionError marks the failure of a single tool invocation. It is
// never fatal to a turn: the orchestrator feeds the serialized failure back to
// the model instead.
type ToolExecutionError struct {
	Tool   string
	Reason string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Reason)
}
