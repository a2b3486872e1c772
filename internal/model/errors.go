package model

import "fmt"

// ErrorKind tags the taxonomy of error from spec §7.
type ErrorKind string

const (
	ErrTransientIO   ErrorKind = "transient_io"
	ErrNotFound      ErrorKind = "not_found"
	ErrBadContent    ErrorKind = "bad_content"
	ErrProviderError ErrorKind = "provider_error"
	ErrIntegrity     ErrorKind = "integrity"
	ErrBusUnavailable ErrorKind = "bus_unavailable"
)

// Stage identifies which pipeline stage produced a failure event.
type Stage string

const (
	StageDiscovery Stage = "discovery"
	StageFetch     Stage = "fetch"
	StageParse     Stage = "parse"
	StageEmbedding Stage = "embedding"
)

// PipelineError wraps an underlying error with its kind and the stage
// that produced it, so a single failed(...) event can be emitted from
// one place regardless of where in the call stack the error occurred.
type PipelineError struct {
	Kind  ErrorKind
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage=%s: %v", e.Kind, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func NewPipelineError(kind ErrorKind, stage Stage, err error) *PipelineError {
	return &PipelineError{Kind: kind, Stage: stage, Err: err}
}

// Retryable reports whether the fetcher should attempt another try.
func (e *PipelineError) Retryable() bool {
	return e.Kind == ErrTransientIO
}
