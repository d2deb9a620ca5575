package scaffold

import (
	"errors"
	"fmt"

	"github.com/kxue43/repo-cloner/prompt"
	"github.com/kxue43/repo-cloner/vcs"
)

type (
	Kind byte

	// StageError is what Pipeline.Run returns: the stage that failed and its cause.
	StageError struct {
		Stage Stage
		Err   error
	}
)

const (
	KindNone Kind = iota
	KindAborted
	KindInvalidRequest
	KindDestinationExists
	KindFetch
	KindFilesystem
	KindMalformedMetadata
	KindVersionControl
	KindInternal
)

var (
	ErrInvalidRequest    = errors.New("invalid project request")
	ErrUnknownTemplate   = errors.New("unknown template")
	ErrDestinationExists = vcs.ErrDestinationExists
	ErrFetch             = errors.New("failed to fetch template")
	ErrFilesystem        = errors.New("filesystem failure")
	ErrMalformedMetadata = errors.New("malformed package descriptor")
	ErrVersionControl    = errors.New("version control failure")
)

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err.Error())
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAborted:
		return "aborted"
	case KindInvalidRequest:
		return "invalid request"
	case KindDestinationExists:
		return "destination exists"
	case KindFetch:
		return "fetch"
	case KindFilesystem:
		return "filesystem"
	case KindMalformedMetadata:
		return "malformed metadata"
	case KindVersionControl:
		return "version control"
	default:
		return "internal"
	}
}

// KindOf classifies err. Order matters: a clone into an existing directory is not a fetch failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, prompt.ErrAborted):
		return KindAborted
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrDestinationExists):
		return KindDestinationExists
	case errors.Is(err, ErrFetch):
		return KindFetch
	case errors.Is(err, ErrMalformedMetadata):
		return KindMalformedMetadata
	case errors.Is(err, ErrFilesystem):
		return KindFilesystem
	case errors.Is(err, ErrVersionControl):
		return KindVersionControl
	default:
		return KindInternal
	}
}
