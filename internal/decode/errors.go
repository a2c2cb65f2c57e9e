package decode

import (
	"errors"
	"fmt"
)

// Kind classifies why an image could not be shown.
type Kind int

const (
	KindUnsupported Kind = iota + 1
	KindMalformed
	KindInternal
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindMalformed:
		return "malformed"
	case KindInternal:
		return "internal"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

var (
	ErrUnsupported = errors.New("unsupported image format")
	ErrMalformed   = errors.New("malformed image data")
	ErrInternal    = errors.New("internal decoder fault")
	// ErrTooLarge is wrapped by decoders refusing an image over Options.MaxBytes.
	// Registry reports it as KindMalformed.
	ErrTooLarge = errors.New("decoded image too large")
)

// checkSize fails when frames of w by h RGBA pixels would exceed max bytes.
func checkSize(w, h, frames int, max int64) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	need := int64(w) * int64(h) * 4
	if frames > 1 && need > max/int64(frames) {
		return fmt.Errorf("%w: %d frames of %dx%d", ErrTooLarge, frames, w, h)
	}
	if need > max {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	return nil
}

// Error is returned for every failed decode request.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnsupported:
		return e.Kind == KindUnsupported
	case ErrMalformed:
		return e.Kind == KindMalformed
	case ErrInternal:
		return e.Kind == KindInternal
	}
	return false
}

// KindOf returns the kind of err; errors not produced by this package count as internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
