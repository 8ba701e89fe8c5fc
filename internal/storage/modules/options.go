package modules

import (
	"errors"
	"fmt"
	"time"

	jmerrors "github.com/jmgilman/go/errors"

	"github.com/Gunvolt24/tenderstore/internal/domain"
)

type options struct {
	now clock
}

type Option func(*options)

// WithClock - подмена часов (тесты).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ErrUnreadable - ключ модуля есть в хранилище, но не читается; запись поверх него запрещена.
var ErrUnreadable = errors.New("stored module data is unreadable")

func unreadable(module, key string, err error) error {
	return jmerrors.Wrapf(fmt.Errorf("%w: %w", ErrUnreadable, err), jmerrors.CodeDatabase, "%s: key %q", module, key)
}

func notFound(kind, id string) error {
	return jmerrors.Wrapf(domain.ErrNotFound, jmerrors.CodeNotFound, "%s %q", kind, id)
}

func invalidInput(format string, args ...any) error {
	return jmerrors.New(jmerrors.CodeInvalidInput, fmt.Sprintf(format, args...))
}
