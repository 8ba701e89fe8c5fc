package storage

import (
	"errors"
	"fmt"

	jmerrors "github.com/jmgilman/go/errors"
)

var (
	// ErrAdapterUnavailable - ни один адаптер не доступен; initialize блокируется.
	ErrAdapterUnavailable = errors.New("no storage adapter available")
	// ErrInitialization - сбой одного из шагов инициализации; можно повторить.
	ErrInitialization = errors.New("storage initialization failed")
	// ErrAdapterOperation - сбой бэкенда при отдельной операции.
	ErrAdapterOperation = errors.New("storage adapter operation failed")
	// ErrClosed - менеджер закрыт, повторное открытие невозможно.
	ErrClosed = errors.New("storage manager closed")
	// ErrAdapterLocked - адаптер уже выбран, подмена запрещена.
	ErrAdapterLocked = errors.New("storage adapter already selected")
)

// Op - операция менеджера (метки метрик, спанов и событий ошибок).
type Op string

const (
	OpInit   Op = "initialize"
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
	OpHas    Op = "has"
	OpKeys   Op = "keys"
	OpFlush  Op = "flush"
	OpClose  Op = "close"
)

func opError(op Op, key, adapter string, err error) error {
	return jmerrors.WrapWithContext(
		fmt.Errorf("%w: %w", ErrAdapterOperation, err),
		jmerrors.CodeDatabase,
		fmt.Sprintf("storage %s", op),
		map[string]interface{}{"op": string(op), "key": key, "adapter": adapter},
	)
}

func unavailableError(causes ...error) error {
	err := ErrAdapterUnavailable
	if cause := errors.Join(causes...); cause != nil {
		err = fmt.Errorf("%w: %w", ErrAdapterUnavailable, cause)
	}
	return jmerrors.Wrap(err, jmerrors.CodeInvalidConfig, "select storage adapter")
}

// initError сохраняет классификацию вложенной ошибки (AdapterUnavailable остаётся постоянной).
func initError(err error) error {
	return jmerrors.Wrap(fmt.Errorf("%w: %w", ErrInitialization, err), jmerrors.CodeUnavailable, "storage initialize")
}

func encodeError(key string, err error) error {
	return jmerrors.Wrapf(err, jmerrors.CodeInvalidInput, "encode value for %q", key)
}

func decodeError(key string, err error) error {
	return jmerrors.Wrapf(err, jmerrors.CodeInvalidInput, "decode value for %q", key)
}

func closedError() error {
	return jmerrors.Wrap(ErrClosed, jmerrors.CodeUnavailable, "storage manager")
}
