// Package cli - операторская утилита snapshotctl поверх того же стека хранилища, что и сервер.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Gunvolt24/tenderstore/config"
	"github.com/Gunvolt24/tenderstore/internal/app"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/storage"
)

// Коды выхода процесса.
const (
	ExitSuccess      = 0
	ExitFailed       = 1
	ExitUsageError   = 2
	ExitRuntimeError = 3
)

// ErrCheckFailed - проверка выполнена, но нашла нарушения (целостность, валидация).
var ErrCheckFailed = errors.New("check failed")

// Env - зависимости команд.
type Env struct {
	Config *config.Config
	Log    ports.Logger
	// Opts - дополнительные опции менеджера (например, внедрённый адаптер).
	Opts []storage.Option
}

// NewRootCmd - корневая команда со всеми подкомандами.
func NewRootCmd(env Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "snapshotctl",
		Short:         "Operator tool for tender pricing snapshots",
		Long:          "snapshotctl inspects, exports, imports and rebuilds tender pricing snapshots in the configured storage.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		integrityCmd(env),
		exportCmd(env),
		importCmd(env),
		rebuildCmd(env),
		cleanupCmd(env),
		statsCmd(env),
		validateRequestsCmd(env),
	)
	return root
}

// Run - выполнение с аргументами; возвращает код выхода.
func Run(ctx context.Context, env Env, args []string, stderr io.Writer) int {
	root := NewRootCmd(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return ExitCode(err, stderr)
}

// ExitCode - код выхода по ошибке команды; ошибка печатается в stderr.
func ExitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrCheckFailed):
		fmt.Fprintf(stderr, "snapshotctl: %v\n", err)
		return ExitFailed
	case isUsage(err):
		fmt.Fprintf(stderr, "snapshotctl: %v\n", err)
		return ExitUsageError
	default:
		fmt.Fprintf(stderr, "snapshotctl: %v\n", err)
		return ExitRuntimeError
	}
}

type usageError struct{ error }

func (u usageError) Unwrap() error { return u.error }

func isUsage(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

// withStorage - открыть хранилище, выполнить fn, закрыть с флашем.
func withStorage(ctx context.Context, env Env, fn func(st *app.Storage) error) (retErr error) {
	st, err := app.OpenStorage(ctx, env.Config, env.Log, env.Opts...)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cErr := st.Close(context.WithoutCancel(ctx)); cErr != nil && retErr == nil {
			retErr = fmt.Errorf("close storage: %w", cErr)
		}
	}()
	return fn(st)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
