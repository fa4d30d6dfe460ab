package util

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-sif/segmented/errors"
)

// GetTrace produces the string representation of a stack trace
func GetTrace() string {
	var name, file string
	var line int
	var pc [16]uintptr
	var res strings.Builder
	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			fmt.Fprintf(&res, "%s\n\t%s:%d\n", name, file, line)
		}
	}
	return res.String()
}

// FormatMultiError formats multierrors for logging
func FormatMultiError(merrs []error) string {
	var msg strings.Builder
	for i := 0; i < len(merrs); i++ {
		fmt.Fprintf(&msg, "%+v\n", merrs[i])
	}
	return msg.String()
}

// SafeCommand wraps a queue command such that panics are recovered and reported as errors,
// along with the stack trace of the panic
func SafeCommand(cmd func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.CommandPanicError{Value: r, Trace: GetTrace()}
			}
		}()
		err = cmd(ctx)
		return
	}
}
