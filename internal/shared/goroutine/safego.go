// Package goroutine launches background work that must not take the process
// down when it panics.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/fylo-cloud/fylo/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine. A panic is recovered and logged with its
// stack; onPanic, when given, runs after the log line.
func SafeGo(log logger.Interface, name string, fn func(), onPanic ...func(recovered any)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				for _, f := range onPanic {
					f(r)
				}
			}
		}()
		fn()
	}()
}
