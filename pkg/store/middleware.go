package store

import (
	"fmt"
	"log/slog"
)

// Logger logs every action before it is dispatched and the state after.
// A nil logger uses slog.Default().
func Logger[S any](l *slog.Logger) Middleware[S] {
	return func(api API[S]) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(action any) any {
				log := l
				if log == nil {
					log = slog.Default()
				}
				log.Info("dispatching", "action", describe(action))
				result := next(action)
				log.Info("next state", "state", api.GetState())
				return result
			}
		}
	}
}

func describe(action any) string {
	switch a := action.(type) {
	case fmt.Stringer:
		return a.String()
	case string:
		return a
	}
	return fmt.Sprintf("%T %+v", action, action)
}
