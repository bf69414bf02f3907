package hasprops

import (
	"context"
	"log/slog"
)

// Change describes one committed assignment.
type Change struct {
	Name string
	Old  any
	New  any
}

// Observer receives change events synchronously, before the mutating call
// returns.
type Observer interface {
	OnChange(inst *Instance, c Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(inst *Instance, c Change)

func (f ObserverFunc) OnChange(inst *Instance, c Change) { f(inst, c) }

type observerEntry struct {
	id int
	o  Observer
}

// Observe registers o and returns a function that unregisters it. Observers
// are called in registration order.
func (inst *Instance) Observe(o Observer) (cancel func()) {
	if o == nil {
		return func() {}
	}
	inst.nextObsID++
	id := inst.nextObsID
	inst.observers = append(inst.observers, observerEntry{id: id, o: o})
	return func() {
		for i, e := range inst.observers {
			if e.id == id {
				inst.observers = append(inst.observers[:i:i], inst.observers[i+1:]...)
				return
			}
		}
	}
}

// WithObserver registers o once construction has succeeded.
func WithObserver(o Observer) Option {
	return func(inst *Instance) { inst.Observe(o) }
}

func (inst *Instance) notify(c Change) {
	if len(inst.observers) == 0 {
		return
	}
	// snapshot: observers may cancel themselves while being called
	obs := append([]observerEntry(nil), inst.observers...)
	for _, e := range obs {
		e.o.OnChange(inst, Change{Name: c.Name, Old: cloneValue(c.Old), New: cloneValue(c.New)})
	}
}

// LogObserver returns an Observer that logs every change at debug level.
func LogObserver(l *slog.Logger) Observer {
	if l == nil {
		l = slog.Default()
	}
	return ObserverFunc(func(inst *Instance, c Change) {
		l.LogAttrs(context.Background(), slog.LevelDebug, "prop changed",
			slog.String("schema", inst.schema.name),
			slog.String("prop", c.Name),
			slog.Any("old", c.Old),
			slog.Any("new", c.New),
		)
	})
}

// WithLogger attaches a LogObserver writing to l.
func WithLogger(l *slog.Logger) Option { return WithObserver(LogObserver(l)) }
