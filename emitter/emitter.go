// Package emitter is a typed observer list. Subscribe hands back a
// disposer so sessions can be torn down without leaking callbacks.
package emitter

type sub[T any] struct {
	id int
	fn func(T)
}

type Emitter[T any] struct {
	nextID int
	subs   []sub[T]
}

func New[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

func (e *Emitter[T]) Subscribe(fn func(T)) func() {
	id := e.nextID
	e.nextID++
	e.subs = append(e.subs, sub[T]{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *Emitter[T]) Emit(v T) {
	// copy, so a callback disposing itself doesn't skip a neighbor
	subs := make([]sub[T], len(e.subs))
	copy(subs, e.subs)
	for _, s := range subs {
		s.fn(v)
	}
}

func (e *Emitter[T]) Len() int {
	return len(e.subs)
}
