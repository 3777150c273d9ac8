package input

// Token identifies a callback added to an Observers list. The zero Token is
// never handed out.
type Token uint64

type observer[T any] struct {
	token Token
	fn    func(T)
}

// Observers is an ordered callback list with removal by token.
type Observers[T any] struct {
	next  Token
	items []observer[T]
}

// Add appends fn and returns the token that removes it.
func (o *Observers[T]) Add(fn func(T)) Token {
	if o == nil || fn == nil {
		return 0
	}
	o.next++
	o.items = append(o.items, observer[T]{token: o.next, fn: fn})
	return o.next
}

// Remove drops the callback registered under t.
func (o *Observers[T]) Remove(t Token) bool {
	if o == nil || t == 0 {
		return false
	}
	for i, it := range o.items {
		if it.token == t {
			o.items = append(o.items[:i:i], o.items[i+1:]...)
			return true
		}
	}
	return false
}

func (o *Observers[T]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.items)
}

// Notify calls every callback in subscription order. Callbacks added or
// removed during Notify take effect on the next call.
func (o *Observers[T]) Notify(v T) {
	if o == nil || len(o.items) == 0 {
		return
	}
	snapshot := o.items
	for _, it := range snapshot {
		it.fn(v)
	}
}
