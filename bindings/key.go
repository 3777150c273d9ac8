// Package bindings keeps the current and default binding paths of rebindable
// actions and persists them to a single file.
package bindings

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrStorageUnavailable = errors.New("bindings: storage unavailable")
	ErrUnsupportedVersion = errors.New("bindings: unsupported file version")
	ErrInvalidKey         = errors.New("bindings: invalid key")
)

// KeyDelimiter separates the action id and binding index of an encoded key.
const KeyDelimiter = ":"

// Key addresses one binding slot of an action.
type Key struct {
	Action string
	Index  int
}

func (k Key) String() string {
	return k.Action + KeyDelimiter + strconv.Itoa(k.Index)
}

// ParseKey decodes "{action}:{index}". The index follows the last delimiter
// so action ids may contain the delimiter themselves.
func ParseKey(s string) (Key, error) {
	i := strings.LastIndex(s, KeyDelimiter)
	if i <= 0 || i == len(s)-1 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil || idx < 0 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key{Action: s[:i], Index: idx}, nil
}

// Map is a set of binding paths keyed by slot.
type Map map[Key]string

func (m Map) Clone() Map {
	out := make(Map, len(m))
	maps.Copy(out, m)
	return out
}

// Keys returns the keys sorted by action id, then index.
func (m Map) Keys() []Key {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b Key) int {
		if c := strings.Compare(a.Action, b.Action); c != 0 {
			return c
		}
		return a.Index - b.Index
	})
	return keys
}

func (m Map) Equal(other Map) bool {
	return maps.Equal(m, other)
}
