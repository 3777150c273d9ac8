package ebinput

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/rebind/input"
)

type fakeDevice struct {
	values  map[Control]float64
	vectors map[Control]input.Vector2
	just    []Control
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		values:  make(map[Control]float64),
		vectors: make(map[Control]input.Vector2),
	}
}

func (d *fakeDevice) Update() {}

func (d *fakeDevice) Value(c Control) float64 {
	return d.values[c]
}

func (d *fakeDevice) Vector(c Control) input.Vector2 {
	if v, ok := d.vectors[c]; ok {
		return v
	}
	return input.Vector2{X: d.values[c]}
}

func (d *fakeDevice) AppendJustPressed(group string, dst []Control) []Control {
	for _, c := range d.just {
		if group == "" || c.Group() == group {
			dst = append(dst, c)
		}
	}
	return dst
}

func (d *fakeDevice) press(t *testing.T, path string) {
	t.Helper()
	c, err := ParsePath(path)
	require.NoError(t, err)
	d.values[c] = 1
	d.just = append(d.just, c)
}

func (d *fakeDevice) release(t *testing.T, path string) {
	t.Helper()
	c, err := ParsePath(path)
	require.NoError(t, err)
	delete(d.values, c)
}

func (d *fakeDevice) set(t *testing.T, path string, v float64) {
	t.Helper()
	c, err := ParsePath(path)
	require.NoError(t, err)
	d.values[c] = v
}

// tick runs one backend update and clears the just pressed controls.
func (d *fakeDevice) tick(b *Backend) {
	b.Update()
	d.just = d.just[:0]
}

func record(a *Action) *[]input.EventType {
	var events []input.EventType
	a.Subscribe(func(e input.EventType) {
		events = append(events, e)
	})
	return &events
}
