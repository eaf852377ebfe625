package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Display describes one attached monitor.
type Display struct {
	Index  int
	Bounds image.Rectangle
}

func (d Display) Label() string {
	return fmt.Sprintf("display %d (%dx%d)", d.Index, d.Bounds.Dx(), d.Bounds.Dy())
}

// Displays enumerates the attached monitors.
func Displays() []Display {
	n := screenshot.NumActiveDisplays()
	out := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Display{Index: i, Bounds: screenshot.GetDisplayBounds(i)})
	}
	return out
}

// DisplayAt returns the monitor with the given index.
func DisplayAt(index int) (Display, error) {
	n := screenshot.NumActiveDisplays()
	if index < 0 || index >= n {
		return Display{}, fmt.Errorf("display %d not found (%d attached)", index, n)
	}
	return Display{Index: index, Bounds: screenshot.GetDisplayBounds(index)}, nil
}
