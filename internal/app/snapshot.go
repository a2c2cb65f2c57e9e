package app

import (
	"fmt"
	"time"

	"github.com/nekomimist/nvpix/internal/surface"
	"github.com/nekomimist/nvpix/internal/viewer"
)

// snapshotPoll is how often Snapshot ticks the viewer while it settles.
const snapshotPoll = 5 * time.Millisecond

// Snapshot lays v out at w x h, waits up to timeout for loading and
// re-rasterization to finish, then renders one frame with the software
// surface and writes it to path as PNG.
func Snapshot(v *viewer.Viewer, w, h int, path string, timeout time.Duration) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("snapshot size %dx%d", w, h)
	}
	engine := v.Engine()
	engine.SetSize(float64(w), float64(h))
	engine.Redraw()

	deadline := time.Now().Add(timeout)
	for {
		v.Tick(0)
		if v.Settled() {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("snapshot: viewer still %s after %v", v.State(), timeout)
		}
		time.Sleep(snapshotPoll)
	}

	sw, err := surface.NewSoftware(w, h)
	if err != nil {
		return err
	}
	defer sw.Close()
	sw.Render(engine.Redraw())
	if err := sw.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
