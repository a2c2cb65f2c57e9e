package viewer

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// slideshow advances the viewer on a timer, in listing order or shuffled.
// The interval restarts whenever an image or error is shown.
type slideshow struct {
	running bool
	random  bool
	due     time.Time
	rng     *rand.Rand
}

// ToggleSlideshow starts a slideshow in the given order. Asking for the order
// already running stops it; asking for the other order switches.
func (v *Viewer) ToggleSlideshow(random bool) {
	s := &v.slides
	if s.running && s.random == random {
		v.stopSlideshow()
		v.ShowMessage("Slideshow stopped")
		return
	}
	if !v.hasCurrent {
		return
	}
	s.running, s.random = true, random
	s.due = v.now().Add(v.ctx.Config.SlideshowInterval())
	if random && s.rng == nil {
		s.rng = rand.New(rand.NewSource(v.now().UnixNano()))
	}
	v.logger.Debug("slideshow started",
		zap.Bool("random", random), zap.Duration("interval", v.ctx.Config.SlideshowInterval()))
	if random {
		v.ShowMessage("Shuffled slideshow")
	} else {
		v.ShowMessage("Slideshow")
	}
}

// Slideshow reports whether a slideshow runs and whether it is shuffled.
func (v *Viewer) Slideshow() (running, random bool) {
	return v.slides.running, v.slides.random
}

func (v *Viewer) stopSlideshow() {
	v.slides.running = false
}

// restartSlide gives the image just shown a full interval.
func (v *Viewer) restartSlide() {
	if v.slides.running {
		v.slides.due = v.now().Add(v.ctx.Config.SlideshowInterval())
	}
}

// advanceSlideshow moves on once the current slide has been up for the
// interval. Nothing advances while an image is still loading.
func (v *Viewer) advanceSlideshow() {
	s := &v.slides
	if !s.running || v.state == Loading {
		return
	}
	if !v.hasCurrent {
		v.stopSlideshow()
		return
	}
	if v.now().Before(s.due) {
		return
	}
	s.due = v.now().Add(v.ctx.Config.SlideshowInterval())
	if s.random {
		v.showRandom()
		return
	}
	v.Navigate(Forward)
}

// showRandom shows an image of the current listing other than the current one.
func (v *Viewer) showRandom() {
	listing, err := v.ctx.Navigator.ListingFor(v.current)
	if err != nil || listing.Len() < 2 {
		v.Navigate(Forward)
		return
	}
	i := v.slides.rng.Intn(listing.Len() - 1)
	if cur := listing.IndexOf(v.current); cur >= 0 && i >= cur {
		i++
	}
	v.show(listing.Paths[i])
}

// slideWake returns the time left on the current slide.
func (v *Viewer) slideWake() (time.Duration, bool) {
	if !v.slides.running || v.state == Loading {
		return 0, false
	}
	left := v.slides.due.Sub(v.now())
	if left < 0 {
		left = 0
	}
	return left, true
}
