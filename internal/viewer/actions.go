package viewer

import (
	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/ui"
)

// Action runs the named action and reports whether it is known.
func (v *Viewer) Action(name string) bool {
	cfg := v.ctx.Config
	ctrl := v.Viewport()
	b := v.w.picture.Bounds()
	cx, cy := b.W/2, b.H/2

	switch name {
	case config.ActionExit:
		v.exit = true
	case config.ActionHelp:
		v.w.help.SetVisible(!v.w.help.Visible())
	case config.ActionFullscreen:
		v.fullscreen = !v.fullscreen
	case config.ActionNext:
		v.Navigate(Forward)
	case config.ActionPrevious:
		v.Navigate(Backward)
	case config.ActionFit:
		ctrl.Fit()
	case config.ActionFitBest:
		ctrl.FitBest()
	case config.ActionOriginal:
		ctrl.Set1to1(cx, cy)
	case config.ActionZoomIn:
		ctrl.Zoom(cfg.ZoomStep, cx, cy)
	case config.ActionZoomOut:
		ctrl.Zoom(1/cfg.ZoomStep, cx, cy)
	case config.ActionPanUp:
		ctrl.Pan(0, cfg.PanStep)
	case config.ActionPanDown:
		ctrl.Pan(0, -cfg.PanStep)
	case config.ActionPanLeft:
		ctrl.Pan(cfg.PanStep, 0)
	case config.ActionPanRight:
		ctrl.Pan(-cfg.PanStep, 0)
	case config.ActionToggleAnimation:
		v.ToggleAnimation()
	case config.ActionToggleBar:
		v.w.bar.SetVisible(!v.w.bar.Visible())
	case config.ActionRefresh:
		v.Refresh()
	case config.ActionTrash:
		v.Trash()
	case config.ActionReveal:
		v.Reveal()
	case config.ActionSlideshow:
		v.ToggleSlideshow(false)
	case config.ActionSlideshowRandom:
		v.ToggleSlideshow(true)
	case config.ActionToggleAntialias:
		v.toggleSmoothing()
	case config.ActionAutoAntialias:
		v.w.picture.SetSmoothing(ui.SmoothAuto)
		v.ShowMessage("Smoothing: auto")
	default:
		return false
	}

	v.w.picture.Changed()
	v.syncZoom()
	return true
}

// toggleSmoothing flips what is on screen now between smooth and sharp,
// leaving automatic mode.
func (v *Viewer) toggleSmoothing() {
	if v.w.picture.Filter() == ui.FilterLinear {
		v.w.picture.SetSmoothing(ui.SmoothOff)
	} else {
		v.w.picture.SetSmoothing(ui.SmoothOn)
	}
	v.ShowMessage("Smoothing: " + v.w.picture.Smoothing.String())
}
