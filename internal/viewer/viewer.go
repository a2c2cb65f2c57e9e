package viewer

import (
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/anim"
	"github.com/nekomimist/nvpix/internal/decode"
	"github.com/nekomimist/nvpix/internal/navigator"
	"github.com/nekomimist/nvpix/internal/ui"
	"github.com/nekomimist/nvpix/internal/viewport"
	"github.com/nekomimist/nvpix/internal/worker"
)

// Viewer is the navigation state machine. Every method must be called from the
// UI thread; decode results reach it only through Tick.
type Viewer struct {
	ctx     *Context
	desktop Desktop
	logger  *zap.Logger
	now     func() time.Time

	state      State
	generation uint64
	current    navigator.ImagePath
	hasCurrent bool
	dir        string
	seq        *decode.FrameSequence
	clock      *anim.Clock
	lastErr    error
	// rasterHint is the scale hint of the vector re-rasterization in flight,
	// zero when there is none.
	rasterHint float64
	// rasterAsked is the last hint requested for the current image. A
	// decoder may rasterize below the hint, so it is not requested again.
	rasterAsked float64

	slides slideshow

	messageUntil time.Time
	fullscreen   bool
	exit         bool

	// OnStateChange runs after every state transition.
	OnStateChange func(from, to State)

	w      *widgets
	engine *ui.Engine
}

// New creates an idle viewer. desktop may be nil, which disables trash and
// reveal.
func New(ctx *Context, desktop Desktop) *Viewer {
	v := &Viewer{
		ctx:     ctx,
		desktop: desktop,
		logger:  ctx.Logger.Named("viewer"),
		now:     time.Now,
		state:   Idle,
	}
	v.w = v.buildWidgets(ctx.Config)
	v.engine = ui.NewEngine(v.w.root)
	return v
}

// Settled reports whether no load, decode or re-rasterization is outstanding.
func (v *Viewer) Settled() bool {
	return v.state != Loading && !v.ctx.Pool.Busy() && v.rasterHint == 0
}

// Engine returns the widget engine drawing the viewer.
func (v *Viewer) Engine() *ui.Engine { return v.engine }

func (v *Viewer) State() State { return v.state }

// LastError returns the error behind the Error state, or nil.
func (v *Viewer) LastError() error { return v.lastErr }

// Current returns the image being shown or loaded.
func (v *Viewer) Current() (navigator.ImagePath, bool) { return v.current, v.hasCurrent }

// Generation returns the counter of the current navigation target.
func (v *Viewer) Generation() uint64 { return v.generation }

// Sequence returns the frames on screen, nil unless Displaying.
func (v *Viewer) Sequence() *decode.FrameSequence { return v.seq }

// Clock returns the animation clock of the shown sequence.
func (v *Viewer) Clock() *anim.Clock { return v.clock }

// Viewport returns the controller of the picture.
func (v *Viewer) Viewport() *viewport.Controller { return v.w.picture.Viewport() }

// ExitRequested reports whether the exit action ran.
func (v *Viewer) ExitRequested() bool { return v.exit }

// Fullscreen reports the fullscreen setting toggled by the fullscreen action.
func (v *Viewer) Fullscreen() bool { return v.fullscreen }

// SetFullscreen records the window state without toggling it.
func (v *Viewer) SetFullscreen(f bool) { v.fullscreen = f }

// Message returns the overlay message while it is visible.
func (v *Viewer) Message() string {
	if !v.w.message.Visible() {
		return ""
	}
	return v.w.message.Text()
}

// Open shows path. A directory or archive shows its first image; a file is
// shown directly and its directory becomes the listing to navigate.
func (v *Viewer) Open(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		ioErr := &navigator.IoError{Path: path, Err: err}
		v.fail(navigator.FilePath(path), ioErr)
		return ioErr
	}
	if !info.IsDir() && !navigator.IsArchiveExt(path) {
		v.dir = navigator.FilePath(path).Container()
		v.show(navigator.FilePath(path))
		return nil
	}

	v.dir = path
	listing, err := v.ctx.Navigator.List(path)
	if err != nil {
		v.fail(navigator.FilePath(path), err)
		return err
	}
	if listing.Len() == 0 {
		v.empty(path)
		return nil
	}
	v.show(listing.Paths[0])
	return nil
}

// Navigate moves to the next or previous image of the current listing. It
// reports whether a new navigation started.
func (v *Viewer) Navigate(dir Direction) bool {
	if !v.hasCurrent {
		return false
	}
	var p navigator.ImagePath
	var ok bool
	if dir == Backward {
		p, ok = v.ctx.Navigator.Previous(v.current)
	} else {
		p, ok = v.ctx.Navigator.Next(v.current)
	}
	if !ok {
		return false
	}
	if p.Key() == v.current.Key() && v.state == Displaying {
		return false
	}
	v.show(p)
	return true
}

// show starts a navigation to p under a new generation.
func (v *Viewer) show(p navigator.ImagePath) {
	v.generation++
	v.current, v.hasCurrent = p, true
	v.lastErr = nil
	v.rasterHint, v.rasterAsked = 0, 0
	v.ctx.Pool.Supersede(v.generation)
	v.ctx.Cache.Pin(p)
	v.setState(Loading)
	v.updateName()

	if seq, ok := v.ctx.Cache.GetOrRequest(p, v.generation, v.ctx.Pool); ok {
		v.display(seq)
		return
	}
	v.setStatus("Loading " + p.Name() + "...")
}

func (v *Viewer) display(seq *decode.FrameSequence) {
	v.seq = seq
	v.clock = newClock(seq)
	v.w.picture.SetFrame(seq.Frames[0].Image, true)
	v.setStatus("")
	v.setState(Displaying)
	v.updateControls()
	v.syncZoom()
	v.restartSlide()
	v.prefetch()
}

// newClock returns the animation clock of seq, or nil for a still image.
func newClock(seq *decode.FrameSequence) *anim.Clock {
	if seq.Len() < 2 {
		return nil
	}
	return anim.New(seq)
}

// prefetch asks for the neighbours of the current image at low priority.
func (v *Viewer) prefetch() {
	if !v.ctx.Config.Prefetch {
		return
	}
	for _, step := range []func(navigator.ImagePath) (navigator.ImagePath, bool){
		v.ctx.Navigator.Next,
		v.ctx.Navigator.Previous,
	} {
		p, ok := step(v.current)
		if ok && p.Key() != v.current.Key() {
			v.ctx.Cache.Prefetch(p, v.generation, v.ctx.Pool)
		}
	}
}

// fail shows the placeholder for p after err.
func (v *Viewer) fail(p navigator.ImagePath, err error) {
	v.generation++
	v.ctx.Pool.Supersede(v.generation)
	v.current, v.hasCurrent = p, true
	v.setError(err)
}

func (v *Viewer) setError(err error) {
	kind := errorKind(err)
	v.lastErr = err
	v.seq, v.clock = nil, nil
	v.rasterHint = 0
	v.logger.Warn("cannot display image",
		zap.String("path", v.current.Path),
		zap.String("kind", kind),
		zap.Error(err))

	v.w.picture.SetFrame(decode.Placeholder(0, 0, v.current.Name(), kind+": "+err.Error()), true)
	v.setStatus("")
	v.updateName()
	v.setState(Error)
	v.updateControls()
	v.restartSlide()
}

// empty shows that dir holds nothing to display.
func (v *Viewer) empty(dir string) {
	v.generation++
	v.ctx.Pool.Supersede(v.generation)
	v.ctx.Cache.Unpin()
	v.current, v.hasCurrent = navigator.ImagePath{}, false
	v.seq, v.clock = nil, nil
	v.lastErr = nil
	v.w.picture.SetFrame(nil, false)
	v.w.name.SetText("")
	v.setStatus("No images in " + dir)
	v.stopSlideshow()
	v.setState(Idle)
	v.updateControls()
}

func (v *Viewer) setState(s State) {
	from := v.state
	v.state = s
	if from == s {
		return
	}
	v.logger.Debug("state changed",
		zap.Stringer("from", from), zap.Stringer("to", s),
		zap.Uint64("generation", v.generation))
	if v.OnStateChange != nil {
		v.OnStateChange(from, s)
	}
}

// Tick drains decode results without blocking, advances the animation by dt,
// starts a sharper rasterization of vector images zoomed past the threshold
// and moves a running slideshow on. It reports whether the engine needs a redraw.
func (v *Viewer) Tick(dt time.Duration) bool {
	v.drain()
	if v.clock != nil {
		if v.clock.Advance(dt) {
			v.w.picture.SetFrame(v.seq.Frames[v.clock.Index()].Image, false)
		}
		v.updateControls()
	}
	v.rerasterize()
	v.advanceSlideshow()
	if v.w.message.Visible() && !v.now().Before(v.messageUntil) {
		v.w.message.SetVisible(false)
	}
	return v.engine.NeedsRedraw()
}

// NextWake returns how long the UI thread may sleep before Tick has work.
func (v *Viewer) NextWake() (time.Duration, bool) {
	if v.ctx.Pool.Busy() {
		return busyPoll, true
	}
	var wake time.Duration
	ok := false
	if v.clock != nil {
		wake, ok = v.clock.NextDeadline()
	}
	if left, slide := v.slideWake(); slide && (!ok || left < wake) {
		wake, ok = left, true
	}
	if v.w.message.Visible() {
		left := v.messageUntil.Sub(v.now())
		if left < 0 {
			left = 0
		}
		if !ok || left < wake {
			wake, ok = left, true
		}
	}
	return wake, ok
}

func (v *Viewer) drain() {
	for {
		select {
		case res, ok := <-v.ctx.Pool.Results():
			if !ok {
				return
			}
			v.handle(res)
		default:
			return
		}
	}
}

func (v *Viewer) handle(res worker.Result) {
	if res.Generation < v.generation {
		v.ctx.Metrics.StaleResult()
		v.logger.Debug("discarding stale result",
			zap.String("path", res.Path.Path),
			zap.Uint64("generation", res.Generation),
			zap.Uint64("current", v.generation))
		return
	}
	if res.Prefetch {
		if res.Err == nil {
			v.ctx.Cache.Insert(res.Path, res.Generation, res.Seq)
		}
		return
	}
	if !v.hasCurrent || res.Path.Key() != v.current.Key() {
		return
	}

	if v.rasterHint > 0 && res.ScaleHint == v.rasterHint && v.state == Displaying {
		v.rasterHint = 0
		if res.Err != nil {
			v.logger.Warn("vector re-rasterization failed",
				zap.String("path", res.Path.Path), zap.Error(res.Err))
			return
		}
		v.applyRaster(res.Seq)
		return
	}
	if v.state != Loading {
		return
	}
	if res.Err != nil {
		v.setError(res.Err)
		return
	}
	v.ctx.Cache.Insert(res.Path, res.Generation, res.Seq)
	v.display(res.Seq)
}

// rerasterize requests the vector image at the current zoom once it has
// been magnified past the configured threshold.
func (v *Viewer) rerasterize() {
	if v.state != Displaying || v.rasterHint > 0 || v.seq == nil {
		return
	}
	ctrl := v.Viewport()
	if !decode.NeedsRerasterize(v.seq, ctrl.PixelScale(), v.ctx.Config.VectorRequalityThreshold) {
		return
	}
	hint := v.rasterLimit(ctrl.Scale())
	if hint <= v.seq.RasterScale || hint == v.rasterAsked {
		return
	}
	if v.ctx.Pool.Submit(worker.Request{
		Path:       v.current,
		Generation: v.generation,
		ScaleHint:  hint,
		Priority:   worker.PriorityNormal,
	}) {
		v.rasterHint, v.rasterAsked = hint, hint
		v.logger.Debug("re-rasterizing vector image",
			zap.String("path", v.current.Path), zap.Float64("scale", hint))
	}
}

// rasterLimit caps a requested raster scale at the zoom limit and at the
// largest raster the cache budget can hold.
func (v *Viewer) rasterLimit(scale float64) float64 {
	cfg := v.ctx.Config
	scale = math.Min(scale, cfg.MaxScale)
	size := v.seq.Size()
	if v.seq.RasterScale > 0 && size.X > 0 && size.Y > 0 {
		w := float64(size.X) / v.seq.RasterScale
		h := float64(size.Y) / v.seq.RasterScale
		scale = math.Min(scale, math.Sqrt(float64(cfg.CacheBudget())/(4*w*h)))
	}
	return scale
}

// applyRaster swaps in a sharper rasterization without moving what is on
// screen.
func (v *Viewer) applyRaster(seq *decode.FrameSequence) {
	factor := 1.0
	if v.seq != nil && v.seq.RasterScale > 0 {
		factor = seq.RasterScale / v.seq.RasterScale
	}
	v.seq = seq
	v.clock = newClock(seq)
	v.ctx.Cache.Insert(v.current, v.generation, seq)

	size := seq.Size()
	v.Viewport().Rescale(float64(size.X), float64(size.Y), factor)
	v.w.picture.SetFrame(seq.Frames[0].Image, false)
	v.w.picture.Changed()
	v.syncZoom()
}

// ToggleAnimation pauses or resumes the shown animation.
func (v *Viewer) ToggleAnimation() {
	if v.clock == nil || v.clock.Len() < 2 {
		return
	}
	if v.clock.Toggle() {
		v.w.picture.SetFrame(v.seq.Frames[0].Image, false)
	}
	v.updateControls()
}

// Refresh re-reads the current directory and reloads the shown image. When
// the image is gone its nearest neighbour is shown instead.
func (v *Viewer) Refresh() {
	dir := v.dir
	if v.hasCurrent {
		dir = v.current.Container()
	}
	if dir == "" {
		return
	}
	v.ctx.Navigator.Refresh(dir)
	listing, err := v.ctx.Navigator.List(dir)
	if err != nil {
		v.fail(navigator.FilePath(dir), err)
		return
	}
	if listing.Len() == 0 {
		v.empty(dir)
		return
	}
	if !v.hasCurrent {
		v.show(listing.Paths[0])
		return
	}

	target := v.current
	if listing.IndexOf(target) < 0 {
		if p, ok := listing.Next(target); ok {
			target = p
		}
	}
	v.ctx.Cache.Remove(target)
	v.show(target)
}

// Trash moves the shown image to the trash and continues with the next one.
func (v *Viewer) Trash() error {
	if !v.hasCurrent || v.desktop == nil {
		return nil
	}
	p := v.current
	if p.InArchive() {
		err := fmt.Errorf("cannot trash %s: inside archive %s", p.EntryPath, p.ArchivePath)
		v.ShowMessage("Cannot trash an archive entry")
		return err
	}
	next, ok := v.ctx.Navigator.Next(p)
	if err := v.desktop.MoveToTrash(p); err != nil {
		v.logger.Warn("move to trash failed", zap.String("path", p.Path), zap.Error(err))
		v.ShowMessage("Trash failed: " + err.Error())
		return err
	}
	v.logger.Info("moved to trash", zap.String("path", p.Path))

	v.ctx.Navigator.Remove(p)
	v.ctx.Cache.Unpin()
	v.ctx.Cache.Remove(p)
	v.ShowMessage("Moved to trash: " + p.Name())
	if !ok || next.Key() == p.Key() {
		v.empty(p.Container())
		return nil
	}
	v.show(next)
	return nil
}

// Reveal opens the file manager at the shown image.
func (v *Viewer) Reveal() error {
	if !v.hasCurrent || v.desktop == nil {
		return nil
	}
	if err := v.desktop.Reveal(v.current); err != nil {
		v.logger.Warn("reveal failed", zap.String("path", v.current.Path), zap.Error(err))
		v.ShowMessage("Reveal failed: " + err.Error())
		return err
	}
	return nil
}

// ShowMessage displays msg above the picture for a short while.
func (v *Viewer) ShowMessage(msg string) {
	v.w.message.SetText(msg)
	v.w.message.SetVisible(true)
	v.messageUntil = v.now().Add(overlayMessageDuration)
}

func (v *Viewer) setStatus(s string) {
	v.w.status.SetText(s)
	v.w.status.SetVisible(s != "")
}

func (v *Viewer) updateName() {
	if !v.hasCurrent {
		v.w.name.SetText("")
		return
	}
	text := v.current.Name()
	if listing, err := v.ctx.Navigator.ListingFor(v.current); err == nil {
		if i := listing.IndexOf(v.current); i >= 0 {
			text = fmt.Sprintf("%s  [%d/%d]", text, i+1, listing.Len())
		}
	}
	v.w.name.SetText(text)
}

func (v *Viewer) updateControls() {
	animated := v.clock != nil && v.clock.Len() > 1
	v.w.play.SetVisible(animated)
	if animated && v.clock.State() == anim.Playing {
		v.w.play.SetLabel("Pause")
	} else {
		v.w.play.SetLabel("Play")
	}
}

// syncZoom moves the zoom slider to the viewport scale.
func (v *Viewer) syncZoom() {
	v.w.zoom.SetValue(v.Viewport().Scale())
}

// zoomTo applies a scale picked on the zoom slider around the view centre.
func (v *Viewer) zoomTo(scale float64) {
	b := v.w.picture.Bounds()
	v.Viewport().ZoomTo(scale, b.W/2, b.H/2)
	v.w.picture.Changed()
}
