package viewer

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/ui"
	"github.com/nekomimist/nvpix/internal/viewport"
)

// Color constants
var (
	colorWhite  = color.RGBA{255, 255, 255, 255}
	colorYellow = color.RGBA{255, 255, 0, 255}
	colorCyan   = color.RGBA{0, 255, 255, 255}

	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

// widgets is the tree shown by the viewer: the picture fills the window and
// the bottom bar, status line, message and help float above it.
type widgets struct {
	root    *ui.Container
	picture *ui.Picture
	bar     *ui.Container
	prev    *ui.Button
	next    *ui.Button
	play    *ui.Button
	name    *ui.Label
	zoom    *ui.Slider
	status  *ui.Label
	message *ui.Label
	help    *ui.Label
}

func (v *Viewer) buildWidgets(cfg config.Config) *widgets {
	w := &widgets{}

	w.picture = ui.NewPicture(viewport.New(cfg.MinScale, cfg.MaxScale))
	w.picture.ZoomStep = cfg.ZoomStep
	w.picture.DragThreshold = float64(cfg.Mouse.DragThreshold)
	w.picture.WheelInverted = cfg.Mouse.WheelInverted
	w.picture.OnTransform = v.syncZoom

	w.prev = ui.NewButton("<", func() { v.Navigate(Backward) })
	w.next = ui.NewButton(">", func() { v.Navigate(Forward) })
	w.play = ui.NewButton("Pause", v.ToggleAnimation)
	w.play.SetVisible(false)
	w.name = ui.NewLabel("")
	lo, hi := w.picture.Viewport().Limits()
	w.zoom = ui.NewSlider(lo, hi, 1, v.zoomTo)
	w.zoom.Log = true

	w.bar = ui.NewContainer(ui.Horizontal)
	w.bar.Padding = 4
	w.bar.Spacing = 6
	w.bar.Background = bgColorMedium
	w.bar.Add(w.prev).AddFlex(w.name, 1).Add(w.play).Add(w.zoom).Add(w.next)
	w.bar.SetVisible(cfg.ShowBar)

	w.status = ui.NewLabel("")
	w.status.Background = bgColorLight
	w.status.Color = colorCyan
	w.status.SetVisible(false)

	w.message = ui.NewLabel("")
	w.message.Background = bgColorMedium
	w.message.Color = colorYellow
	w.message.Centered = true
	w.message.SetVisible(false)

	w.help = ui.NewLabel(helpText(cfg, v.ctx.ConfigStatus))
	w.help.Background = bgColorDark
	w.help.Color = colorWhite
	w.help.Padding = 12
	w.help.SetVisible(false)

	w.root = ui.NewContainer(ui.Overlay)
	w.root.
		AddAligned(w.picture, ui.AlignFill).
		AddAligned(w.status, ui.AlignCenter).
		AddAligned(w.message, ui.AlignTop).
		AddAligned(w.help, ui.AlignCenter).
		AddAligned(w.bar, ui.AlignBottom)
	return w
}

// helpText lists every action with its key bindings.
func helpText(cfg config.Config, status string) string {
	var b strings.Builder
	b.WriteString("nvpix - keys\n\n")
	for _, def := range config.ActionDefinitions() {
		keys := cfg.Keybindings[def.Name]
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%-28s %s\n", def.Description, strings.Join(keys, ", "))
	}

	var mouse []string
	for action, buttons := range cfg.Mousebindings {
		if len(buttons) > 0 {
			mouse = append(mouse, fmt.Sprintf("%-28s %s", action, strings.Join(buttons, ", ")))
		}
	}
	if len(mouse) > 0 {
		sort.Strings(mouse)
		b.WriteString("\nMouse\n")
		b.WriteString(strings.Join(mouse, "\n"))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nConfig: %s (%s)", status, config.Path())
	return b.String()
}
