package config

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// Action names shared by the binding managers and the viewer.
const (
	ActionExit            = "exit"
	ActionHelp            = "help"
	ActionFullscreen      = "fullscreen"
	ActionNext            = "next"
	ActionPrevious        = "previous"
	ActionFit             = "fit"
	ActionFitBest         = "fit_best"
	ActionOriginal        = "original"
	ActionZoomIn          = "zoom_in"
	ActionZoomOut         = "zoom_out"
	ActionPanUp           = "pan_up"
	ActionPanDown         = "pan_down"
	ActionPanLeft         = "pan_left"
	ActionPanRight        = "pan_right"
	ActionToggleAnimation = "toggle_animation"
	ActionToggleBar       = "toggle_bar"
	ActionRefresh         = "refresh"
	ActionTrash           = "trash"
	ActionReveal          = "reveal"
	ActionSlideshow       = "play_present"
	ActionSlideshowRandom = "play_present_rnd"
	ActionToggleAntialias = "toggle_antialias"
	ActionAutoAntialias   = "automatic_antialias"
)

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{ActionExit, []string{"Escape", "KeyQ"}, []string{}, "Quit application"},
	{ActionHelp, []string{"KeyH"}, []string{}, "Show/hide help"},
	{ActionFullscreen, []string{"Enter", "F11"}, []string{}, "Toggle fullscreen"},
	{ActionNext, []string{"KeyD", "ArrowRight", "PageDown"}, []string{"Forward"}, "Next image"},
	{ActionPrevious, []string{"KeyA", "ArrowLeft", "PageUp"}, []string{"Back"}, "Previous image"},
	{ActionFit, []string{"KeyF"}, []string{}, "Fit image to window"},
	{ActionFitBest, []string{"KeyE"}, []string{}, "Fit, but never enlarge past 100%"},
	{ActionOriginal, []string{"Key1"}, []string{}, "Show at 100%"},
	{ActionZoomIn, []string{"Equal", "Shift+Equal"}, []string{}, "Zoom in"},
	{ActionZoomOut, []string{"Minus"}, []string{}, "Zoom out"},
	{ActionPanUp, []string{"ArrowUp"}, []string{}, "Pan up"},
	{ActionPanDown, []string{"ArrowDown"}, []string{}, "Pan down"},
	{ActionPanLeft, []string{"Shift+ArrowLeft"}, []string{}, "Pan left"},
	{ActionPanRight, []string{"Shift+ArrowRight"}, []string{}, "Pan right"},
	{ActionToggleAnimation, []string{"Alt+KeyA", "Alt+KeyV"}, []string{}, "Play/pause animation"},
	{ActionToggleBar, []string{"KeyI"}, []string{}, "Show/hide the bottom bar"},
	{ActionRefresh, []string{"KeyR"}, []string{}, "Re-read the current directory"},
	{ActionTrash, []string{"Delete"}, []string{}, "Move image to trash"},
	{ActionReveal, []string{"Ctrl+KeyO"}, []string{}, "Reveal image in file manager"},
	{ActionSlideshow, []string{"KeyP"}, []string{}, "Start/stop the slideshow"},
	{ActionSlideshowRandom, []string{"Alt+KeyP"}, []string{}, "Start/stop a shuffled slideshow"},
	{ActionToggleAntialias, []string{"KeyS"}, []string{}, "Toggle smoothing"},
	{ActionAutoAntialias, []string{"Alt+KeyS"}, []string{}, "Smooth automatically by zoom level"},
}

// ActionDefinitions returns the built-in action table.
func ActionDefinitions() []ActionDefinition {
	return actionDefinitions
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = action.MouseActions
	}
	return mousebindings
}
