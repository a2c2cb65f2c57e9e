package app

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nekomimist/nvpix/internal/ui"
)

// keyMapping maps binding key names to ebiten keys.
var keyMapping = buildKeyMapping()

// keyNames is the reverse of keyMapping.
var keyNames = func() map[ebiten.Key]string {
	names := make(map[ebiten.Key]string, len(keyMapping))
	for name, key := range keyMapping {
		names[key] = name
	}
	return names
}()

func buildKeyMapping() map[string]ebiten.Key {
	m := map[string]ebiten.Key{
		// Special keys
		"Space":      ebiten.KeySpace,
		"Backspace":  ebiten.KeyBackspace,
		"Enter":      ebiten.KeyEnter,
		"Escape":     ebiten.KeyEscape,
		"Tab":        ebiten.KeyTab,
		"Home":       ebiten.KeyHome,
		"End":        ebiten.KeyEnd,
		"PageUp":     ebiten.KeyPageUp,
		"PageDown":   ebiten.KeyPageDown,
		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,
		"Delete":     ebiten.KeyDelete,

		// Punctuation
		"Comma":     ebiten.KeyComma,
		"Period":    ebiten.KeyPeriod,
		"Slash":     ebiten.KeySlash,
		"Semicolon": ebiten.KeySemicolon,
		"Quote":     ebiten.KeyQuote,
		"Minus":     ebiten.KeyMinus,
		"Equal":     ebiten.KeyEqual,

		// Numpad
		"NumpadEnter":    ebiten.KeyNumpadEnter,
		"NumpadAdd":      ebiten.KeyNumpadAdd,
		"NumpadSubtract": ebiten.KeyNumpadSubtract,
	}
	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
		ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
		ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
		ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	for i, key := range letters {
		m[fmt.Sprintf("Key%c", 'A'+i)] = key
	}
	functionKeys := []ebiten.Key{
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
		ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
	}
	for i, key := range functionKeys {
		m[fmt.Sprintf("F%d", i+1)] = key
	}
	// Digits are contiguous in both rows.
	for i := 0; i < 10; i++ {
		m[fmt.Sprintf("Key%d", i)] = ebiten.Key0 + ebiten.Key(i)
		m[fmt.Sprintf("Numpad%d", i)] = ebiten.KeyNumpad0 + ebiten.Key(i)
	}
	return m
}

// mouseButtons maps ebiten buttons to widget buttons and binding names.
var mouseButtons = []struct {
	ebiten ebiten.MouseButton
	button ui.MouseButton
	name   string
}{
	{ebiten.MouseButtonLeft, ui.ButtonLeft, "LeftClick"},
	{ebiten.MouseButtonRight, ui.ButtonRight, "RightClick"},
	{ebiten.MouseButtonMiddle, ui.ButtonMiddle, "MiddleClick"},
	{ebiten.MouseButton3, ui.ButtonBack, "Back"},
	{ebiten.MouseButton4, ui.ButtonForward, "Forward"},
}

func buttonName(b ui.MouseButton) string {
	for _, m := range mouseButtons {
		if m.button == b {
			return m.name
		}
	}
	return ""
}
