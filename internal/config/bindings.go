package config

import (
	"fmt"
	"strings"
)

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := ValidKeyNames()

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if err := validateBindingString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			normalized := strings.ToLower(keyStr)
			if existingAction, exists := keyToAction[normalized]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[normalized] = action
		}
	}

	return nil
}

// validateMousebindings validates the mouse bindings configuration
func validateMousebindings(mousebindings map[string][]string) error {
	seen := make(map[string]string)
	validMouse := ValidMouseNames()

	for action, inputs := range mousebindings {
		for _, mouseStr := range inputs {
			if err := validateBindingString(mouseStr, validMouse); err != nil {
				return fmt.Errorf("invalid mouse input '%s' for action '%s': %v", mouseStr, action, err)
			}
			normalized := strings.ToLower(mouseStr)
			if existingAction, exists := seen[normalized]; exists {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existingAction, action)
			}
			seen[normalized] = action
		}
	}
	return nil
}

// validateBindingString validates a single "Mod+Mod+Name" string
func validateBindingString(s string, valid map[string]bool) error {
	parts := strings.Split(s, "+")
	name := parts[len(parts)-1]
	if name == "" {
		return fmt.Errorf("empty key string")
	}
	if !valid[name] {
		return fmt.Errorf("unknown key: %s", name)
	}

	for i := 0; i < len(parts)-1; i++ {
		modifier := strings.ToLower(parts[i])
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}
	return nil
}

// ValidKeyNames returns a set of valid key names
func ValidKeyNames() map[string]bool {
	keys := map[string]bool{
		// Special keys
		"Space": true, "Backspace": true, "Enter": true, "Escape": true,
		"Tab": true, "Home": true, "End": true, "PageUp": true, "PageDown": true,
		"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,
		"Delete": true,

		// Punctuation
		"Comma": true, "Period": true, "Slash": true, "Semicolon": true,
		"Quote": true, "Minus": true, "Equal": true,

		"NumpadEnter": true, "NumpadAdd": true, "NumpadSubtract": true,
	}
	for c := 'A'; c <= 'Z'; c++ {
		keys["Key"+string(c)] = true
	}
	for c := '0'; c <= '9'; c++ {
		keys["Key"+string(c)] = true
		keys["Numpad"+string(c)] = true
	}
	for i := 1; i <= 12; i++ {
		keys[fmt.Sprintf("F%d", i)] = true
	}
	return keys
}

// ValidMouseNames returns a set of valid mouse input names.
// A left double click over the picture always toggles fit, so it is not
// bindable.
func ValidMouseNames() map[string]bool {
	return map[string]bool{
		"LeftClick": true, "RightClick": true, "MiddleClick": true,
		"Back": true, "Forward": true,
		"DoubleRightClick": true, "DoubleMiddleClick": true,
		"WheelUp": true, "WheelDown": true, "WheelLeft": true, "WheelRight": true,
	}
}

// validateCommands drops commands without a program or with an input that is
// not a valid key chord.
func validateCommands(commands []Command) ([]Command, []string) {
	var kept []Command
	var warnings []string
	validKeys := ValidKeyNames()
	for i, cmd := range commands {
		if strings.TrimSpace(cmd.Program) == "" {
			warnings = append(warnings, fmt.Sprintf("command %d has no program", i))
			continue
		}
		if len(cmd.Input) == 0 {
			warnings = append(warnings, fmt.Sprintf("command %q has no input", cmd.Program))
			continue
		}
		var bad error
		for _, in := range cmd.Input {
			if err := validateBindingString(in, validKeys); err != nil {
				bad = fmt.Errorf("invalid key '%s': %v", in, err)
				break
			}
		}
		if bad != nil {
			warnings = append(warnings, fmt.Sprintf("command %q: %v", cmd.Program, bad))
			continue
		}
		kept = append(kept, cmd)
	}
	return kept, warnings
}
