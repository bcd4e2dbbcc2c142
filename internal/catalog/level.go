package catalog

import (
	"fmt"
	"strings"
)

// Level is one step of the option priority chain.
type Level string

const (
	LevelJobPreset Level = "jobPreset"
	LevelSize      Level = "size"
	LevelPaper     Level = "paper"
	LevelOption    Level = "option"
	LevelColor     Level = "color"
	LevelColorAdd  Level = "colorAdd"
)

// PriorityChain returns the fixed level ordering, highest priority first.
// Selecting a level resets every level after it.
func PriorityChain() []Level {
	return []Level{
		LevelJobPreset,
		LevelSize,
		LevelPaper,
		LevelOption,
		LevelColor,
		LevelColorAdd,
	}
}

// Index returns the position of the level in the priority chain. It panics
// for a level outside the chain: passing one is a programming error.
func (l Level) Index() int {
	switch l {
	case LevelJobPreset:
		return 0
	case LevelSize:
		return 1
	case LevelPaper:
		return 2
	case LevelOption:
		return 3
	case LevelColor:
		return 4
	case LevelColorAdd:
		return 5
	default:
		panic(fmt.Sprintf("catalog: level %q is not part of the priority chain", string(l)))
	}
}

// Valid reports whether the level belongs to the priority chain.
func (l Level) Valid() bool {
	for _, candidate := range PriorityChain() {
		if candidate == l {
			return true
		}
	}
	return false
}

// LevelsAfter returns the levels strictly after l, in chain order.
func LevelsAfter(l Level) []Level {
	chain := PriorityChain()
	return chain[l.Index()+1:]
}

// ParseLevel maps a user supplied name onto a Level. The selection field
// names used by catalog exports (sizeNo, paperNo, ...) are accepted too.
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "jobpreset", "jobpresetno", "print", "printmethod":
		return LevelJobPreset, nil
	case "size", "sizeno":
		return LevelSize, nil
	case "paper", "paperno":
		return LevelPaper, nil
	case "option", "optno":
		return LevelOption, nil
	case "color", "colorno":
		return LevelColor, nil
	case "coloradd", "colornoadd":
		return LevelColorAdd, nil
	default:
		return "", fmt.Errorf("unknown option level %q", value)
	}
}
