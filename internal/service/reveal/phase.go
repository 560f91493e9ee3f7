package reveal

import "fmt"

// Phase is the orchestrator state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseRevealingWord
	PhaseRevealingDefinition
)

var phaseNames = [...]string{
	PhaseIdle:                "idle",
	PhaseLoading:             "loading",
	PhaseRevealingWord:       "revealing_word",
	PhaseRevealingDefinition: "revealing_definition",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// WordVisible reports whether the discovered word is on display.
func (p Phase) WordVisible() bool {
	return p == PhaseRevealingWord || p == PhaseRevealingDefinition
}
