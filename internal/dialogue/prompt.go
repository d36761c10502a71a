package dialogue

import (
	"fmt"
	"strings"
)

// defaultPersonality stands in when the entity has none recorded.
const defaultPersonality = "a mysterious stranger"

const creativeInstruction = "Respond with a single short line of spoken dialogue, " +
	"in character, with no quotation marks, stage directions, or narration."

// BuildPrompt composes the one natural-language prompt sent to the text
// model from the three context snapshots.
func BuildPrompt(entity EntityState, player PlayerState, world WorldState) string {
	personality := strings.TrimSpace(entity.Personality)
	if personality == "" {
		personality = defaultPersonality
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, %s. ", entity.Name, personality)
	fmt.Fprintf(&b, "You are speaking to %s, a level %d adventurer. ", player.Name, player.Level)
	fmt.Fprintf(&b, "You are both in %s and it is %s. ", world.Location, world.TimeOfDay)
	b.WriteString(creativeInstruction)
	return b.String()
}
