package commands

// Translate maps a validated action to the token written on the wire.
//
// Relay boards are wired active-low, so the token sent is the inverse of
// what the caller asked for. Callers only ever see ON/OFF semantics.
// IR codes go out unchanged.
func Translate(k Kind, action string) string {
	if k != KindRelay {
		return action
	}
	if action == ActionOn {
		return ActionOff
	}
	return ActionOn
}
