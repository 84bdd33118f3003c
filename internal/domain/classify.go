package domain

// Classify returns the driving state for the held keys.
//
// The rules are a priority table, first match wins: Forward beats Back, and
// within a branch TurnLeft beats TurnRight. With neither Forward nor Back
// held the turn keys rotate in place.
func Classify(keys KeySnapshot) DrivingState {
	left := keys.Held(KeyTurnLeft)
	right := keys.Held(KeyTurnRight)

	switch {
	case keys.Held(KeyForward):
		if left {
			return ForwardLeft
		}
		if right {
			return ForwardRight
		}
		return Forward
	case keys.Held(KeyBack):
		if left {
			return ReverseLeft
		}
		if right {
			return ReverseRight
		}
		return Reverse
	case left:
		return Left
	case right:
		return Right
	default:
		return Stopped
	}
}
