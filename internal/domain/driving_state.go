package domain

// DrivingState is the discrete motion requested by the driver.
type DrivingState uint8

const (
	Stopped DrivingState = iota
	Forward
	ForwardLeft
	ForwardRight
	Left
	Right
	Reverse
	ReverseLeft
	ReverseRight
)

// AllDrivingStates lists every state in declaration order.
var AllDrivingStates = [...]DrivingState{
	Stopped, Forward, ForwardLeft, ForwardRight, Left, Right, Reverse, ReverseLeft, ReverseRight,
}

var drivingStateNames = [...]string{
	Stopped:      "Stopped",
	Forward:      "Forward",
	ForwardLeft:  "ForwardLeft",
	ForwardRight: "ForwardRight",
	Left:         "Left",
	Right:        "Right",
	Reverse:      "Reverse",
	ReverseLeft:  "ReverseLeft",
	ReverseRight: "ReverseRight",
}

// String returns the state name.
func (s DrivingState) String() string {
	if int(s) < len(drivingStateNames) {
		return drivingStateNames[s]
	}
	return "Unknown"
}

// Valid reports whether s is one of the nine declared states.
func (s DrivingState) Valid() bool {
	return int(s) < len(drivingStateNames)
}
