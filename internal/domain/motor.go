package domain

// Canonical setpoints understood by the actuator controller.
const (
	SetpointForward uint16 = 0
	SetpointNeutral uint16 = 90
	SetpointReverse uint16 = 180

	// SetpointMax is the largest value a receiver accepts.
	SetpointMax uint16 = 180
)

// MotorCommand is a pair of setpoints for the left and right actuators.
type MotorCommand struct {
	Left  uint16
	Right uint16
}

// InRange reports whether both setpoints lie within [0, SetpointMax].
func (c MotorCommand) InRange() bool {
	return c.Left <= SetpointMax && c.Right <= SetpointMax
}

// motorTable holds one row per DrivingState. Turning in place drives the
// wheels in opposite senses; moving turns hold one wheel at neutral.
var motorTable = [...]MotorCommand{
	Stopped:      {SetpointNeutral, SetpointNeutral},
	Forward:      {SetpointForward, SetpointForward},
	ForwardLeft:  {SetpointNeutral, SetpointForward},
	ForwardRight: {SetpointForward, SetpointNeutral},
	Left:         {SetpointReverse, SetpointForward},
	Right:        {SetpointForward, SetpointReverse},
	Reverse:      {SetpointReverse, SetpointReverse},
	ReverseLeft:  {SetpointNeutral, SetpointReverse},
	ReverseRight: {SetpointReverse, SetpointNeutral},
}

// ToMotorValues returns the actuator setpoints for s.
// Values outside the declared states map to Stopped.
func (s DrivingState) ToMotorValues() MotorCommand {
	if !s.Valid() {
		return motorTable[Stopped]
	}
	return motorTable[s]
}
