// Package rcdrive drives a two-motor RC car over UDP from keyboard-style
// input.
//
// Every key press or release is classified into one of nine driving states,
// mapped to a pair of motor setpoints and sent as a single 6-byte datagram:
// a big-endian sequence number followed by the left and right setpoints.
// Nothing is acknowledged or retried; the receiver uses the sequence number
// to detect loss and reordering.
//
// # Basic Usage
//
//	cfg := rcdrive.Config{
//	    LocalAddr:  "0.0.0.0:9001",
//	    RemoteAddr: "car.local:9000",
//	}
//
//	input := rcdrive.NewScriptInput(strings.NewReader("down forward\nup forward\nquit\n"))
//	d, err := rcdrive.New(ctx, cfg, input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	if err := d.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Input
//
// Any [InputSource] can drive the car. It blocks in Next until a key
// changes or the driver quits, and reports the held keys through Snapshot.
//
// # Send Failures
//
// By default a failed send is logged and the loop keeps going; the sequence
// number is still consumed. Set [Config.FatalSendErrors] to end Run with the
// error instead.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// every command and send failure:
//
//	d, err := rcdrive.New(ctx, cfg, input, rcdrive.WithEventHandler(handler))
//
// Events are called synchronously from the control loop.
//
// # Lifecycle States
//
// A Driver starts Idle, is Driving while Run executes and ends Stopped or
// Failed. It runs at most once; Close releases the socket.
package rcdrive
