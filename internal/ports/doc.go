// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the driving core and the outside world.
// They say what the application needs without saying how it is provided.
//
// # Port Interfaces
//
//   - [InputSource]: Blocking key-change notifications plus a held-key snapshot
//   - [CommandSender]: Sequences and transmits motor commands
//   - [Transport]: Address resolution and datagram socket binding
//   - [DatagramConn]: A bound, connectionless datagram socket
//   - [DatagramSource]: Received command datagrams for the monitor
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters) implement them with the network stack, the
// terminal, script files and zerolog.
package ports
