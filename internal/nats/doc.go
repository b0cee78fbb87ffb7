// Package nats exposes the command loop over NATS and broadcasts device
// changes to interested subscribers.
//
// # Architecture
//
//   - Server: optional embedded NATS server so lednode runs without an
//     external broker
//   - Client: subscribes to command subjects, forwards requests to the
//     core loop, and mirrors bus events onto broadcast subjects
//
// # Subject Hierarchy
//
//	lednode.cmd.set_color      # request/reply commands (client → lednode)
//	lednode.cmd.set_off
//	lednode.cmd.set_effect
//	lednode.cmd.list_saved
//	lednode.cmd.save_color
//	lednode.cmd.delete_color
//	lednode.state              # device state after every change (lednode → clients)
//	lednode.palette            # palette saves and deletes (lednode → clients)
//	lednode.gesture            # physical button gestures (lednode → clients)
//
// Commands use core NATS request/reply; broadcasts are fire-and-forget
// (no JetStream). Replies carry the same envelope as the HTTP API.
//
// # Debugging with nats CLI
//
// Monitor all traffic:
//
//	nats sub "lednode.>"
//
// Watch state changes only:
//
//	nats sub "lednode.state" | jq .
//
// Set a color and read the reply:
//
//	nats req "lednode.cmd.set_color" '{"color":"FF8800","brightness":80}'
//
// Save the current color, then list the palette:
//
//	nats req "lednode.cmd.save_color" '{"color":"FF8800","brightness":80}'
//	nats req "lednode.cmd.list_saved" ''
//
// Turn the strip off:
//
//	nats req "lednode.cmd.set_off" ''
//
// # Message Formats
//
// Command request (lednode.cmd.set_color):
//
//	{
//	  "color": "FF8800",
//	  "brightness": 80
//	}
//
// Reply envelope (same shape for every command):
//
//	{
//	  "kind": "set_color",
//	  "error": "",
//	  "value": {"mode": "color", "color": "FF8800", "brightness": 80, "scratch": true}
//	}
//
// State broadcast (lednode.state):
//
//	{
//	  "mode": "effect",
//	  "effect": "rainbow",
//	  "source": "api",
//	  "timestamp": "2024-01-01T12:00:00Z"
//	}
package nats
