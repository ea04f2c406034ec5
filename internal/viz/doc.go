// Package viz replays estimated ground reactions in the terminal.
//
// The replay is a Bubble Tea program:
//
//   - [Replay]: steps through a run with a top view of both centres of
//     pressure and a chart of the vertical forces
//   - [Canvas]: Braille-based pixel canvas used for the top view
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first frame
//	T     - Cycle color themes
//	+/-   - Playback speed
//	?     - Show help overlay
//	[]    - Step one frame back/forward
//	{}    - Jump one second back/forward
package viz
