// Package config loads and caches Mancala rule sets.
//
// A rule set is a JSON file in the config directory; its file name without
// the .json extension is the id sessions are created with. The shipped sets
// are kalah (four stones), kalah3, kalah6 and empty_capture, which lets a
// lone last stone capture even when the pit across is empty.
//
// Format:
//
//	{
//	  "name": "Kalah",
//	  "description": "Standard Kalah",
//	  "stones_per_pit": 4,
//	  "capture_empty_opposite": false,
//	  "messages": {"turn": "Player %s to move", "victory": "Player %s wins!"}
//	}
//
// Messages are optional and fall back to built-in defaults.
//
// The default rule set is kalah.json when present, otherwise the first valid
// file in the directory, otherwise the built-in standard rules.
//
//	manager, err := config.NewManager("configs")
//	rules, err := manager.LoadConfig("kalah6")
package config
