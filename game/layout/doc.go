// Package layout maps the Mancala board onto screen coordinates.
//
// It provides the geometry of the two rows of pits and the two stores, a
// hit-test that turns a click position into an absolute board index, and a
// plain-text renderer used by the terminal client and the /board endpoint.
// The package reads engine state through small interfaces and never changes
// the rules.
//
//	b := layout.NewBoard()
//	played, err := b.Click(gameEngine, 160, 170)
package layout
