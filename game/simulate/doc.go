// Package simulate plays seeded random Kalah games in parallel.
//
// Each game picks a uniformly random legal pit on every turn. This is a
// harness for exercising rule sets and the engine's invariants, not a
// playing strategy. Game i is seeded with Options.Seed+i, so a report does
// not depend on how games are spread over workers.
package simulate
