// Package game is the kniffel rules engine.
//
// A Game owns the dice, the ordered roster and the turn state machine:
//
//	Rolling --(third roll)--> Booking --(book)--> Rolling (next player)
//	   \__________________(book)_______________/
//
// When the player about to start a turn has already filled all thirteen
// categories the game moves to Ended and rejects every further move.
//
// The engine performs no I/O and holds no locks. Callers that share a game
// between requests serialize access themselves and persist it through
// Snapshot and FromSnapshot.
package game
