// Package rules computes legal next states of a SKATE challenge.
//
// Every operation is a pure function of the current challenge record and the
// incoming action. Operations return a models.ChallengePatch describing the
// mutation; callers apply it through the store. Nothing here touches storage.
//
// # Lifecycle
//
//	open -----(join: opponent != creator)----> active
//	active ---(letters reach "SKATE")--------> completed
//	active ---(expiresAt passes)-------------> expired
//
// completed and expired are terminal. Letters are always earned in order
// S, K, A, T, E by the player who misses.
package rules
