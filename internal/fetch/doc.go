// Package fetch implements the resilient markup acquisition pipeline:
// an ordered cascade of retrieval strategies, each with its own
// transport identity, guarded by a response validator that rejects
// anti-bot challenge pages.
//
// Strategies are stateless and never panic; every failure is a value
// inside an Outcome. The Orchestrator tries strategies strictly
// sequentially, cheapest first, and short-circuits on the first
// validated body.
package fetch
