// Package store holds the shop's process-wide warehouse.
//
// There is exactly one Warehouse per process. Shared returns it; every
// caller that asks for "a store" observes the same collection until Clear
// is called. The warehouse starts empty at day 0.
//
// # Lifecycle
//
//   - init: the shared warehouse is created empty when the package loads
//   - Add: appends an item and hands back its entry ID
//   - TickAll: advances every held item by one day via engine.Tick
//   - Clear: drops every item and rewinds the day counter to 0
//
// # Concurrency
//
// The warehouse holds no locks. Callers serialize TickAll against Add and
// Clear, the same way the engine expects a collection to be exclusively
// owned during a tick.
package store
