// Package engine implements the daily update rules for shop items.
//
// ARCHITECTURE:
//
// Value-returning rule:
// Next takes one item and returns the item as it stands one day later.
// It never mutates its argument and never fails. Tick applies Next across a
// collection in place, preserving order and length.
//
// Update order within one day:
//  1. Quality delta computed from the pre-decrement SellIn, applied, clamped
//  2. SellIn decremented by one (Legendary items are skipped)
//
// Extreme inputs:
// The incoming quality is clamped before the delta is added, so any int is
// accepted without overflow. SellIn saturates at math.MinInt instead of
// wrapping.
//
// Rate doubling:
// Aged Brie, Conjured and Regular items share a single rule: a signed base
// rate that doubles once SellIn <= 0. Backstage passes and Legendary items
// are the two explicit exceptions.
//
// Concurrency:
// The engine holds no locks and performs no I/O. Callers serialize ticks
// against mutation of the collection being ticked.
package engine
