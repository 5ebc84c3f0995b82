// Package testutil holds helpers for deterministic test runs.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs hands out "<prefix>-1", "<prefix>-2", ... in order.
//
// Scenario items that do not declare an ID get one from here, so the same
// scenario always produces the same IDs and byte-identical ledgers.
//
// Thread-safety: SequentialIDs is safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "item".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "item"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements engine.IDGenerator.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// ScriptedIDs returns the given IDs first, then falls back to SequentialIDs
// for the rest. An empty string in ids also falls back.
//
// A sequential ID that appears anywhere in the script is never handed out
// as a fallback, so every ID returned is distinct as long as the script
// itself has no repeats.
type ScriptedIDs struct {
	mu       sync.Mutex
	ids      []string
	claimed  map[string]bool
	idx      int
	fallback *SequentialIDs
}

// NewScriptedIDs creates a generator over ids.
func NewScriptedIDs(ids ...string) *ScriptedIDs {
	claimed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			claimed[id] = true
		}
	}
	return &ScriptedIDs{ids: ids, claimed: claimed, fallback: NewSequentialIDs("")}
}

// Generate returns the next scripted ID, or a sequential one.
// The sequential counter advances on every call, so an unscripted item
// gets the ID of its position unless the script already claimed it.
func (g *ScriptedIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	seq := g.fallback.Generate()
	if g.idx < len(g.ids) {
		id := g.ids[g.idx]
		g.idx++
		if id != "" {
			return id
		}
	}
	for g.claimed[seq] {
		seq = g.fallback.Generate()
	}
	return seq
}
