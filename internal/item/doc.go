// Package item defines the shop's inventory record and its closed set of
// categories.
//
// An Item is plain data: a name, a signed sell-in countdown and a quality
// score. The category is derived from the name once, in New, so the update
// rules never re-derive it by string comparison. A struct literal without a
// category stays Unclassified until Classified fills it in.
//
// # Categories
//
//   - Legendary: "Sulfuras, Hand of Ragnaros" (exact match)
//   - AgedBrie: "Aged Brie" (exact match)
//   - BackstagePasses: "Backstage passes" (exact match)
//   - Conjured: any name containing "Conjured"
//   - Regular: everything else, including the empty name
//
// The Conjured marker is matched by substring while the other three names
// must match exactly. That asymmetry is kept on purpose; see DESIGN.md.
package item
