// Package harness runs shop simulations described in YAML scenario files.
//
// A scenario stocks the warehouse, advances it a number of days, records
// every day to an in-memory ledger and checks assertions against what was
// recorded.
//
// # Scenario Format
//
//	name: backstage_passes
//	description: "Passes climb towards the concert and collapse after it"
//	catalog: ../catalogs/fixture.cue   # optional, relative to the scenario file
//	items:                              # optional, added after the catalog
//	  - id: pass
//	    name: "Backstage passes"
//	    sell_in: 11
//	    quality: 20
//	days: 12
//	assertions:
//	  - type: state_at
//	    item: pass
//	    day: 1
//	    expect: { sell_in: 10, quality: 21 }
//	  - type: final_state
//	    item: pass
//	    expect: { quality: 0 }
//	  - type: quality_bounds
//
// # Assertion Types
//
//   - final_state: An item's sell_in/quality after the last day (subset match)
//   - state_at: An item's sell_in/quality at the end of a given day
//   - quality_bounds: Every non-legendary quality within [0, 50] after day 0
//   - item_count: The warehouse holds exactly count items
//   - unchanged: An item looks the same on every recorded day
//
// # Deterministic Testing
//
// Items without an id are named item-1, item-2, ... by position, so the
// same scenario always yields the same ledger and the same day report.
//
// Scenarios use the process-wide warehouse. Run clears it before and after
// each scenario, so scenarios must run one at a time.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/conjured.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
