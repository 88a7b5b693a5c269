// Package harness runs clone conformance scenarios.
//
// A scenario names a fixture graph, a clone mode, and assertions about the
// relationship between the source graph and its clone.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: copy_kitchen
//	description: "Copy mode rebuilds every special container"
//	mode: copy
//	fixture:
//	  buf: &b !buffer aa01
//	  raw: !view {buffer: *b, raw: true}
//	assertions:
//	  - type: distinct
//	    path: buf
//	  - type: same
//	    paths: [buf, raw.buffer]
//	  - type: independent
//	    path: raw
//
// The fixture uses the tags of package fixture; fixture_file may name a
// separate fixture document instead, relative to the scenario file.
//
// # Assertion Types
//
//   - same: every path in paths resolves to one reference in the clone
//   - distinct: path resolves to a new reference in the clone
//   - shared: path resolves to the source's own reference in the clone
//   - equal: source and clone (or the subgraphs at path) have equal
//     fingerprints
//   - independent: writing to the source buffer at path leaves the clone
//     unchanged
//   - order: the map or set at path iterates keys in the listed order
//   - absent: path does not resolve in the clone
//   - stats: the call statistics match expect
//
// # Deterministic Testing
//
// Every run uses sequential call ids and a discarded logger, so rendered
// clones are stable for golden comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/cycle.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
