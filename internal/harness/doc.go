// Package harness runs YAML scenarios against a real engine.
//
// Each scenario gets a fresh in-memory store, a step clock and sequential
// ids, so traces are reproducible and can be compared to golden files.
//
// # Scenario Format
//
//	name: mutual_crush
//	description: "Two adults crushing on each other become a match"
//	setup:
//	  - op: register
//	    args: { username: alice, age: 20 }
//	flow:
//	  - op: crush
//	    as: alice
//	    args: { to: bob }
//	    expect:
//	      result: { matched: false }
//	  - op: crush
//	    as: minor
//	    args: { to: alice }
//	    expect:
//	      error: UNDERAGE
//	assertions:
//	  - type: match_count
//	    count: 1
//
// Users are referred to by username. Steps that create a record (ask, post)
// may name it with ref so later steps can point at it.
//
// A step without expect must succeed. Setup steps always must succeed.
//
// # Assertion Types
//
//   - trace_count: an op ran exactly count times, optionally with a given outcome
//   - trace_order: ops first ran in the listed order
//   - match_count: number of matches, optionally only those between two users
//   - notification_count: notifications held by user, optionally of one type
//   - user_field: a user's JSON field equals a value
//   - collection_count: number of records stored in a collection
//   - audit_clean: the store passes the consistency audit without errors
package harness
