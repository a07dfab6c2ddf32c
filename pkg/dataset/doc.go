// Package dataset reads and writes neighbour search data for offline use.
//
// Two documents are supported, each as JSON or TOML:
//
//   - a user map, the stargazers of a repository and what each starred
//   - a result, the unordered and sorted neighbour lists
//
// A saved user map can be ranked again later with different thresholds
// without touching the network.
//
// # JSON
//
// The user map is a single object keyed by login:
//
//	{
//	  "alice": ["o/r1", "o/r2"],
//	  "bob": ["o/r2"]
//	}
//
// Results use the neighbour field names of the HTTP API:
//
//	{"unordered": [{"repo": "o/r2", "stargazers_count": 2, "stargazers": ["alice", "bob"]}], "sorted": [...]}
//
// # TOML
//
// TOML tables are unordered, so both documents use arrays of tables:
//
//	[[stargazer]]
//	login = "alice"
//	starred = ["o/r1", "o/r2"]
//
//	[[sorted]]
//	repo = "o/r2"
//	stargazers_count = 2
//	stargazers = ["alice", "bob"]
//
// Order is preserved in both formats: users keep the order in which they were
// fetched and neighbours keep their list order.
package dataset
