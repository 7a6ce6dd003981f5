package golomb

// Optimal holds the known-optimal Golomb ruler length for n in [2, 13],
// used by tests and the CLI's --fast initial-bound mode.
var Optimal = map[int]int{
	2: 1,
	3: 3,
	4: 6,
	5: 11,
	6: 17,
	7: 25,
	8: 34,
	9: 44,
	10: 55,
	11: 72,
	12: 85,
	13: 106,
}
