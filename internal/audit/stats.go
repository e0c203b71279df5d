package audit

// Counters holds the raw event tallies a ledger accumulates.
type Counters struct {
	Allocs   uint64
	Frees    uint64
	Retains  uint64
	Releases uint64
	Moves    uint64
	Live     uint64
	MaxLive  uint64
}

// Stats is a point-in-time snapshot of a ledger, suitable for merging,
// printing and serialization.
type Stats struct {
	Allocs     uint64 `msgpack:"allocs" json:"allocs"`
	Frees      uint64 `msgpack:"frees" json:"frees"`
	Retains    uint64 `msgpack:"retains" json:"retains"`
	Releases   uint64 `msgpack:"releases" json:"releases"`
	Moves      uint64 `msgpack:"moves" json:"moves"`
	Live       uint64 `msgpack:"live" json:"live"`
	MaxLive    uint64 `msgpack:"max_live" json:"max_live"`
	Violations uint64 `msgpack:"violations" json:"violations"`
}

// Merge sums two snapshots. MaxLive is summed as well: merged snapshots
// come from independent ledgers whose peaks coexist.
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		Allocs:     s.Allocs + other.Allocs,
		Frees:      s.Frees + other.Frees,
		Retains:    s.Retains + other.Retains,
		Releases:   s.Releases + other.Releases,
		Moves:      s.Moves + other.Moves,
		Live:       s.Live + other.Live,
		MaxLive:    s.MaxLive + other.MaxLive,
		Violations: s.Violations + other.Violations,
	}
}

// Balanced reports whether every allocation was freed and every retain was
// matched by a release.
func (s Stats) Balanced() bool {
	return s.Allocs == s.Frees && s.Retains == s.Releases && s.Live == 0
}
