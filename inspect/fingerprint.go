package inspect

import "github.com/cespare/xxhash/v2"

// Fingerprint hashes the snapshot's dependency and ownership edges. Two
// snapshots with the same labelled topology hash the same, whatever order the
// walk found things in.
func Fingerprint(s *Snapshot) uint64 {
	d := xxhash.New()
	for _, e := range s.SortedEdges() {
		d.WriteString(e.From)
		d.WriteString("\x00")
		d.WriteString(e.To)
		d.WriteString("\n")
	}
	d.WriteString("\x01")
	for _, e := range s.SortedOwners() {
		d.WriteString(e.From)
		d.WriteString("\x00")
		d.WriteString(e.To)
		d.WriteString("\n")
	}
	return d.Sum64()
}
