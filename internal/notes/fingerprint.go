package notes

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the content of a note set independent of order, so a
// reload can be skipped when nothing visible changed.
func Fingerprint(notes []Note) uint64 {
	keys := make([]uint64, 0, len(notes))
	for _, n := range notes {
		d := xxhash.New()
		_, _ = d.WriteString(n.ID)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(n.Title)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(n.Description)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(n.Date)
		keys = append(keys, d.Sum64())
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	d := xxhash.New()
	var buf [8]byte
	for _, k := range keys {
		for i := range buf {
			buf[i] = byte(k >> (8 * i))
		}
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
