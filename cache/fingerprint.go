package cache

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies one file state (and, for derived keys, one query
// over that state). It is the cache key.
//
// Fingerprints are metadata-based: xxhash64 over (relative path, size,
// mtime in nanoseconds). This avoids re-reading content on every coherence
// probe, at the cost of missing a same-nanosecond overwrite on filesystems
// with coarse clocks. The watcher narrows that window by explicitly
// invalidating changed paths.
type Fingerprint uint64

const sep = "\x00"

// File computes the fingerprint of a file's current state.
func File(relPath string, size int64, modTime time.Time) Fingerprint {
	d := xxhash.New()
	d.WriteString(relPath)
	d.WriteString(sep)
	d.WriteString(strconv.FormatInt(size, 10))
	d.WriteString(sep)
	d.WriteString(strconv.FormatInt(modTime.UnixNano(), 10))
	return Fingerprint(d.Sum64())
}

// Query derives a result key by folding a query signature (operation name
// plus the parameters that shape its result) into a file fingerprint, so a
// single cache holds reads, reports, and per-file search matches without
// collisions.
func Query(fp Fingerprint, signature ...string) Fingerprint {
	d := xxhash.New()
	d.WriteString(strconv.FormatUint(uint64(fp), 16))
	for _, part := range signature {
		d.WriteString(sep)
		d.WriteString(part)
	}
	return Fingerprint(d.Sum64())
}
