// Package index owns the decoded VUR package directory and the synchronizer
// that keeps its on-disk form fresh. The directory is an immutable snapshot:
// every sync decodes a whole payload and replaces the previous value, never
// patching entries in place. The synchronizer negotiates conditional fetches
// with the upstream index (If-None-Match / 304) and falls back to the cached
// copy when the network or the payload is unusable, so the tool stays usable
// offline without ever serving silently corrupted data as fresh.
package index
