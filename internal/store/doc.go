// Package store defines the disk-backed cache responsible for the two kinds
// of artifacts vuru keeps between invocations: the serialized package index
// (plus its ETag sidecar) and the last-reviewed template text per package.
// Writes go through temp file + rename so a crashed invocation never leaves a
// half-written index behind, and the ETag is only ever reported together with
// its paired index bytes. Higher layers (index sync, template review) depend
// on this package instead of touching the filesystem directly.
package store
