// Package syncer reconciles the lockfile and skill directories of one
// Location into another. A sync is always one-directional: the destination
// lockfile is replaced with the source lockfile, and every skill directory the
// source lockfile names is fully replaced at the destination. Destination
// skills that the source does not name are never touched.
package syncer
