// Package preflight provides readiness checks for the filesystem paths
// bookkeep depends on.
//
// These checks run in two contexts:
//   - store.Open calls CheckDirectoryAccess on the storage root and refuses to
//     operate on a root it cannot read, write and traverse.
//   - The CLI "bookkeep status" command uses RunAll to display storage health.
package preflight
