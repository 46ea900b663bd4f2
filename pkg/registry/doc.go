// Package registry implements a content-registry backend: user accounts and
// the lifecycle of user-owned content items, each of which is either a text
// post or a single file upload.
//
// The central type is Service, which enforces the variant rules (a text item
// never carries file fields and vice versa), ownership checks, and best-effort
// consistency between the record store (Repository) and external object
// storage (BlobStore). Consistency is attempted inline and logged on failure;
// the design prefers an orphaned blob over an orphaned or inconsistent record.
//
// Storage backends live under storage/ (memory, fs, s3) and repositories under
// repo/ (memory, postgres); both are interchangeable behind the interfaces in
// this package.
package registry
