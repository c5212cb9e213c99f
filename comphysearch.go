// Package comphysearch builds the unified search index for the CoMPhy Lab
// family of sites. It acquires each configured source repository locally,
// extracts text from markdown and HTML files, splits it into bounded chunks
// aligned to document structure, derives public URLs, and assembles a flat
// JSON index consumed by the client-side search widget.
//
// This package contains domain types, interfaces, and the pure text-handling
// logic following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency (e.g.,
// goldmark/, goquery/, git/, koanf/).
package comphysearch
