// Package schemas embeds the JSON Schemas of the exported artifacts.
package schemas

import _ "embed"

// JobPostings is the schema of a JSON export: an array of postings.
//
//go:embed job_postings.schema.json
var JobPostings []byte
