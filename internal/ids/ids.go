// Package ids issues the request identifiers threaded through logs and
// error responses.
package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable identifier.
func New() string {
	return ulid.Make().String()
}
