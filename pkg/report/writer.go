// Package report renders the project-level documents: the directory standard
// with its flow diagram, and the JSON manifest.
//
// Every document is written whole on each run, so the output of a completed
// run always matches the spec that produced it.
package report

import (
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// WriteDocument replaces name on fs with data.
func WriteDocument(fs billy.Basic, name string, data []byte) error {
	return util.WriteFile(fs, name, data, 0o644)
}
