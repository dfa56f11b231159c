// Package query expands a claim into the search queries sent to each source.
package query

import "strings"

// suffixes are appended to the claim, in order, after the bare claim itself
var suffixes = []string{
	"fact check",
	"site:wikipedia.org",
	"news",
	"myth",
	"scientific study",
}

// Variants is the number of queries Expand returns
const Variants = 6

// Expand returns the fixed, ordered query variants for a claim.
// The first variant is the claim itself.
func Expand(claim string) []string {
	claim = strings.Join(strings.Fields(claim), " ")
	out := make([]string, 0, Variants)
	out = append(out, claim)
	for _, s := range suffixes {
		out = append(out, claim+" "+s)
	}
	return out
}
