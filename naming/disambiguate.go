package naming

import "strconv"

// Candidate is a proposed relationship name.
type Candidate struct {
	// Name proposed for the member.
	Name string
	// Column is the first foreign key column the relationship originates
	// from. Its trailing digits are the preferred disambiguator.
	Column string
}

// Disambiguate returns one unique name per candidate, in candidate order.
// Names in reserved are treated as already taken by an earlier member.
//
// Candidates sharing a name first get the trailing digits of their column
// appended. Names that are still shared then get sequential suffixes 1, 2, ...
// from their second holder onwards, skipping any suffix that is already in
// use. The result depends only on the order of the candidates.
func Disambiguate(cands []Candidate, reserved ...string) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Name
	}
	taken := make(map[string]struct{}, len(reserved))
	for _, r := range reserved {
		taken[r] = struct{}{}
	}
	for _, g := range groupNames(out) {
		if _, ok := taken[out[g[0]]]; !ok && len(g) < 2 {
			continue
		}
		for _, i := range g {
			if d := trailingDigits(cands[i].Column); d != "" {
				out[i] += d
			}
		}
	}
	used := make(map[string]struct{}, len(out)+len(taken))
	for n := range taken {
		used[n] = struct{}{}
	}
	for _, n := range out {
		used[n] = struct{}{}
	}
	for _, g := range groupNames(out) {
		name := out[g[0]]
		rest := g[1:]
		if _, ok := taken[name]; ok {
			rest = g
		}
		n := 1
		for _, i := range rest {
			for {
				if _, ok := used[name+strconv.Itoa(n)]; !ok {
					break
				}
				n++
			}
			out[i] = name + strconv.Itoa(n)
			used[out[i]] = struct{}{}
			n++
		}
	}
	return out
}

// groupNames groups indexes by identical name, ordered by first appearance.
func groupNames(names []string) [][]int {
	var (
		groups [][]int
		index  = make(map[string]int, len(names))
	)
	for i, n := range names {
		pos, ok := index[n]
		if !ok {
			pos = len(groups)
			index[n] = pos
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], i)
	}
	return groups
}

func trailingDigits(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[i:]
}
