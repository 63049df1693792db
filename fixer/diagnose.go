// Package fixer detects projects that share a GUID across solution documents
// and repairs them by assigning fresh GUIDs in place.
package fixer

import (
	"fmt"
	"strings"

	"github.com/willibrandon/slnmerge/solution"
)

// Entry is one distinct project location sharing a collided GUID.
type Entry struct {
	Project solution.Project

	// Solutions lists every document declaring this project
	Solutions []*solution.Solution
}

// Collision groups the distinct projects that declare the same GUID.
// Entries are in first-seen order; the first entry keeps the GUID.
type Collision struct {
	GUID    string
	Entries []Entry
}

// Warning renders the collision as one line naming every path involved.
func (c Collision) Warning() string {
	parts := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		names := make([]string, 0, len(e.Solutions))
		for _, s := range e.Solutions {
			names = append(names, displayName(s))
		}
		parts = append(parts, fmt.Sprintf("%s (in %s)", e.Project.Location(), strings.Join(names, ", ")))
	}
	return fmt.Sprintf("Project GUID %s is used by different projects: %s", c.GUID, strings.Join(parts, "; "))
}

func displayName(s *solution.Solution) string {
	if s.RelativePath != "" {
		return s.RelativePath
	}
	if s.Path != "" {
		return s.Path
	}
	return s.Name
}

// FindCollisions scans the filtered projects of solutions, in order, for GUIDs
// declared by more than one distinct location. It never mutates its input.
func FindCollisions(filter solution.Filter, solutions ...*solution.Solution) []Collision {
	type group struct {
		entries []Entry
		index   map[solution.Key]int
	}
	groups := make(map[string]*group)
	var order []string

	for _, sln := range solutions {
		for _, p := range sln.Projects {
			if !filter.Accepts(p) {
				continue
			}
			g, ok := groups[p.GUID()]
			if !ok {
				g = &group{index: map[solution.Key]int{}}
				groups[p.GUID()] = g
				order = append(order, p.GUID())
			}
			i, seen := g.index[p.Key()]
			if !seen {
				i = len(g.entries)
				g.index[p.Key()] = i
				g.entries = append(g.entries, Entry{Project: p})
			}
			g.entries[i].Solutions = appendUnique(g.entries[i].Solutions, sln)
		}
	}

	var collisions []Collision
	for _, guid := range order {
		if g := groups[guid]; len(g.entries) > 1 {
			collisions = append(collisions, Collision{GUID: guid, Entries: g.entries})
		}
	}
	return collisions
}

// Diagnose returns one warning line per collided GUID, or "" when there is none.
func Diagnose(filter solution.Filter, solutions ...*solution.Solution) string {
	return Warnings(FindCollisions(filter, solutions...))
}

// Warnings renders collisions as newline-terminated warning lines.
func Warnings(collisions []Collision) string {
	var b strings.Builder
	for _, c := range collisions {
		b.WriteString(c.Warning())
		b.WriteString("\n")
	}
	return b.String()
}

func appendUnique(list []*solution.Solution, s *solution.Solution) []*solution.Solution {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
