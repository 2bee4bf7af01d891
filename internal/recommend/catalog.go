// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "strings"

// Catalog is a read-only index over the movie table.
// The first row wins when an id or a lowercased title repeats.
type Catalog struct {
	movies  []Movie
	byID    map[int]int
	byTitle map[string]int
}

// NewCatalog indexes movies. The slice is copied.
func NewCatalog(movies []Movie) *Catalog {
	c := &Catalog{
		movies:  append([]Movie(nil), movies...),
		byID:    make(map[int]int, len(movies)),
		byTitle: make(map[string]int, len(movies)),
	}
	for i, m := range c.movies {
		if _, ok := c.byID[m.ID]; !ok {
			c.byID[m.ID] = i
		}
		key := normalizeTitle(m.Title)
		if key == "" {
			continue
		}
		if _, ok := c.byTitle[key]; !ok {
			c.byTitle[key] = i
		}
	}
	return c
}

// Len returns the number of rows, duplicates included.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Movies returns a copy of the rows in their original order.
func (c *Catalog) Movies() []Movie {
	return append([]Movie(nil), c.movies...)
}

// At returns the row at position i.
func (c *Catalog) At(i int) Movie {
	return c.movies[i]
}

// ByID returns the first movie with the given id.
func (c *Catalog) ByID(id int) (Movie, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// IndexOfTitle returns the row position of the first movie whose title
// matches case-insensitively.
func (c *Catalog) IndexOfTitle(title string) (int, bool) {
	i, ok := c.byTitle[normalizeTitle(title)]
	return i, ok
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
