// Package geo places free-text talk titles on a map using a static table of
// cities and countries. It is a best-effort heuristic, not a geocoder: a title
// that mentions an unrelated city resolves to that city, and a title naming a
// place the table does not know stays unresolved.
package geo

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const geohashPrecision = 7

// "in Germany", "in the United Kingdom", "In UK".
var inPlaceRE = regexp.MustCompile(`\b[Ii]n\s+(?:the\s+)?(\p{Lu}[\p{L}.'’-]*(?:\s+\p{Lu}[\p{L}.'’-]*)*)`)

// Resolver maps talk titles to coordinates.
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over table, or over DefaultTable when nil.
func NewResolver(table *Table) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table}
}

// Resolve returns the coordinates for title. The first match wins:
// a city named anywhere in the title, then a country following "in",
// then any country named in the title. Countries resolve to their capital
// when the table knows it. ok is false when nothing matched.
func (r *Resolver) Resolve(title string) (core.GeoPoint, bool) {
	if r == nil || r.table == nil || strings.TrimSpace(title) == "" {
		return core.GeoPoint{}, false
	}
	normalized := r.Normalize(title)

	for _, city := range r.table.cityPatterns {
		if city.re.MatchString(normalized) {
			return point(r.table.cities[city.name], city.name), true
		}
	}

	for _, m := range inPlaceRE.FindAllStringSubmatch(title, -1) {
		words := strings.Fields(strings.TrimRight(m[1], ".'’-"))
		for n := len(words); n > 0; n-- {
			candidate := r.Normalize(strings.Join(words[:n], " "))
			if p, place, ok := r.table.Country(candidate); ok {
				return point(p, place), true
			}
		}
	}

	for _, country := range r.table.countryPatterns {
		if country.re.MatchString(normalized) {
			p, place, _ := r.table.Country(country.name)
			return point(p, place), true
		}
	}
	return core.GeoPoint{}, false
}

// Normalize lower-cases s, strips diacritics and applies alias
// substitutions on word boundaries, longest alias first.
func (r *Resolver) Normalize(s string) string {
	out := canonical(s)
	if r == nil || r.table == nil {
		return out
	}
	for _, alias := range r.table.aliases {
		out = alias.re.ReplaceAllLiteralString(out, alias.to)
	}
	return out
}

// Annotate returns a copy of talks with locations attached and the number of
// talks that resolved.
func (r *Resolver) Annotate(talks []core.SpeakingEntry) ([]core.SpeakingEntry, int) {
	if talks == nil {
		return nil, 0
	}
	out := make([]core.SpeakingEntry, len(talks))
	resolved := 0
	for i, talk := range talks {
		talk.Location = nil
		if p, ok := r.Resolve(talk.Title); ok {
			talk.Location = &p
			resolved++
		}
		out[i] = talk
	}
	return out, resolved
}

func point(p Point, place string) core.GeoPoint {
	hash := geohash.Encode(p.Lat, p.Lng)
	if len(hash) > geohashPrecision {
		hash = hash[:geohashPrecision]
	}
	return core.GeoPoint{
		Latitude:  p.Lat,
		Longitude: p.Lng,
		Place:     place,
		Geohash:   hash,
	}
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
