package geo

import (
	"testing"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
)

func mustResolve(t *testing.T, r *Resolver, title string) core.GeoPoint {
	t.Helper()
	p, ok := r.Resolve(title)
	if !ok {
		t.Fatalf("expected %q to resolve", title)
	}
	return p
}

func assertPoint(t *testing.T, got core.GeoPoint, want Point, place string) {
	t.Helper()
	if got.Latitude != want.Lat || got.Longitude != want.Lng {
		t.Fatalf("unexpected coordinates: got=(%v,%v) want=(%v,%v)", got.Latitude, got.Longitude, want.Lat, want.Lng)
	}
	if got.Place != place {
		t.Fatalf("unexpected place: got=%q want=%q", got.Place, place)
	}
}

func TestResolveCity(t *testing.T) {
	r := NewResolver(nil)
	p := mustResolve(t, r, "Talk in Porto")
	assertPoint(t, p, defaultCities["porto"], "porto")
	if len(p.Geohash) != geohashPrecision {
		t.Fatalf("unexpected geohash %q", p.Geohash)
	}
}

func TestResolveCityBeatsInCountry(t *testing.T) {
	r := NewResolver(nil)
	p := mustResolve(t, r, "PyCon Porto Meetup in Germany")
	assertPoint(t, p, defaultCities["porto"], "porto")
}

func TestResolveAliases(t *testing.T) {
	r := NewResolver(nil)
	tests := []struct {
		alias     string
		canonical string
	}{
		{"DevFest in UK", "DevFest in United Kingdom"},
		{"JSConf Lisboa 2023", "JSConf Lisbon 2023"},
		{"Droidcon München", "Droidcon Munich"},
		{"Codemotion Milano", "Codemotion Milan"},
		{"Conference in Holland", "Conference in the Netherlands"},
	}
	for _, tt := range tests {
		a := mustResolve(t, r, tt.alias)
		c := mustResolve(t, r, tt.canonical)
		if a != c {
			t.Fatalf("%q resolved to %+v, %q to %+v", tt.alias, a, tt.canonical, c)
		}
	}
}

func TestResolveCapitalPreferred(t *testing.T) {
	r := NewResolver(nil)
	p := mustResolve(t, r, "Keynote in Germany")
	assertPoint(t, p, defaultCities["berlin"], "berlin")
	if p.Latitude == defaultCountries["germany"].Lat {
		t.Fatalf("expected capital, got centroid")
	}
}

func TestResolveCountryWithoutCapitalUsesCentroid(t *testing.T) {
	table := NewTable(
		map[string]Point{"porto": {41.1579, -8.6291}},
		map[string]Point{"wakanda": {1, 2}},
		nil,
		nil,
	)
	p := mustResolve(t, NewResolver(table), "Summit in Wakanda")
	assertPoint(t, p, Point{1, 2}, "wakanda")
}

func TestResolveInPhraseShrinksRun(t *testing.T) {
	r := NewResolver(nil)
	p := mustResolve(t, r, "Women in Tech in Greece Edition")
	// "Tech" is not a country; the second phrase shrinks "Greece Edition" to "Greece".
	assertPoint(t, p, defaultCities["athens"], "athens")
}

func TestResolveCountrySubstring(t *testing.T) {
	r := NewResolver(nil)
	p := mustResolve(t, r, "DevRel summit, portugal edition")
	assertPoint(t, p, defaultCities["lisbon"], "lisbon")
}

func TestResolveLongestMatchWins(t *testing.T) {
	r := NewResolver(nil)
	p := mustResolve(t, r, "Hackathon New Delhi")
	assertPoint(t, p, defaultCities["new delhi"], "new delhi")

	table := NewTable(map[string]Point{
		"york":     {53.96, -1.08},
		"new york": {40.71, -74.00},
	}, nil, nil, nil)
	p = mustResolve(t, NewResolver(table), "Meetup New York")
	assertPoint(t, p, Point{40.71, -74.00}, "new york")
}

func TestResolveWordBoundaries(t *testing.T) {
	r := NewResolver(nil)
	tests := []string{
		"Chrome DevTools deep dive",
		"Building with Ukrainian devs",
		"",
		"A talk about nothing in particular",
	}
	for _, title := range tests {
		if p, ok := r.Resolve(title); ok {
			t.Fatalf("expected %q to stay unresolved, got %+v", title, p)
		}
	}
}

func TestAnnotateCopies(t *testing.T) {
	r := NewResolver(nil)
	talks := []core.SpeakingEntry{
		{Title: "Talk in Porto", URL: "https://x/y"},
		{Title: "Podcast episode", URL: "https://x/z"},
	}
	out, resolved := r.Annotate(talks)
	if resolved != 1 {
		t.Fatalf("expected one resolved talk, got %d", resolved)
	}
	if out[0].Location == nil || out[1].Location != nil {
		t.Fatalf("unexpected locations: %+v", out)
	}
	if talks[0].Location != nil {
		t.Fatalf("input must not be modified")
	}
}

func TestResolveInPhraseBeatsCountryScan(t *testing.T) {
	r := NewResolver(nil)
	p := mustResolve(t, r, "Spain vs Portugal: a retrospective in France")
	assertPoint(t, p, defaultCities["paris"], "paris")
}
