package geo

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64
	Lng float64
}

var defaultCities = map[string]Point{
	"amsterdam":     {52.3676, 4.9041},
	"antwerp":       {51.2194, 4.4025},
	"athens":        {37.9838, 23.7275},
	"austin":        {30.2672, -97.7431},
	"bangalore":     {12.9716, 77.5946},
	"barcelona":     {41.3874, 2.1686},
	"belgrade":      {44.7866, 20.4489},
	"berlin":        {52.5200, 13.4050},
	"bern":          {46.9480, 7.4474},
	"bogota":        {4.7110, -74.0721},
	"boston":        {42.3601, -71.0589},
	"bratislava":    {48.1486, 17.1077},
	"brussels":      {50.8503, 4.3517},
	"bucharest":     {44.4268, 26.1025},
	"budapest":      {47.4979, 19.0402},
	"buenos aires":  {-34.6037, -58.3816},
	"canberra":      {-35.2809, 149.1300},
	"cape town":     {-33.9249, 18.4241},
	"chicago":       {41.8781, -87.6298},
	"cologne":       {50.9375, 6.9603},
	"copenhagen":    {55.6761, 12.5683},
	"delhi":         {28.6139, 77.2090},
	"dubai":         {25.2048, 55.2708},
	"dublin":        {53.3498, -6.2603},
	"edinburgh":     {55.9533, -3.1883},
	"florence":      {43.7696, 11.2558},
	"frankfurt":     {50.1109, 8.6821},
	"geneva":        {46.2044, 6.1432},
	"hamburg":       {53.5511, 9.9937},
	"helsinki":      {60.1699, 24.9384},
	"hong kong":     {22.3193, 114.1694},
	"istanbul":      {41.0082, 28.9784},
	"johannesburg":  {-26.2041, 28.0473},
	"kyiv":          {50.4501, 30.5234},
	"krakow":        {50.0647, 19.9450},
	"lagos":         {6.5244, 3.3792},
	"lisbon":        {38.7223, -9.1393},
	"ljubljana":     {46.0569, 14.5058},
	"london":        {51.5074, -0.1278},
	"los angeles":   {34.0522, -118.2437},
	"lyon":          {45.7640, 4.8357},
	"madrid":        {40.4168, -3.7038},
	"manchester":    {53.4808, -2.2426},
	"melbourne":     {-37.8136, 144.9631},
	"mexico city":   {19.4326, -99.1332},
	"milan":         {45.4642, 9.1900},
	"montreal":      {45.5017, -73.5673},
	"mumbai":        {19.0760, 72.8777},
	"munich":        {48.1351, 11.5820},
	"nairobi":       {-1.2921, 36.8219},
	"naples":        {40.8518, 14.2681},
	"new delhi":     {28.6139, 77.2090},
	"new york":      {40.7128, -74.0060},
	"nicosia":       {35.1856, 33.3823},
	"oslo":          {59.9139, 10.7522},
	"ottawa":        {45.4215, -75.6972},
	"paris":         {48.8566, 2.3522},
	"porto":         {41.1579, -8.6291},
	"prague":        {50.0755, 14.4378},
	"reykjavik":     {64.1466, -21.9426},
	"riga":          {56.9496, 24.1052},
	"rome":          {41.9028, 12.4964},
	"rotterdam":     {51.9244, 4.4777},
	"san francisco": {37.7749, -122.4194},
	"sao paulo":     {-23.5505, -46.6333},
	"seattle":       {47.6062, -122.3321},
	"seoul":         {37.5665, 126.9780},
	"seville":       {37.3891, -5.9845},
	"singapore":     {1.3521, 103.8198},
	"sofia":         {42.6977, 23.3219},
	"stockholm":     {59.3293, 18.0686},
	"sydney":        {-33.8688, 151.2093},
	"tallinn":       {59.4370, 24.7536},
	"tel aviv":      {32.0853, 34.7818},
	"thessaloniki":  {40.6401, 22.9444},
	"tokyo":         {35.6762, 139.6503},
	"toronto":       {43.6532, -79.3832},
	"turin":         {45.0703, 7.6869},
	"valencia":      {39.4699, -0.3763},
	"valletta":      {35.8989, 14.5146},
	"vancouver":     {49.2827, -123.1207},
	"vienna":        {48.2082, 16.3738},
	"vilnius":       {54.6872, 25.2797},
	"warsaw":        {52.2297, 21.0122},
	"washington":    {38.9072, -77.0369},
	"zagreb":        {45.8150, 15.9819},
	"zurich":        {47.3769, 8.5417},
	"abu dhabi":     {24.4539, 54.3773},
	"beijing":       {39.9042, 116.4074},
	"brasilia":      {-15.7975, -47.8919},
	"jerusalem":     {31.7683, 35.2137},
	"luxembourg":    {49.6116, 6.1319},
}

// Country centroids.
var defaultCountries = map[string]Point{
	"argentina":            {-38.4161, -63.6167},
	"australia":            {-25.2744, 133.7751},
	"austria":              {47.5162, 14.5501},
	"belgium":              {50.5039, 4.4699},
	"brazil":               {-14.2350, -51.9253},
	"bulgaria":             {42.7339, 25.4858},
	"canada":               {56.1304, -106.3468},
	"china":                {35.8617, 104.1954},
	"colombia":             {4.5709, -74.2973},
	"croatia":              {45.1000, 15.2000},
	"cyprus":               {35.1264, 33.4299},
	"czech republic":       {49.8175, 15.4730},
	"denmark":              {56.2639, 9.5018},
	"estonia":              {58.5953, 25.0136},
	"finland":              {61.9241, 25.7482},
	"france":               {46.2276, 2.2137},
	"germany":              {51.1657, 10.4515},
	"greece":               {39.0742, 21.8243},
	"hungary":              {47.1625, 19.5033},
	"iceland":              {64.9631, -19.0208},
	"india":                {20.5937, 78.9629},
	"ireland":              {53.4129, -8.2439},
	"israel":               {31.0461, 34.8516},
	"italy":                {41.8719, 12.5674},
	"japan":                {36.2048, 138.2529},
	"kenya":                {-0.0236, 37.9062},
	"latvia":               {56.8796, 24.6032},
	"lithuania":            {55.1694, 23.8813},
	"luxembourg":           {49.8153, 6.1296},
	"malta":                {35.9375, 14.3754},
	"mexico":               {23.6345, -102.5528},
	"netherlands":          {52.1326, 5.2913},
	"nigeria":              {9.0820, 8.6753},
	"norway":               {60.4720, 8.4689},
	"poland":               {51.9194, 19.1451},
	"portugal":             {39.3999, -8.2245},
	"romania":              {45.9432, 24.9668},
	"serbia":               {44.0165, 21.0059},
	"slovakia":             {48.6690, 19.6990},
	"slovenia":             {46.1512, 14.9955},
	"south africa":         {-30.5595, 22.9375},
	"south korea":          {35.9078, 127.7669},
	"spain":                {40.4637, -3.7492},
	"sweden":               {60.1282, 18.6435},
	"switzerland":          {46.8182, 8.2275},
	"turkey":               {38.9637, 35.2433},
	"ukraine":              {48.3794, 31.1656},
	"united arab emirates": {23.4241, 53.8478},
	"united kingdom":       {55.3781, -3.4360},
	"united states":        {37.0902, -95.7129},
}

// Country to capital city. Every capital is a key of defaultCities.
var defaultCapitals = map[string]string{
	"argentina":            "buenos aires",
	"australia":            "canberra",
	"austria":              "vienna",
	"belgium":              "brussels",
	"brazil":               "brasilia",
	"bulgaria":             "sofia",
	"canada":               "ottawa",
	"china":                "beijing",
	"colombia":             "bogota",
	"croatia":              "zagreb",
	"cyprus":               "nicosia",
	"czech republic":       "prague",
	"denmark":              "copenhagen",
	"estonia":              "tallinn",
	"finland":              "helsinki",
	"france":               "paris",
	"germany":              "berlin",
	"greece":               "athens",
	"hungary":              "budapest",
	"iceland":              "reykjavik",
	"india":                "new delhi",
	"ireland":              "dublin",
	"israel":               "jerusalem",
	"italy":                "rome",
	"japan":                "tokyo",
	"kenya":                "nairobi",
	"latvia":               "riga",
	"lithuania":            "vilnius",
	"luxembourg":           "luxembourg",
	"malta":                "valletta",
	"mexico":               "mexico city",
	"netherlands":          "amsterdam",
	"norway":               "oslo",
	"poland":               "warsaw",
	"portugal":             "lisbon",
	"serbia":               "belgrade",
	"slovakia":             "bratislava",
	"slovenia":             "ljubljana",
	"south korea":          "seoul",
	"spain":                "madrid",
	"sweden":               "stockholm",
	"switzerland":          "bern",
	"ukraine":              "kyiv",
	"united arab emirates": "abu dhabi",
	"united kingdom":       "london",
	"united states":        "washington",
}

// Aliases, abbreviations and common misspellings, all already diacritic-free
// and lower-case.
var defaultAliases = map[string]string{
	"athen":         "athens",
	"athina":        "athens",
	"bengaluru":     "bangalore",
	"bombay":        "mumbai",
	"britain":       "united kingdom",
	"bruxelles":     "brussels",
	"brussel":       "brussels",
	"czechia":       "czech republic",
	"deutschland":   "germany",
	"england":       "united kingdom",
	"espana":        "spain",
	"firenze":       "florence",
	"geneve":        "geneva",
	"great britain": "united kingdom",
	"hellas":        "greece",
	"holland":       "netherlands",
	"italia":        "italy",
	"kiev":          "kyiv",
	"koln":          "cologne",
	"lisboa":        "lisbon",
	"lisbonne":      "lisbon",
	"milano":        "milan",
	"muenchen":      "munich",
	"munchen":       "munich",
	"napoli":        "naples",
	"nyc":           "new york",
	"oporto":        "porto",
	"praha":         "prague",
	"roma":          "rome",
	"salonica":      "thessaloniki",
	"sao paolo":     "sao paulo",
	"scotland":      "united kingdom",
	"sevilla":       "seville",
	"thesaloniki":   "thessaloniki",
	"torino":        "turin",
	"turkiye":       "turkey",
	"uae":           "united arab emirates",
	"uk":            "united kingdom",
	"usa":           "united states",
	"warszawa":      "warsaw",
	"wien":          "vienna",
	"zuerich":       "zurich",
}

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

type aliasRule struct {
	from string
	to   string
	re   *regexp.Regexp
}

// Table is an immutable place lookup table. Name lists are ordered longest
// first, then alphabetically, which makes substring ties deterministic.
type Table struct {
	cities    map[string]Point
	countries map[string]Point
	capitals  map[string]string

	cityPatterns    []namedPattern
	countryPatterns []namedPattern
	aliases         []aliasRule
}

// NewTable builds a table. Names are folded and lower-cased on the way in.
func NewTable(cities, countries map[string]Point, capitals, aliases map[string]string) *Table {
	t := &Table{
		cities:    make(map[string]Point, len(cities)),
		countries: make(map[string]Point, len(countries)),
		capitals:  make(map[string]string, len(capitals)),
	}
	for name, p := range cities {
		t.cities[canonical(name)] = p
	}
	for name, p := range countries {
		t.countries[canonical(name)] = p
	}
	for country, city := range capitals {
		t.capitals[canonical(country)] = canonical(city)
	}
	t.cityPatterns = buildPatterns(t.cities)
	t.countryPatterns = buildPatterns(t.countries)

	froms := make([]string, 0, len(aliases))
	folded := make(map[string]string, len(aliases))
	for from, to := range aliases {
		key := canonical(from)
		if key == "" {
			continue
		}
		folded[key] = canonical(to)
		froms = append(froms, key)
	}
	sortNames(froms)
	for _, from := range froms {
		t.aliases = append(t.aliases, aliasRule{from: from, to: folded[from], re: wordPattern(from)})
	}
	return t
}

var (
	defaultTableOnce sync.Once
	defaultTable     *Table
)

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = NewTable(defaultCities, defaultCountries, defaultCapitals, defaultAliases)
	})
	return defaultTable
}

// City looks up a city by canonical name.
func (t *Table) City(name string) (Point, bool) {
	p, ok := t.cities[canonical(name)]
	return p, ok
}

// Country looks up a country by canonical name, preferring its capital.
// place is the name of the entry the point came from.
func (t *Table) Country(name string) (p Point, place string, ok bool) {
	key := canonical(name)
	centroid, ok := t.countries[key]
	if !ok {
		return Point{}, "", false
	}
	if capital, ok := t.capitals[key]; ok {
		if cp, ok := t.cities[capital]; ok {
			return cp, capital, true
		}
	}
	return centroid, key, true
}

func buildPatterns(m map[string]Point) []namedPattern {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sortNames(names)
	out := make([]namedPattern, 0, len(names))
	for _, name := range names {
		out = append(out, namedPattern{name: name, re: wordPattern(name)})
	}
	return out
}

func sortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
}

func wordPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

func canonical(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(fold(name))), " ")
}
