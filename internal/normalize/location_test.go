package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCity(t *testing.T) {
	n := Default()

	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "postal code then city", raw: "85609 Aschheim", want: "Aschheim", wantOK: true},
		{name: "swiss postal code", raw: "1010 Lausanne", want: "Lausanne", wantOK: true},
		{name: "italian province rejected", raw: "Provincia di Genova", wantOK: false},
		{name: "already canonical", raw: "Paris", want: "Paris", wantOK: true},
		{name: "location label", raw: "Location: Lyon", want: "Lyon", wantOK: true},
		{name: "french label", raw: "Lieu : Bordeaux", want: "Bordeaux", wantOK: true},
		{name: "trailing clause", raw: "Paris with travel required", want: "Paris", wantOK: true},
		{name: "slash keeps first", raw: "Montrouge / Paris", want: "Montrouge", wantOK: true},
		{name: "german alias", raw: "München", want: "Munich", wantOK: true},
		{name: "upper case without accent", raw: "GENEVE", want: "Genève", wantOK: true},
		{name: "multi word alias", raw: "Frankfurt am Main", want: "Francfort", wantOK: true},
		{name: "parenthetical stripped", raw: "Milano (MI)", want: "Milan", wantOK: true},
		{name: "street address with postal city", raw: "12 Rue de Rivoli, 75001 Paris", want: "Paris", wantOK: true},
		{name: "building address salvaged", raw: "Capital Tower, 168 Robinson Road, Singapore", want: "Singapour", wantOK: true},
		{name: "pure address rejected", raw: "2 Central Boulevard", wantOK: false},
		{name: "street and number rejected", raw: "Einsteinring 30", wantOK: false},
		{name: "french street rejected", raw: "12 rue de la République", wantOK: false},
		{name: "place rejected", raw: "1 Place des Saisons", wantOK: false},
		{name: "avenue rejected", raw: "10 avenue du Général Leclerc", wantOK: false},
		{name: "allee rejected", raw: "5 allée de la Gare", wantOK: false},
		{name: "chemin rejected", raw: "3 chemin du Moulin", wantOK: false},
		{name: "short street rejected", raw: "8 rue Lafayette", wantOK: false},
		{name: "floor noise dropped", raw: "3rd Floor, Canary Wharf", want: "Canary Wharf", wantOK: true},
		{name: "company name rejected", raw: "Crédit Agricole Leasing & Factoring", wantOK: false},
		{name: "country is not a city", raw: "France", wantOK: false},
		{name: "empty", raw: "   ", wantOK: false},
		{name: "too long", raw: "Some Extraordinarily Long Municipality Name", wantOK: false},
		{name: "unknown city title cased", raw: "aix-en-provence", want: "Aix-En-Provence", wantOK: true},
		{name: "unknown city with accent", raw: "KRAKÓW", want: "Kraków", wantOK: true},
		{name: "spaced alias", raw: "Saint-Quentin en Yvelines", want: "Saint-Quentin-En-Yvelines", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.City(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCity_IdempotentOnAliasValues(t *testing.T) {
	n := Default()
	for _, canonical := range DefaultTables().CityAliases {
		got, ok := n.City(canonical)
		require.True(t, ok, "canonical city %q was rejected", canonical)
		assert.Equal(t, canonical, got)
	}
}

func TestCity_IdempotentOnTitleCasedValues(t *testing.T) {
	n := Default()
	for _, raw := range []string{"aix-en-provence", "Le Mans", "KRAKÓW", "85609 Aschheim", "75008 Paris"} {
		first, ok := n.City(raw)
		require.True(t, ok, raw)
		second, ok := n.City(first)
		require.True(t, ok, first)
		assert.Equal(t, first, second)
	}
}

func TestCountry(t *testing.T) {
	n := Default()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "USA", want: "États-Unis"},
		{raw: "united states", want: "États-Unis"},
		{raw: "etats-unis", want: "États-Unis"},
		{raw: "États-Unis", want: "États-Unis"},
		{raw: "- France", want: "France"},
		{raw: "75", want: "France"},
		{raw: "Paris, France", want: "France"},
		{raw: "Germany", want: "Allemagne"},
		{raw: "Corée", want: "Corée du Sud"},
		{raw: "pays-bas", want: "Pays-Bas"},
		{raw: "vanuatu", want: "Vanuatu"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Country(tt.raw))
		})
	}
}

func TestCountry_CustomDefault(t *testing.T) {
	n, err := New(DefaultTables(), Options{DefaultCountry: "Suisse"})
	require.NoError(t, err)

	assert.Equal(t, "Suisse", n.Country("1200"))
	assert.Equal(t, "Suisse - Suisse", n.Location(""))
}

func TestLocation(t *testing.T) {
	n := Default()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Paris - France", want: "Paris - France"},
		{raw: "Lieu : Milan (Italie)", want: "Milan - Italie"},
		{raw: "Luxembourg", want: "Luxembourg - Luxembourg"},
		{raw: "Lyon", want: "Lyon - France"},
		{raw: "Courbevoie, France", want: "Courbevoie - France"},
		{raw: "Provincia di Genova - Italie", want: "Italie - Italie"},
		{raw: "Singapore - Singapore", want: "Singapour - Singapour"},
		{raw: "Île-de-France", want: "Région Parisienne - France"},
		{raw: "85609 Aschheim - Allemagne", want: "Aschheim - Allemagne"},
		{raw: "Paris (75)", want: "Paris - France"},
		{raw: "12 rue de la République - France", want: "France - France"},
		{raw: "", want: "France - France"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := n.Location(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, n.Location(got), "location should be stable when re-normalized")
		})
	}
}

func TestLocationParts(t *testing.T) {
	n := Default()

	assert.Equal(t, "Paris - France", n.LocationParts("Paris", ""))
	assert.Equal(t, "Allemagne - Allemagne", n.LocationParts("Einsteinring 30", "Germany"))
	assert.Equal(t, "Lausanne - Suisse", n.LocationParts("1010 Lausanne", "Switzerland"))
}

func TestCombine(t *testing.T) {
	n := Default()

	assert.Equal(t, "Paris - France", n.Combine("Paris", true, "France"))
	assert.Equal(t, "Italie - Italie", n.Combine("", false, "Italie"))
	assert.Equal(t, "France - France", n.Combine("Ignored", false, ""))
}

func TestNew_CopiesTables(t *testing.T) {
	tables := DefaultTables()
	n, err := New(tables, Options{})
	require.NoError(t, err)

	tables.CityAliases["paris"] = "Lutèce"

	got, ok := n.City("paris")
	require.True(t, ok)
	assert.Equal(t, "Paris", got)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	tables := DefaultTables()
	tables.AddressPatterns = append(tables.AddressPatterns, "(")
	_, err = New(tables, Options{})
	assert.Error(t, err)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Neuilly-Sur-Seine", titleCase("neuilly-sur-seine"))
	assert.Equal(t, "L'Isle-Adam", titleCase("l'isle-adam"))
	assert.Equal(t, "New York", titleCase("NEW YORK"))
}
