package normalize

// Rule maps a case-insensitive regular expression to a canonical value.
type Rule struct {
	Pattern string
	Value   string
}

// Tables is the curated lookup data the Normalizer runs on. A Tables value is
// copied by New, so later mutation by the caller has no effect on a built Normalizer.
type Tables struct {
	// Version identifies the data revision, recorded by maintenance passes.
	Version string

	// CityAliases maps lowercase city variants to their display form.
	CityAliases map[string]string
	// CountryAliases maps lowercase country variants to their French display form.
	CountryAliases map[string]string
	// CountryWords are lowercase country names rejected when they appear as a city.
	CountryWords []string
	// LocationCountries are display names searched for inside a single free-text location.
	LocationCountries []string

	// AddressPatterns detect street addresses and building references.
	AddressPatterns []string
	// CompanyPatterns detect legal entity and brand names.
	CompanyPatterns []string
	// RejectPatterns reject the whole value outright (administrative regions).
	RejectPatterns []string
	// SalvageCities are city keywords recovered from address or company noise.
	SalvageCities []string
	// NoiseWords are building and number markers dropped when reducing an address
	// to its residual words.
	NoiseWords []string
	// StreetWords introduce a street address; a residual still holding one is rejected.
	StreetWords []string
	// InvalidWords are rejected when they are the entire residual value.
	InvalidWords []string
	// InvalidKeywords are rejected when they appear anywhere in the residual value.
	InvalidKeywords []string

	// EducationRules map structured education fields, most specific first.
	EducationRules []Rule
	// EducationInferenceRules scan description text, most specific first.
	EducationInferenceRules []Rule
	// ExperienceKeywords map seniority words to an experience bucket, checked in order.
	ExperienceKeywords []Rule
	// EarlyCareerContracts force the junior experience bucket.
	EarlyCareerContracts []string
}

// Education vocabulary
const (
	EducationBac  = "Bac"
	EducationBac2 = "Bac + 2 / L2"
	EducationBac3 = "Bac + 3 / L3"
	EducationBac4 = "Bac + 4 / M1"
	EducationBac5 = "Bac + 5 / M2 et plus"
)

// Experience vocabulary
const (
	ExperienceJunior = "0 - 2 ans"
	ExperienceMid    = "3 - 5 ans"
	ExperienceSenior = "6 - 10 ans"
	ExperienceExpert = "11 ans et plus"
)

// EducationLevels lists the education vocabulary in ascending order.
var EducationLevels = []string{EducationBac, EducationBac2, EducationBac3, EducationBac4, EducationBac5}

// ExperienceLevels lists the experience vocabulary in ascending order.
var ExperienceLevels = []string{ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceExpert}

// DefaultTables returns a fresh copy of the built-in lookup data.
func DefaultTables() *Tables {
	return &Tables{
		Version:                 "2025.2",
		CityAliases:             defaultCityAliases(),
		CountryAliases:          defaultCountryAliases(),
		CountryWords:            defaultCountryWords(),
		LocationCountries:       defaultLocationCountries(),
		AddressPatterns:         defaultAddressPatterns(),
		CompanyPatterns:         defaultCompanyPatterns(),
		RejectPatterns:          defaultRejectPatterns(),
		SalvageCities:           defaultSalvageCities(),
		NoiseWords:              defaultNoiseWords(),
		StreetWords:             defaultStreetWords(),
		InvalidWords:            defaultInvalidWords(),
		InvalidKeywords:         defaultInvalidKeywords(),
		EducationRules:          defaultEducationRules(),
		EducationInferenceRules: defaultEducationInferenceRules(),
		ExperienceKeywords:      defaultExperienceKeywords(),
		EarlyCareerContracts:    []string{"stage", "internship", "stagiaire", "alternance", "apprentissage", "apprenticeship", "vie", "v.i.e"},
	}
}

func defaultCityAliases() map[string]string {
	return map[string]string{
		// Ile-de-France
		"paris":                     "Paris",
		"paris montparnasse":        "Paris",
		"montrouge":                 "Montrouge",
		"la defense":                "La Défense",
		"la défense":                "La Défense",
		"puteaux":                   "Puteaux",
		"courbevoie":                "Courbevoie",
		"neuilly-sur-seine":         "Neuilly-Sur-Seine",
		"boulogne-billancourt":      "Boulogne-Billancourt",
		"issy-les-moulineaux":       "Issy-Les-Moulineaux",
		"nanterre":                  "Nanterre",
		"levallois-perret":          "Levallois-Perret",
		"saint-denis":               "Saint-Denis",
		"fontenay-sous-bois":        "Fontenay-Sous-Bois",
		"vincennes":                 "Vincennes",
		"montreuil":                 "Montreuil",
		"villejuif":                 "Villejuif",
		"ivry-sur-seine":            "Ivry-Sur-Seine",
		"guyancourt":                "Guyancourt",
		"saint-quentin-en-yvelines": "Saint-Quentin-En-Yvelines",
		"saint-quentin en yvelines": "Saint-Quentin-En-Yvelines",
		"massy":                     "Massy",
		"versailles":                "Versailles",
		"évry":                      "Evry",
		"evry":                      "Evry",
		"cergy":                     "Cergy",
		"region parisienne":         "Région Parisienne",
		"ile de france":             "Région Parisienne",
		"île-de-france":             "Région Parisienne",

		// France
		"lyon":          "Lyon",
		"marseille":     "Marseille",
		"toulouse":      "Toulouse",
		"bordeaux":      "Bordeaux",
		"lille":         "Lille",
		"nice":          "Nice",
		"nantes":        "Nantes",
		"strasbourg":    "Strasbourg",
		"montpellier":   "Montpellier",
		"rennes":        "Rennes",
		"reims":         "Reims",
		"grenoble":      "Grenoble",
		"dijon":         "Dijon",
		"angers":        "Angers",
		"nancy":         "Nancy",
		"orleans":       "Orléans",
		"orléans":       "Orléans",
		"saint-etienne": "Saint-Etienne",
		"saint-étienne": "Saint-Etienne",

		// International
		"new york":             "New York",
		"london":               "Londres",
		"londres":              "Londres",
		"hong kong":            "Hong-Kong",
		"hong-kong":            "Hong-Kong",
		"singapore":            "Singapour",
		"singapour":            "Singapour",
		"tokyo":                "Tokyo",
		"shanghai":             "Shanghai",
		"frankfurt":            "Francfort",
		"frankfurt am main":    "Francfort",
		"francfort":            "Francfort",
		"munich":               "Munich",
		"münchen":              "Munich",
		"milan":                "Milan",
		"milano":               "Milan",
		"madrid":               "Madrid",
		"barcelona":            "Barcelone",
		"barcelone":            "Barcelone",
		"lisboa":               "Lisbonne",
		"lisbon":               "Lisbonne",
		"lisbonne":             "Lisbonne",
		"a coruña":             "A Coruña",
		"amsterdam":            "Amsterdam",
		"brussels":             "Bruxelles",
		"bruxelles":            "Bruxelles",
		"geneva":               "Genève",
		"geneve":               "Genève",
		"genève":               "Genève",
		"zurich":               "Zurich",
		"zürich":               "Zurich",
		"lausanne":             "Lausanne",
		"montreal":             "Montréal",
		"montréal":             "Montréal",
		"toronto":              "Toronto",
		"bangalore":            "Bangalore",
		"mumbai":               "Bombay",
		"bombay":               "Bombay",
		"chennai":              "Chennai",
		"delhi":                "Delhi",
		"dubai":                "Dubaï",
		"dubaï":                "Dubaï",
		"dubai/abu dhabi":      "Dubaï",
		"warsaw":               "Varsovie",
		"varsovie":             "Varsovie",
		"bucuresti":            "Bucarest",
		"bucharest":            "Bucarest",
		"bucarest":             "Bucarest",
		"prague":               "Prague",
		"budapest":             "Budapest",
		"casablanca":           "Casablanca",
		"luxembourg":           "Luxembourg",
		"esch-sur-alzette":     "Luxembourg",
		"dublin":               "Dublin",
		"sydney":               "Sydney",
		"melbourne":            "Melbourne",
		"kuala lumpur":         "Kuala Lumpur",
		"putrajaya":            "Kuala Lumpur",
		"aschheim":             "Aschheim",
		"aschheim bei münchen": "Aschheim",
	}
}

func defaultCountryAliases() map[string]string {
	return map[string]string{
		"united states":            "États-Unis",
		"united states of america": "États-Unis",
		"usa":                      "États-Unis",
		"u.s.a":                    "États-Unis",
		"u.s.a.":                   "États-Unis",
		"us":                       "États-Unis",
		"etats-unis":               "États-Unis",
		"etats unis":               "États-Unis",
		"états unis":               "États-Unis",
		"etats-unis d'amérique":    "États-Unis",
		"united kingdom":           "Royaume-Uni",
		"uk":                       "Royaume-Uni",
		"great britain":            "Royaume-Uni",
		"germany":                  "Allemagne",
		"deutschland":              "Allemagne",
		"spain":                    "Espagne",
		"españa":                   "Espagne",
		"italy":                    "Italie",
		"italia":                   "Italie",
		"netherlands":              "Pays-Bas",
		"the netherlands":          "Pays-Bas",
		"belgium":                  "Belgique",
		"switzerland":              "Suisse",
		"schweiz":                  "Suisse",
		"austria":                  "Autriche",
		"poland":                   "Pologne",
		"polska":                   "Pologne",
		"czech republic":           "République Tchèque",
		"czechia":                  "République Tchèque",
		"romania":                  "Roumanie",
		"hungary":                  "Hongrie",
		"portugal":                 "Portugal",
		"greece":                   "Grèce",
		"denmark":                  "Danemark",
		"sweden":                   "Suède",
		"norway":                   "Norvège",
		"finland":                  "Finlande",
		"ireland":                  "Irlande",
		"russia":                   "Russie",
		"turkey":                   "Turquie",
		"india":                    "Inde",
		"china":                    "Chine",
		"japan":                    "Japon",
		"south korea":              "Corée du Sud",
		"korea":                    "Corée du Sud",
		"corée":                    "Corée du Sud",
		"coree du sud":             "Corée du Sud",
		"taiwan":                   "Taïwan",
		"singapore":                "Singapour",
		"malaysia":                 "Malaisie",
		"vietnam":                  "Viêt Nam",
		"thailand":                 "Thaïlande",
		"thailande":                "Thaïlande",
		"australia":                "Australie",
		"new zealand":              "Nouvelle-Zélande",
		"morocco":                  "Maroc",
		"tunisia":                  "Tunisie",
		"algeria":                  "Algérie",
		"egypt":                    "Égypte",
		"south africa":             "Afrique du Sud",
		"united arab emirates":     "Émirats Arabes Unis",
		"uae":                      "Émirats Arabes Unis",
		"dubai":                    "Émirats Arabes Unis",
		"qatar":                    "Qatar",
		"saudi arabia":             "Arabie Saoudite",
		"brazil":                   "Brésil",
		"argentina":                "Argentine",
		"chile":                    "Chili",
		"mexico":                   "Mexique",
		"colombia":                 "Colombie",
		"canada":                   "Canada",
		"france":                   "France",
		"luxembourg":               "Luxembourg",
		"monaco":                   "Monaco",
		"hong kong":                "Hong-Kong",
		"hong-kong":                "Hong-Kong",
		"cameroon":                 "Cameroun",
		"benin":                    "Bénin",
		"ivory coast":              "Côte D'Ivoire",
		"côte d'ivoire":            "Côte D'Ivoire",
		"cote d'ivoire":            "Côte D'Ivoire",
	}
}

func defaultCountryWords() []string {
	return []string{
		"france", "inde", "japon", "pologne", "roumanie", "chine", "corée", "corée du sud",
		"italie", "allemagne", "espagne", "portugal", "belgique", "suisse", "luxembourg",
		"pays-bas", "royaume-uni", "united kingdom", "états-unis", "usa", "canada",
		"singapour", "hong-kong", "hong kong", "thailande", "thaïlande", "malaisie",
		"australie", "nouvelle-zélande", "brésil", "argentine", "chili", "mexique",
		"colombie", "afrique du sud", "égypte", "maroc", "tunisie", "algérie",
	}
}

func defaultLocationCountries() []string {
	return []string{
		"France", "Italie", "Allemagne", "Luxembourg", "Suisse", "Pays-Bas", "États-Unis",
		"Canada", "Singapour", "Japon", "Royaume-Uni", "United Kingdom", "Maroc", "Tunisie",
		"Algérie", "Belgique", "Espagne", "Portugal", "Irlande", "Cameroun", "Bénin",
		"Côte D'Ivoire", "Congo", "Pologne", "Inde", "Chine",
	}
}

func defaultAddressPatterns() []string {
	return []string{
		`^\d+\s+`,
		`#\d+`,
		`\d+(?:st|nd|rd|th)?\s+floor`,
		`\bfloor\s+\d+`,
		`\d+(?:er|e|ème)\s+étage`,
		`capital\s+tower`,
		`\b\d+f\b`,
		`metro\s+park`,
		`\b(?:building|bldg|tower)\b`,
		`\bav\.\s+[a-z]`,
		`\b(?:rue|avenue|boulevard|bd|street|road)\b`,
		`chemin\s+de\s+\S+\s+\d+`,
		`einsteinring\s+\d+`,
	}
}

func defaultCompanyPatterns() []string {
	return []string{
		`\bgmbh\b`,
		`\bco\.\s*kg\b`,
		`\bco\.`,
		`\bs\.a\.`,
		`crédit agricole`,
		`\bleasing\b`,
		`\bfactoring\b`,
		`\bindosuez\b`,
		`\bamundi\b`,
		`\bcaceis\b`,
		`\blcl\b`,
		`\bbforbank\b`,
		`\bmerca`,
	}
}

func defaultRejectPatterns() []string {
	return []string{
		`\bprovincia\s+di\b`,
		`\bprovince\s+di\b`,
		`\be\s+(?:valtellina|provincia)\b`,
	}
}

func defaultSalvageCities() []string {
	return []string{
		"singapore", "singapour", "hong-kong", "hong kong", "madrid", "barcelone", "barcelona",
		"lisbonne", "lisboa", "a coruña", "coruña", "lausanne", "zurich", "genève", "geneva",
		"paris", "london", "londres", "luxembourg", "frankfurt", "munich", "milan", "milano",
		"tokyo", "new york", "dubai", "amsterdam", "bruxelles", "brussels",
	}
}

func defaultNoiseWords() []string {
	return []string{
		"floor", "bldg", "building", "tower", "#", "étage", "capital", "metro", "park", "&", "-",
	}
}

func defaultStreetWords() []string {
	return []string{
		"rue", "avenue", "av", "bd", "boulevard", "allée", "allee", "chemin", "place", "impasse",
		"quai", "cours", "route", "road", "street", "strasse", "straße", "via", "calle",
	}
}

func defaultInvalidWords() []string {
	return []string{
		"central", "boulevard", "metro", "park", "einsteinring", "allée", "chemin", "allee",
		"scheffer", "floor", "bldg", "building", "tower", "road", "street", "avenue", "rue",
	}
}

func defaultInvalidKeywords() []string {
	return []string{
		"provincia", "province", "valtellina", "leasing", "factoring", "central", "boulevard",
		"metro", "park", "einsteinring", "scheffer", "bldg",
	}
}

func defaultEducationRules() []Rule {
	return []Rule{
		{Pattern: `bac\s*\+\s*(?:5|6|7|8)|\bmaster|\bm2\b|\bmba\b|\bphd\b|doctorat|grande\s+[ée]cole|[ée]cole\s+d'ing[ée]nieur|[ée]cole\s+de\s+commerce|ing[ée]nieur|engineer`, Value: EducationBac5},
		{Pattern: `bac\s*\+\s*4|\bm1\b|ma[iî]trise`, Value: EducationBac4},
		{Pattern: `bac\s*\+\s*3|bachelor|licence|\bl3\b`, Value: EducationBac3},
		{Pattern: `bac\s*\+\s*2|\bl2\b|\bbts\b|\bdut\b|\bdeug\b`, Value: EducationBac2},
		{Pattern: `certificat\s+f[ée]d[ée]ral|\bcfc\b|inf[ée]rieur\s+(?:à|au)\s+bac|sans\s+bac|baccalaur[ée]at|\bbac\b`, Value: EducationBac},
	}
}

func defaultEducationInferenceRules() []Rule {
	return []Rule{
		{Pattern: `bac\s*\+\s*5|\bmaster\b|[ée]cole\s+d'ing[ée]nieurs?|[ée]cole\s+de\s+commerce|grande\s+[ée]cole`, Value: EducationBac5},
		{Pattern: `bac\s*\+\s*4|\bm1\b`, Value: EducationBac4},
		{Pattern: `bac\s*\+\s*3|\blicence\b|\bbachelor\b`, Value: EducationBac3},
		{Pattern: `bac\s*\+\s*2|\bbts\b|\bdut\b`, Value: EducationBac2},
	}
}

func defaultExperienceKeywords() []Rule {
	return []Rule{
		{Pattern: `\bjunior\b|d[ée]butant|beginner|entry[\s-]level|jeune\s+dipl[ôo]m[ée]|[ée]tudiant|stagiaire|alternant|\bgraduate\b`, Value: ExperienceJunior},
		{Pattern: `exp[ée]riment[ée]|confirm[ée]|\bconfirmed\b|\bexperienced\b`, Value: ExperienceMid},
		{Pattern: `\bsenior\b`, Value: ExperienceSenior},
	}
}
