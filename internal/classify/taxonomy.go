package classify

// Category is one job family and the patterns that vote for it.
type Category struct {
	Name     string
	Patterns []string
}

// Taxonomy is an ordered list of categories. Order breaks ties: the first
// category with the highest score wins.
type Taxonomy []Category

// DefaultTaxonomy returns the built-in banking job families.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{
			Name: "IT, Digital et Data",
			Patterns: []string{
				`\bdata\b`, `\bIT\b`, `\bdigital\b`, `\bengineer\b`, `\bdeveloper\b`,
				`\bdevops\b`, `\bsoftware\b`, `\bprogramm`, `\bcyber\b`, `\bcloud\b`,
				`\binfra`, `\bsystem`, `\bnetwork\b`, `\bjava\b`, `\bpython\b`,
				`\.net\b`, `\bfullstack\b`, `\bfull stack\b`, `\bbackend\b`,
				`\bfrontend\b`, `\bfront-end\b`, `\bback-end\b`, `\bsql\b`,
				`\bdatabase\b`, `\bteradata\b`, `\bpostgres\b`, `\bmongodb\b`,
				`\boracle\b`, `\barchitecte technique\b`, `\bscrum\b`, `\bagile\b`,
				`\btechnical lead\b`, `\btech lead\b`, `\bsite reliability\b`,
				`\bmachine learning\b`, `\bartificial intelligence\b`, `\bIA\b`,
				`\bdata scien`, `\bdata engineer\b`, `\bdata analyst\b`, `\bbigdata\b`,
				`\banalyst.*data\b`, `\bBI\b`, `\bbusiness intelligence\b`,
				`\bapplicat(?:if|ion)\b`, `\bsupport.*applicat\b`, `\bQA\b`,
				`\btest`, `\bqualité.*logiciel\b`, `\binformatique\b`,
			},
		},
		{
			Name: "Commercial / Relations Clients",
			Patterns: []string{
				`\bconseiller.*clientèle\b`, `\bconseiller.*client\b`, `\bchargé.*clientèle\b`,
				`\brelation.*client\b`, `\bclient.*relation\b`, `\bcommercial\b`,
				`\bvente\b`, `\bsales\b`, `\bbanquier\b`, `\bgestionnaire.*patrimoine\b`,
				`\bpatrimonial\b`, `\bagent.*commercial\b`, `\bdirecteur.*agence\b`,
				`\bresponsable.*agence\b`, `\badjoint.*agence\b`, `\bagence\b`,
				`\bconseiller.*particulier\b`, `\bconseiller.*professionnel\b`,
				`\bconseiller.*essentiel\b`, `\bconseiller.*premium\b`, `\bconseiller.*privé\b`,
				`\bprivate bank`, `\bcoverage\b`, `\brelationship manager\b`,
				`\baccount manager\b`, `\bclient.*advisor\b`, `\bcustomer.*advisor\b`,
			},
		},
		{
			Name: "Financement et Investissement",
			Patterns: []string{
				`\bfinance\b`, `\bfinancing\b`, `\binvestment\b`, `\binvestissement\b`,
				`\bM&A\b`, `\bfusions.*acquisitions\b`, `\bcorporate.*finance\b`,
				`\bproject.*finance\b`, `\bstructur.*finance\b`, `\btrade.*finance\b`,
				`\bcrédit\b`, `\bcredit\b`, `\bprêt\b`, `\bloan\b`, `\bleasing\b`,
				`\bfactoring\b`, `\banalyste.*crédit\b`, `\bcredit.*analyst\b`,
				`\bchargé.*crédit\b`, `\bcredit.*officer\b`, `\bfinancement\b`,
				`\bequity\b`, `\bdebt\b`, `\bcapital.*markets\b`, `\bmarkets\b`,
				`\btrading\b`, `\btrader\b`, `\bquant\b`, `\bstructuration\b`,
				`\bproduit.*financier\b`, `\bfinancial.*product\b`,
			},
		},
		{
			Name: "Risques / Contrôles permanents",
			Patterns: []string{
				`\brisque\b`, `\brisk\b`, `\bERM\b`, `\bcontrôle.*risque\b`,
				`\brisk.*control\b`, `\brisk.*manage`, `\bmodel.*risk\b`,
				`\bcredit.*risk\b`, `\bmarket.*risk\b`, `\boperational.*risk\b`,
				`\brisque.*opérationnel\b`, `\brisque.*crédit\b`, `\brisque.*marché\b`,
				`\bcontrôle.*permanent\b`, `\bpermanent.*control\b`, `\binternal.*control\b`,
				`\bcontrôle.*interne\b`, `\bvalidation.*modèle\b`, `\bmodel.*validation\b`,
			},
		},
		{
			Name: "Conformité / Sécurité financière",
			Patterns: []string{
				`\bconformité\b`, `\bcompliance\b`, `\bKYC\b`, `\bAML\b`, `\bAMLO\b`,
				`\banti.*money.*launder`, `\banti.*blanch`, `\bLCB-FT\b`,
				`\bsécurité.*financière\b`, `\bfinancial.*security\b`, `\bfraud\b`,
				`\bfraude\b`, `\bréglement`, `\bregulat`, `\bréglementaire\b`,
			},
		},
		{
			Name: "Finances / Comptabilité / Contrôle de gestion",
			Patterns: []string{
				`\bcomptab`, `\baccounting\b`, `\bcomptable\b`, `\baccountant\b`,
				`\bcontrôle.*gestion\b`, `\bmanagement.*control\b`, `\bcontrol.*gestion\b`,
				`\bfinancial.*control\b`, `\bcontrôleur.*gestion\b`, `\bcontroller\b`,
				`\bbudget\b`, `\bconsolidation\b`, `\breporting.*financier\b`,
				`\bfinancial.*reporting\b`, `\bFP&A\b`, `\btrésor`, `\btreasur`,
				`\bcash.*management\b`, `\bback.*office.*comptab`,
			},
		},
		{
			Name: "Gestion des opérations",
			Patterns: []string{
				`\bopérations\b`, `\boperations\b`, `\bback.*office\b`, `\bmiddle.*office\b`,
				`\bpost.*trade\b`, `\bsettlement\b`, `\bclearing\b`, `\bcustody\b`,
				`\breconciliation\b`, `\brapprochement\b`, `\bprocessing\b`,
				`\btraitement.*opération\b`, `\bgestionnaire.*opération\b`,
				`\boperation.*manager\b`, `\bprocess.*manager\b`,
			},
		},
		{
			Name: "Ressources Humaines",
			Patterns: []string{
				`\bRH\b`, `\bHR\b`, `\bhuman.*resource\b`, `\bressource.*humaine\b`,
				`\brecrutement\b`, `\brecruitment\b`, `\btalent\b`, `\bformation\b`,
				`\btraining\b`, `\bpaye\b`, `\bpayroll\b`, `\bcompensation\b`,
				`\brémunération\b`, `\bpeople\b`, `\bemployee\b`, `\bsalarié\b`,
			},
		},
		{
			Name: "Juridique",
			Patterns: []string{
				`\bjuridique\b`, `\blegal\b`, `\bavocat\b`, `\blawyer\b`,
				`\bconseiller.*juridique\b`, `\blegal.*counsel\b`, `\bcontrat\b`,
				`\bcontract\b`, `\bdroit\b`, `\blaw\b`, `\blitigation\b`,
				`\bcontentieux\b`,
			},
		},
		{
			Name: "Marketing et Communication",
			Patterns: []string{
				`\bmarketing\b`, `\bcommunication\b`, `\bpublicité\b`, `\badvertising\b`,
				`\bbrand\b`, `\bmarque\b`, `\bdigital.*marketing\b`, `\bcontent\b`,
				`\bsocial.*media\b`, `\bréseaux.*sociaux\b`, `\bevent\b`, `\bévénement\b`,
			},
		},
		{
			Name: "Inspection / Audit",
			Patterns: []string{
				`\baudit\b`, `\binspection\b`, `\binspecteur\b`, `\bauditor\b`,
				`\binternal.*audit\b`, `\baudit.*interne\b`, `\bcontrôle.*qualité\b`,
			},
		},
		{
			Name: "Analyse financière et économique",
			Patterns: []string{
				`\banalyste.*financier\b`, `\bfinancial.*analyst\b`, `\béconomiste\b`,
				`\beconomist\b`, `\banalyst.*economic\b`, `\banalyse.*économique\b`,
				`\bresearch\b`, `\bétude.*économique\b`,
			},
		},
		{
			Name: "Organisation / Qualité",
			Patterns: []string{
				`\borganisation\b`, `\bqualité\b`, `\bquality\b`, `\bprocess\b`,
				`\bamélioration.*continue\b`, `\bcontinuous.*improvement\b`,
				`\blean\b`, `\bsix.*sigma\b`, `\btransformation\b`,
			},
		},
		{
			Name: "Achat",
			Patterns: []string{
				`\bachat\b`, `\bpurchas`, `\bprocurement\b`, `\bacheteur\b`,
				`\bbuyer\b`, `\bsourcing\b`, `\bfournisseur\b`, `\bsupplier\b`,
			},
		},
	}
}
