package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/careers-sync/internal/fetch"
	"github.com/jonathan/careers-sync/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailHTML = `
<html><body>
  <nav>Menu</nav>
  <h1 class="offer-title">  Analyste Risques H/F </h1>
  <p class="publication-date">Date de publication : 15/03/2025</p>
  <span class="ref" data-ref="REF-42">Ref</span>
  <dl>
    <dt class="information-title">Localisation</dt>
    <dd>Paris (France)</dd>
    <dt class="information-title">Niveau d'études</dt>
    <dd>Bac + 5 / M2 et plus</dd>
    <dt class="information-title">Compétences techniques</dt>
    <dd><ul><li>SQL</li><li>Python</li></ul></dd>
    <dt class="information-title">Langues</dt>
    <dd>Anglais, Français</dd>
  </dl>
  <section class="offer-content">
    <p>Vous rejoignez l'équipe risques.</p>
    <form>Postuler</form>
  </section>
</body></html>`

func newSite(t *testing.T, pages map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if body == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func listing(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<a class="offer" href="%s">offer</a>`, h)
	}
	b.WriteString(`<a href="/about">About</a></body></html>`)
	return b.String()
}

func testConfig(listingURL string) Config {
	return Config{
		Name:         "bank",
		EmployerName: "Banque Test",
		Discovery: Discovery{
			ListingURLs:  []string{listingURL},
			StartPage:    1,
			LinkSelector: "a.offer",
			HrefContains: []string{"/offres/"},
		},
		Fields: map[string]FieldSelector{
			types.FieldTitle:           {Selector: "h1.offer-title"},
			types.FieldPublicationDate: {Selector: "p.publication-date"},
			types.FieldExternalID:      {Selector: "span.ref", Attr: "data-ref"},
		},
		Labels: &Labels{
			Rules: []LabelRule{
				{Contains: "localisation", Field: types.FieldLocation},
				{Contains: "études", Field: types.FieldEducationLevel},
				{Contains: "compétences techniques", Field: types.ListTechnicalSkills, List: true},
				{Contains: "langues", Field: types.ListLanguages, List: true},
			},
		},
	}
}

func TestSelectorAdapter_DiscoverURLs_Paginated(t *testing.T) {
	srv, _ := newSite(t, map[string]string{
		"/offers/page/1": listing("/offres/1#apply", "/offres/2", "https://elsewhere.example/x"),
		"/offers/page/2": listing("/offres/2", "/offres/3"),
	})

	a := NewSelectorAdapter(testConfig(srv.URL+"/offers/page/{page}"), fetch.NewClient(nil, nil), nil)
	urls, err := a.DiscoverURLs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		srv.URL + "/offres/1",
		srv.URL + "/offres/2",
		srv.URL + "/offres/3",
	}, urls.Sorted())
}

func TestSelectorAdapter_DiscoverURLs_StopsOnPageWithoutNewLinks(t *testing.T) {
	srv, hits := newSite(t, map[string]string{
		"/offers/page/1": listing("/offres/1"),
		"/offers/page/2": listing("/offres/1"),
		"/offers/page/3": listing("/offres/9"),
	})

	a := NewSelectorAdapter(testConfig(srv.URL+"/offers/page/{page}"), fetch.NewClient(nil, nil), nil)
	urls, err := a.DiscoverURLs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, urls.Len())
	assert.Equal(t, int32(2), hits.Load())
}

func TestSelectorAdapter_DiscoverURLs_MaxPages(t *testing.T) {
	srv, hits := newSite(t, map[string]string{
		"/offers/page/1": listing("/offres/1"),
		"/offers/page/2": listing("/offres/2"),
		"/offers/page/3": listing("/offres/3"),
	})

	cfg := testConfig(srv.URL + "/offers/page/{page}")
	cfg.Discovery.MaxPages = 2
	a := NewSelectorAdapter(cfg, fetch.NewClient(nil, nil), nil)
	urls, err := a.DiscoverURLs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, urls.Len())
	assert.Equal(t, int32(2), hits.Load())
}

func TestSelectorAdapter_DiscoverURLs_Failures(t *testing.T) {
	tests := []struct {
		name  string
		pages map[string]string
	}{
		{name: "first page missing", pages: map[string]string{}},
		{name: "server error mid pagination", pages: map[string]string{
			"/offers/page/1": listing("/offres/1"),
			"/offers/page/2": "500",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newSite(t, tt.pages)
			a := NewSelectorAdapter(testConfig(srv.URL+"/offers/page/{page}"), fetch.NewClient(nil, nil), nil)
			_, err := a.DiscoverURLs(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestSelectorAdapter_DiscoverURLs_SinglePage(t *testing.T) {
	srv, _ := newSite(t, map[string]string{
		"/jobs": listing("offres/1", "/offres/2"),
	})

	a := NewSelectorAdapter(testConfig(srv.URL+"/jobs"), fetch.NewClient(nil, nil), nil)
	urls, err := a.DiscoverURLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/offres/1", srv.URL + "/offres/2"}, urls.Sorted())
}

func TestSelectorAdapter_FetchDetail(t *testing.T) {
	srv, _ := newSite(t, map[string]string{"/offres/1": detailHTML})

	a := NewSelectorAdapter(testConfig(srv.URL+"/jobs"), fetch.NewClient(nil, nil), nil)
	raw, err := a.FetchDetail(context.Background(), srv.URL+"/offres/1")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/offres/1", raw.URL)
	assert.Equal(t, "Analyste Risques H/F", raw.Get(types.FieldTitle))
	assert.Equal(t, "Date de publication : 15/03/2025", raw.Get(types.FieldPublicationDate))
	assert.Equal(t, "REF-42", raw.Get(types.FieldExternalID))
	assert.Equal(t, "Paris (France)", raw.Get(types.FieldLocation))
	assert.Equal(t, "Bac + 5 / M2 et plus", raw.Get(types.FieldEducationLevel))
	assert.Equal(t, []string{"SQL", "Python"}, raw.List(types.ListTechnicalSkills))
	assert.Equal(t, []string{"Anglais", "Français"}, raw.List(types.ListLanguages))
	assert.Equal(t, "Vous rejoignez l'équipe risques.", raw.Get(types.FieldDescription))
	assert.Equal(t, "Banque Test", raw.Get(types.FieldEmployerName))
}

func TestSelectorAdapter_FetchDetailError(t *testing.T) {
	srv, _ := newSite(t, map[string]string{})

	a := NewSelectorAdapter(testConfig(srv.URL+"/jobs"), fetch.NewClient(nil, nil), nil)
	_, err := a.FetchDetail(context.Background(), srv.URL+"/offres/404")

	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestSelectorAdapter_ConfiguredFieldWinsOverLabel(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<div class="loc">Lyon</div>
		<dl><dt>Localisation</dt><dd>Paris</dd></dl>
		<div class="desc">Texte</div>
	</body></html>`))
	require.NoError(t, err)

	cfg := testConfig("https://bank.example/jobs")
	cfg.Fields = map[string]FieldSelector{
		types.FieldLocation:    {Selector: ".loc"},
		types.FieldDescription: {Selector: ".desc"},
	}
	raw := NewSelectorAdapter(cfg, nil, nil).Extract("https://bank.example/offres/1", doc)

	assert.Equal(t, "Lyon", raw.Get(types.FieldLocation))
	assert.Equal(t, "Texte", raw.Get(types.FieldDescription))
}

func TestConfig_FetchOptions(t *testing.T) {
	cfg := Config{Timeout: "5s", UserAgent: "ua", RequestsPerSecond: 2, Burst: 3, UseBrowser: true}
	opts, err := cfg.FetchOptions()
	require.NoError(t, err)
	assert.Equal(t, "5s", opts.Timeout.String())
	assert.Equal(t, "ua", opts.UserAgent)
	assert.Equal(t, 2.0, opts.RequestsPerSecond)
	assert.Equal(t, 3, opts.Burst)
	assert.True(t, opts.UseBrowser)

	_, err = (&Config{Timeout: "soon"}).FetchOptions()
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{KindSelector}, r.Kinds())

	a, err := r.Build(testConfig("https://bank.example/jobs"), nil)
	require.NoError(t, err)
	assert.Equal(t, "bank", a.Name())

	cfg := testConfig("https://bank.example/jobs")
	cfg.Kind = "graphql"
	_, err = r.Build(cfg, nil)
	assert.Error(t, err)

	cfg = testConfig("https://bank.example/jobs")
	cfg.Timeout = "never"
	_, err = r.Build(cfg, nil)
	assert.Error(t, err)
}
