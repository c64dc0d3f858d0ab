package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"

	"github.com/ewilliams-labs/soundcheck/internal/adapters/sqlite"
	"github.com/ewilliams-labs/soundcheck/internal/core/domain"
	"github.com/ewilliams-labs/soundcheck/internal/core/ports"
	"github.com/ewilliams-labs/soundcheck/internal/core/query"
	"github.com/ewilliams-labs/soundcheck/internal/core/services"
	"github.com/ewilliams-labs/soundcheck/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zerolog.Nop())
	os.Exit(m.Run())
}

// --- Helpers ---

// newTestHandler serves testdata/catalog.yaml, with any extra datasets
// seeded on top.
func newTestHandler(t *testing.T, opts Options, extra ...sqlite.Dataset) *Handler {
	t.Helper()

	f, err := os.Open("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer f.Close()
	ds, err := sqlite.LoadDataset(f)
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}

	store, err := sqlite.NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	for _, d := range append([]sqlite.Dataset{ds}, extra...) {
		if err := store.Seed(context.Background(), d); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	return NewHandler(services.NewCatalog(store), opts)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func decodeSongIDs(t *testing.T, rec *httptest.ResponseRecorder) []int {
	t.Helper()
	var songs []domain.Song
	if err := json.Unmarshal(rec.Body.Bytes(), &songs); err != nil {
		t.Fatalf("decode songs %q: %v", rec.Body.String(), err)
	}
	ids := make([]int, len(songs))
	for i, s := range songs {
		ids[i] = s.SongID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Tests ---

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		expectedStatus int
		expectedError  string
	}{
		{"artist id not a number", http.MethodGet, "/api/artists/abc", 400, "Invalid artist ID. Must be a number."},
		{"artist id with suffix", http.MethodGet, "/api/artists/12abc", 400, "Invalid artist ID. Must be a number."},
		{"artist missing", http.MethodGet, "/api/artists/99", 404, "No artist found with ID 99."},
		{"averages id not a number", http.MethodGet, "/api/artists/averages/x", 400, "Invalid artist ID. Must be a number."},
		{"averages without songs", http.MethodGet, "/api/artists/averages/4", 404, "No songs found for artist ID 4."},
		{"sort field unknown", http.MethodGet, "/api/songs/sort/popularity", 400, "Invalid sort field. Valid options: id, title, artist, genre, year, duration."},
		{"prefix no match", http.MethodGet, "/api/songs/search/begin/zzz", 404, `No songs found with title beginning with "zzz".`},
		{"substring no match", http.MethodGet, "/api/songs/search/any/qq", 404, `No songs found containing "qq" in title.`},
		{"year not a number", http.MethodGet, "/api/songs/search/year/nineteen", 400, "Invalid year. Must be a number."},
		{"year no match", http.MethodGet, "/api/songs/search/year/1800", 404, "No songs found for year 1800."},
		{"songs by artist not a number", http.MethodGet, "/api/songs/artist/x", 400, "Invalid artist ID. Must be a number."},
		{"songs by artist none", http.MethodGet, "/api/songs/artist/4", 404, "No songs found for artist ID 4."},
		{"genre id not a number", http.MethodGet, "/api/songs/genre/x", 400, "Invalid genre ID. Must be a number."},
		{"genre without songs", http.MethodGet, "/api/songs/genre/3", 404, "No songs found for genre ID 3."},
		{"song id not a number", http.MethodGet, "/api/songs/1.5", 400, "Invalid song ID. Must be a number."},
		{"song missing", http.MethodGet, "/api/songs/99", 404, "No song found with ID 99."},
		{"playlist id not a number", http.MethodGet, "/api/playlists/x", 400, "Invalid playlist ID. Must be a number."},
		{"playlist missing", http.MethodGet, "/api/playlists/2", 404, "No playlist found with ID 2."},
		{"unknown mood", http.MethodGet, "/api/mood/sleepy/5", 404, "Route not found"},
		{"unknown api path", http.MethodGet, "/api/albums", 404, "Route not found"},
		{"unknown root path", http.MethodGet, "/nope", 404, "Route not found"},
		{"write method", http.MethodPost, "/api/songs", 404, "Route not found"},
		{"delete method", http.MethodDelete, "/api/artists/1", 404, "Route not found"},
	}

	h := newTestHandler(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.target)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
			if got := decodeError(t, rec); got != tt.expectedError {
				t.Fatalf("expected error %q, got %q", tt.expectedError, got)
			}
		})
	}
}

func TestHandler_SongLists(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []int
	}{
		{"all by title", "/api/songs", []int{5, 1, 4, 6, 2, 3}},
		{"sort by year", "/api/songs/sort/year", []int{6, 3, 4, 5, 2, 1}},
		{"sort by id", "/api/songs/sort/id", []int{1, 2, 3, 4, 5, 6}},
		{"sort by artist any case", "/api/songs/sort/ARTIST", []int{1, 2, 5, 3, 4, 6}},
		{"sort by genre", "/api/songs/sort/Genre", []int{1, 2, 3, 4, 5, 6}},
		{"sort by duration", "/api/songs/sort/duration", []int{3, 6, 2, 4, 1, 5}},
		{"prefix ignores case", "/api/songs/search/begin/LE", []int{4}},
		{"substring", "/api/songs/search/any/in", []int{2}},
		{"substring with escaped space", "/api/songs/search/any/the%20deep", []int{2}},
		{"year", "/api/songs/search/year/1965", []int{3}},
		{"by artist", "/api/songs/artist/2", []int{4, 6, 3}},
		{"by genre", "/api/songs/genre/1", []int{1, 2}},
		{"dancing with limit", "/api/mood/dancing/3", []int{2, 5, 1}},
		{"dancing without limit puts nulls last", "/api/mood/dancing", []int{2, 5, 1, 4, 3, 6}},
		{"happy", "/api/mood/happy/2", []int{6, 2}},
		{"coffee with bad limit", "/api/mood/coffee/abc", []int{2, 5, 1, 4, 3}},
		{"coffee with limit out of range", "/api/mood/coffee/50", []int{2, 5, 1, 4, 3}},
		{"studying", "/api/mood/studying/2", []int{3, 4}},
	}

	h := newTestHandler(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d, body: %s", rec.Code, rec.Body.String())
			}
			if got := decodeSongIDs(t, rec); !equalInts(got, tt.want) {
				t.Fatalf("expected songs %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHandler_GetSong(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(h, http.MethodGet, "/api/songs/5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json content type, got %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["title"] != "Clocks" {
		t.Fatalf("expected Clocks, got %v", body["title"])
	}
	artists, _ := body["artists"].(map[string]any)
	if artists["artist_name"] != "Coldplay" {
		t.Fatalf("expected embedded artist Coldplay, got %v", body["artists"])
	}
	genres, _ := body["genres"].(map[string]any)
	if genres["genre_name"] != "Rock" {
		t.Fatalf("expected embedded genre Rock, got %v", body["genres"])
	}
	if _, ok := body["popularity"]; !ok {
		t.Fatalf("expected popularity key in %v", body)
	}
}

func TestHandler_NullFeaturesStayNull(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(h, http.MethodGet, "/api/songs/6")
	if !strings.Contains(rec.Body.String(), `"danceability":null`) {
		t.Fatalf("expected null danceability, got %s", rec.Body.String())
	}
}

func intPtr(v int) *int { return &v }

func TestHandler_SongsMissingArtistOrGenreAreHidden(t *testing.T) {
	h := newTestHandler(t, Options{}, sqlite.Dataset{
		Songs: []sqlite.SongRecord{
			{ID: 7, Title: "Ghost Track", Year: intPtr(2001), ArtistID: intPtr(99), GenreID: intPtr(1)},
			{ID: 8, Title: "Genreless", Year: intPtr(2003), ArtistID: intPtr(1), GenreID: intPtr(97)},
			{ID: 9, Title: "Someone Like You", ArtistID: intPtr(1), GenreID: intPtr(1)},
		},
		Playlists: []sqlite.PlaylistRecord{{ID: 2, SongIDs: []int{7, 9, 8}}},
	})

	t.Run("song lists", func(t *testing.T) {
		for _, target := range []string{"/api/songs", "/api/songs/genre/1", "/api/songs/artist/1", "/api/mood/happy/100"} {
			rec := do(h, http.MethodGet, target)
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected status 200, got %d", target, rec.Code)
			}
			for _, id := range decodeSongIDs(t, rec) {
				if id == 7 || id == 8 {
					t.Fatalf("%s: song %d has no artist or genre but was returned", target, id)
				}
			}
		}
	})

	t.Run("single song", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/api/songs/7")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if msg := decodeError(t, rec); msg != "No song found with ID 7." {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("playlist", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/api/playlists/2")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var entries []domain.PlaylistEntry
		if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(entries) != 1 || entries[0].SongID != 9 {
			t.Fatalf("expected only song 9, got %+v", entries)
		}
	})

	t.Run("missing year is null", func(t *testing.T) {
		for _, target := range []string{"/api/songs/9", "/api/playlists/2"} {
			rec := do(h, http.MethodGet, target)
			if !strings.Contains(rec.Body.String(), `"year":null`) {
				t.Fatalf("%s: expected null year, got %s", target, rec.Body.String())
			}
		}
	})
}

func TestHandler_SearchTextIsDecodedOnce(t *testing.T) {
	h := newTestHandler(t, Options{}, sqlite.Dataset{
		Songs: []sqlite.SongRecord{
			{ID: 10, Title: "100%41 Pure", Year: intPtr(1999), ArtistID: intPtr(3), GenreID: intPtr(2)},
		},
	})

	// %2541 is the literal text "%41", which must not become "A".
	rec := do(h, http.MethodGet, "/api/songs/search/any/%2541")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ids := decodeSongIDs(t, rec); !equalInts(ids, []int{10}) {
		t.Fatalf("expected only song 10, got %v", ids)
	}

	rec = do(h, http.MethodGet, "/api/songs/search/begin/Let%20It")
	if ids := decodeSongIDs(t, rec); !equalInts(ids, []int{4}) {
		t.Fatalf("expected Let It Be, got %v", ids)
	}
}

func TestHandler_Artists(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(h, http.MethodGet, "/api/artists")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var artists []domain.Artist
	if err := json.Unmarshal(rec.Body.Bytes(), &artists); err != nil {
		t.Fatalf("decode: %v", err)
	}
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.ArtistName
	}
	if strings.Join(names, ",") != "Adele,Coldplay,The Beatles,Unsung" {
		t.Fatalf("unexpected artist order %v", names)
	}
	if artists[1].Type != nil {
		t.Fatalf("expected Coldplay without type, got %+v", artists[1].Type)
	}

	rec = do(h, http.MethodGet, "/api/artists/1")
	var adele domain.Artist
	if err := json.Unmarshal(rec.Body.Bytes(), &adele); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if adele.Type == nil || adele.Type.TypeName != "Solo" || adele.SpotifyURL == nil {
		t.Fatalf("unexpected artist %+v", adele)
	}
}

func TestHandler_ArtistAverages(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(h, http.MethodGet, "/api/artists/averages/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body: %s", rec.Code, rec.Body.String())
	}
	var got domain.ArtistAverages
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ArtistID != 2 || got.SongCount != 3 {
		t.Fatalf("unexpected identity %+v", got)
	}
	if got.BPM != 129.33 || got.Danceability != 0.26 || got.Popularity != 54 {
		t.Fatalf("unexpected averages %+v", got)
	}
}

func TestHandler_Genres(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(h, http.MethodGet, "/api/genres")
	want := `[{"genre_id":1,"genre_name":"Pop"},{"genre_id":2,"genre_name":"Rock"},{"genre_id":3,"genre_name":"Jazz"}]`
	if strings.TrimSpace(rec.Body.String()) != want {
		t.Fatalf("expected %s, got %s", want, rec.Body.String())
	}
}

func TestHandler_PlaylistGolden(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(h, http.MethodGet, "/api/playlists/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "playlist_1", rec.Body.Bytes())
}

// failingStore fails every query the way PostgREST reports a missing table.
type failingStore struct{}

func (failingStore) Execute(context.Context, query.Query, any) error {
	return &ports.StoreError{Message: `relation "public.songs" does not exist`}
}

func TestHandler_StoreFailureIs500(t *testing.T) {
	h := NewHandler(services.NewCatalog(failingStore{}), Options{})

	for _, target := range []string{"/api/songs", "/api/songs/1", "/api/artists/averages/1", "/api/playlists/1", "/api/mood/coffee/3"} {
		t.Run(target, func(t *testing.T) {
			rec := do(h, http.MethodGet, target)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", rec.Code)
			}
			if got := decodeError(t, rec); got != `relation "public.songs" does not exist` {
				t.Fatalf("expected store message, got %q", got)
			}
		})
	}
}

func TestHandler_HealthAndRequestID(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := do(h, http.MethodGet, "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected caller request id to be echoed, got %q", got)
	}
}

func TestHandler_Metrics(t *testing.T) {
	h := newTestHandler(t, Options{})
	do(h, http.MethodGet, "/api/genres")

	rec := do(h, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `soundcheck_api_requests_total{method="GET",route="/api/genres",status_code="200"}`) {
		t.Fatalf("expected request counter for /api/genres in metrics output")
	}
}

func TestHandler_CORS(t *testing.T) {
	h := newTestHandler(t, Options{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodGet, "/api/genres", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/genres", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}
