package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router   *gin.Engine
	catalog  *mockCatalogService
	ratings  *mockRatingService
	comments *mockCommentService
}

func newTestAPI() *testAPI {
	api := &testAPI{
		catalog:  &mockCatalogService{},
		ratings:  &mockRatingService{},
		comments: &mockCommentService{},
	}
	r := gin.New()
	g := r.Group("/catalog")
	auth := middleware.AuthMiddleware("secret")
	NewCatalogHandler(api.catalog).RegisterRoutes(g, auth)
	NewRatingHandler(api.ratings).RegisterRoutes(g, auth)
	NewCommentHandler(api.comments).RegisterRoutes(g, auth)
	api.router = r
	return api
}

type caller struct {
	userID, role, artistID string
}

var (
	anonymous   = caller{}
	artistUser  = caller{userID: "u-1", role: "artist", artistID: "10"}
	regularUser = caller{userID: "u-3", role: "user"}
	adminUser   = caller{userID: "u-0", role: "admin"}
)

func (api *testAPI) do(method, path, body string, who caller) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if who.userID != "" {
		req.Header.Set("X-User-ID", who.userID)
		req.Header.Set("X-User-Role", who.role)
		req.Header.Set("X-Artist-ID", who.artistID)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const validSong = `{
	"tituloCancion": "Cancion Test",
	"idGenero": 2,
	"precioCancion": "0.99",
	"duracion": 200,
	"urlAudio": "https://cdn.example.com/s.mp3"
}`

func TestListGenres(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodGet, "/catalog/genres", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)

	var genres []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &genres))
	require.Len(t, genres, len(domain.GenreIDs()))
	assert.Equal(t, "Rock", genres[0]["nombreGenero"])
	assert.EqualValues(t, 2, genres[1]["idGenero"])
	assert.Equal(t, "Pop", genres[1]["nombreGenero"])
}

func TestGetGenre(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodGet, "/catalog/genres/2", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"idGenero":2,"nombreGenero":"Pop"}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/catalog/genres/99", "", anonymous).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/catalog/genres/pop", "", anonymous).Code)
}

func TestCreateSong(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodPost, "/catalog/songs", validSong, artistUser)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Pop", body["genero"])
	assert.EqualValues(t, 4, body["valoracionMedia"])
	assert.EqualValues(t, 2, body["totalComentarios"])
	assert.Equal(t, []interface{}{}, body["albumes"])

	assert.Equal(t, int64(10), api.catalog.lastActor.ArtistID)
	assert.Equal(t, "u-1", api.catalog.lastActor.UserID)
	assert.Equal(t, "0.99", api.catalog.lastCreate.Price.String())
}

func TestCreateSongRejections(t *testing.T) {
	api := newTestAPI()

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/catalog/songs", validSong, anonymous).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/catalog/songs", validSong, regularUser).Code)

	badGenre := strings.Replace(validSong, `"idGenero": 2`, `"idGenero": 99`, 1)
	w := api.do(http.MethodPost, "/catalog/songs", badGenre, artistUser)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "idGenero")

	w = api.do(http.MethodPost, "/catalog/songs", `{"idGenero": 2}`, artistUser)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "tituloCancion is required")

	xss := strings.Replace(validSong, "Cancion Test", "<script>alert(1)</script>", 1)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/catalog/songs", xss, artistUser).Code)
}

func TestGetSongViews(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodGet, "/catalog/songs/7", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 7, body["idCancion"])
	album := body["album"].(map[string]interface{})
	assert.EqualValues(t, 3, album["idAlbum"])

	w = api.do(http.MethodGet, "/catalog/songs/7/detail", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["albumes"], 2)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/catalog/songs/abc", "", anonymous).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/catalog/songs/0", "", anonymous).Code)
}

func TestListSongsQuery(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodGet, "/catalog/songs?genre=2&page=2&size=5&q=amor", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.Equal(t, 2, api.catalog.lastSongQ.GenreID)
	assert.Equal(t, 2, api.catalog.lastSongQ.Page)
	assert.Equal(t, 5, api.catalog.lastSongQ.Size)
	assert.Equal(t, "amor", api.catalog.lastSongQ.Query)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/catalog/songs?genre=99", "", anonymous).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/catalog/songs?size=1000", "", anonymous).Code)
}

func TestUpdateSongPartial(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodPatch, "/catalog/songs/1", `{"tituloCancion":"Nuevo"}`, artistUser)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, api.catalog.lastUpdate.Title)
	assert.Equal(t, "Nuevo", *api.catalog.lastUpdate.Title)
	assert.Nil(t, api.catalog.lastUpdate.GenreID)
	assert.Nil(t, api.catalog.lastUpdate.Price)
}

func TestMediaURLValidation(t *testing.T) {
	api := newTestAPI()

	cases := []struct {
		name, method, path, body, wantErr string
	}{
		{"create song with malformed audio url", http.MethodPost, "/catalog/songs",
			strings.Replace(validSong, "https://cdn.example.com/s.mp3", "not a url", 1), "urlAudio must be a valid URL"},
		{"create song with script audio url", http.MethodPost, "/catalog/songs",
			strings.Replace(validSong, "https://cdn.example.com/s.mp3", "javascript:alert(1)", 1), "urlAudio must be an http or https URL"},
		{"update song with malformed audio url", http.MethodPatch, "/catalog/songs/1",
			`{"urlAudio":"not a url"}`, "urlAudio must be a valid URL"},
		{"update song with script artwork url", http.MethodPatch, "/catalog/songs/1",
			`{"urlPortada":"javascript:alert(1)"}`, "urlPortada must be an http or https URL"},
		{"create album with ftp artwork url", http.MethodPost, "/catalog/albums",
			`{"tituloAlbum":"Disco","idGenero":2,"urlPortada":"ftp://cdn.example.com/a.png"}`, "urlPortada must be an http or https URL"},
		{"update album with script artwork url", http.MethodPatch, "/catalog/albums/5",
			`{"urlPortada":"javascript:alert(1)"}`, "urlPortada must be an http or https URL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api.catalog.lastUpdate = nil
			w := api.do(tc.method, tc.path, tc.body, artistUser)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, decode(t, w)["error"], tc.wantErr)
			assert.Nil(t, api.catalog.lastUpdate)
		})
	}

	w := api.do(http.MethodPatch, "/catalog/songs/1", `{"urlPortada":"HTTPS://cdn.example.com/c.png"}`, artistUser)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, api.catalog.lastUpdate.ArtworkURL)
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, isHTTPURL("http://example.com"))
	assert.True(t, isHTTPURL("https://cdn.example.com/a/b.mp3?x=1"))
	assert.False(t, isHTTPURL("javascript:alert(1)"))
	assert.False(t, isHTTPURL("data:text/html,hi"))
	assert.False(t, isHTTPURL("https:///no-host"))
	assert.False(t, isHTTPURL("/relative/path"))
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: song", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not yours", service.ErrForbidden), http.StatusForbidden},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: dup", service.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: %w", service.ErrInvalidInput, domain.ErrInvalidGenre), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		api := newTestAPI()
		api.catalog.err = tc.err

		w := api.do(http.MethodDelete, "/catalog/songs/1", "", artistUser)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
		if tc.want == http.StatusInternalServerError {
			assert.Equal(t, "internal server error", decode(t, w)["error"])
		}
	}
}

func TestDeleteAndPlay(t *testing.T) {
	api := newTestAPI()

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/catalog/songs/1", "", artistUser).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodDelete, "/catalog/songs/1", "", anonymous).Code)

	w := api.do(http.MethodPost, "/catalog/songs/1/plays", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["reproducciones"])
}

func TestAlbumRoutes(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodPost, "/catalog/albums", `{"tituloAlbum":"Disco","idGenero":1}`, artistUser)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Disco", decode(t, w)["tituloAlbum"])

	w = api.do(http.MethodPost, "/catalog/albums/5/tracks", `{"idCancion":1,"numeroPista":3}`, artistUser)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, api.catalog.lastTrack.TrackNumber)
	assert.Equal(t, 3, *api.catalog.lastTrack.TrackNumber)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/catalog/albums/5/tracks", `{"numeroPista":3}`, artistUser).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/catalog/albums/5/tracks/1", "", artistUser).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/catalog/albums/5/detail", "", anonymous).Code)
}

func TestRatingRoutes(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodPut, "/catalog/albums/5/rating", `{"valoracion":4}`, regularUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.TargetAlbum, api.ratings.lastKind)
	assert.Equal(t, 4, api.ratings.lastVal)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, "/catalog/songs/5/rating", `{"valoracion":6}`, regularUser).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPut, "/catalog/songs/5/rating", `{"valoracion":3}`, anonymous).Code)

	w = api.do(http.MethodGet, "/catalog/songs/5/rating/stats", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tipo":"song","idElemento":5,"valoracionMedia":3.67,"totalValoraciones":3}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/catalog/songs/5/rating", "", regularUser).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/catalog/songs/5/rating", "", regularUser).Code)
}

func TestListRatingsAdminOnly(t *testing.T) {
	api := newTestAPI()

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/catalog/songs/5/ratings", "", anonymous).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/catalog/songs/5/ratings", "", regularUser).Code)

	w := api.do(http.MethodGet, "/catalog/albums/5/ratings", "", adminUser)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.TargetAlbum, api.ratings.lastKind)

	var ratings []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ratings))
	require.Len(t, ratings, 1)
	assert.EqualValues(t, 5, ratings[0]["valoracion"])
}

func TestCommentRoutes(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodPost, "/catalog/songs/1/comments", `{"contenido":"  <b>buena</b> "}`, regularUser)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "buena", api.comments.lastContent)

	w = api.do(http.MethodPost, "/catalog/songs/1/comments", `{"contenido":"<script>x</script>"}`, regularUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/catalog/albums/2/comments?limit=5", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, api.comments.lastLimit)
	assert.Equal(t, domain.TargetAlbum, api.comments.lastKind)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/catalog/albums/2/comments?limit=0", "", anonymous).Code)

	w = api.do(http.MethodDelete, "/catalog/comments/songs/1/abc", "", regularUser)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, domain.TargetSong, api.comments.lastKind)
	assert.Equal(t, "abc", api.comments.lastID)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, "/catalog/comments/playlist/1/abc", "", regularUser).Code)
}
