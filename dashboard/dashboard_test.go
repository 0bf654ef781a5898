package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devsstudio/skillsview/request"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersJSON = `{"success":true,"data":[{"id":11,"name":"Hong","email":"hong@example.com","created_at":"2024-03-01T09:30:00Z"}],` +
	`"columns":["id","name","email","created_at"],"page":2,"pageSize":10,"total":25,"totalPages":3}`

const licensesJSON = `{"success":true,"data":[{"license_id":1,"code":"RN-001"}],"columns":["license_id","code"]}`

func newAPI(t *testing.T, users, licenses http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users", users)
	mux.HandleFunc("/licenses", licenses)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client())
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestClient_Get(t *testing.T) {
	c := newAPI(t, reply(http.StatusOK, usersJSON), reply(http.StatusOK, licensesJSON))

	env, err := c.Get(context.Background(), "/users")

	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, 25, *env.Total)
	assert.Equal(t, json.Number("11"), env.Data[0]["id"])
}

func TestClient_Get_HTTPError(t *testing.T) {
	body := strings.Repeat("x", 1000)
	c := newAPI(t, reply(http.StatusBadGateway, body), reply(http.StatusOK, licensesJSON))

	_, err := c.Get(context.Background(), "/users")

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "HTTP 502 Bad Gateway\n"))
	assert.Equal(t, len("HTTP 502 Bad Gateway\n")+400, len(err.Error()))
}

func TestClient_Get_NotJSON(t *testing.T) {
	c := newAPI(t, reply(http.StatusOK, "<html>proxy login</html>"), reply(http.StatusOK, licensesJSON))

	_, err := c.Get(context.Background(), "/users")

	require.Error(t, err)
	assert.Equal(t, "JSON parse failed. Response preview:\n<html>proxy login</html>", err.Error())
}

func TestFetchAll_RunsConcurrently(t *testing.T) {
	var arrived sync.WaitGroup
	arrived.Add(2)
	both := make(chan struct{})
	go func() { arrived.Wait(); close(both) }()

	rendezvous := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			arrived.Done()
			select {
			case <-both:
				_, _ = io.WriteString(w, body)
			case <-time.After(2 * time.Second):
				w.WriteHeader(http.StatusGatewayTimeout)
			}
		}
	}
	c := newAPI(t, rendezvous(usersJSON), rendezvous(licensesJSON))

	s := FetchAll(context.Background(), c, request.UsersRequest{Page: 2, PageSize: 10})

	assert.Empty(t, s.Users.Failure())
	assert.Empty(t, s.Licenses.Failure())
}

func TestFetchAll_PartialFailure(t *testing.T) {
	c := newAPI(t,
		reply(http.StatusOK, usersJSON),
		reply(http.StatusInternalServerError, `{"success":false,"error":"database unavailable"}`))

	s := FetchAll(context.Background(), c, request.UsersRequest{Page: 1, PageSize: 20})

	assert.Empty(t, s.Users.Failure())
	assert.Contains(t, s.Licenses.Failure(), "HTTP 500")

	c = newAPI(t,
		reply(http.StatusOK, `{"success":false,"error":"database query failed"}`),
		reply(http.StatusOK, licensesJSON))

	s = FetchAll(context.Background(), c, request.UsersRequest{Page: 1, PageSize: 20})

	assert.Equal(t, "database query failed", s.Users.Failure())
	assert.Empty(t, s.Licenses.Failure())
}

func TestFetchAll_ForwardsFilters(t *testing.T) {
	var got url.Values
	c := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = io.WriteString(w, usersJSON)
	}, reply(http.StatusOK, licensesJSON))

	req := request.UsersRequest{Page: 3, PageSize: 50, School: "ABC", ExcludeTest: "true", Q: "kim"}
	FetchAll(context.Background(), c, req)

	assert.Equal(t, req.Values(), got)
}

func TestDisplayRange(t *testing.T) {
	start, end := DisplayRange(25, 2, 10)
	assert.Equal(t, 11, start)
	assert.Equal(t, 20, end)

	start, end = DisplayRange(25, 3, 10)
	assert.Equal(t, 21, start)
	assert.Equal(t, 25, end)

	start, end = DisplayRange(0, 1, 20)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)

	start, end = DisplayRange(25, math.MaxInt, 10)
	assert.Equal(t, (request.MaxPage-1)*10+1, start)
	assert.Equal(t, 25, end)
}

func TestBuildPager(t *testing.T) {
	req := request.UsersRequest{Page: 5, PageSize: 10, School: "ABC", ExcludeTest: "true", Q: "foo"}

	assert.Nil(t, BuildPager(req, 1, 1))

	p := BuildPager(req, 5, 12)
	require.NotNil(t, p)
	var numbers []int
	for _, l := range p.Links {
		numbers = append(numbers, l.Number)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7}, numbers)
	assert.True(t, p.Links[2].Current)

	for _, href := range []string{p.Prev, p.Next, p.Links[0].Href} {
		u, err := url.Parse(href)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "10", q.Get("pageSize"))
		assert.Equal(t, "ABC", q.Get("school"))
		assert.Equal(t, "true", q.Get("excludeTest"))
		assert.Equal(t, "foo", q.Get("q"))
	}
	assert.Equal(t, PageHref(req, 4), p.Prev)
	assert.Equal(t, PageHref(req, 6), p.Next)

	edge := BuildPager(req, 1, 3)
	assert.True(t, edge.AtFirst)
	assert.Equal(t, PageHref(req, 1), edge.Prev)
	assert.Len(t, edge.Links, 3)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", FormatCell(nil))
	assert.Equal(t, "1,234", FormatCell(json.Number("1234")))
	assert.Equal(t, "2024-03-01 09:30:00", FormatCell("2024-03-01T09:30:00Z"))
	assert.Equal(t, "2024-03-01T", FormatCell("2024-03-01T"))
	assert.Equal(t, "Hong", FormatCell("Hong"))
	assert.Equal(t, "true", FormatCell(true))
}

func TestBuildPage_HidesPassword(t *testing.T) {
	s := Sections{}
	s.Users.Envelope.Success = true
	s.Users.Envelope.Data = []map[string]interface{}{{"id": json.Number("1"), "password": "x"}}

	p := BuildPage(request.UsersRequest{Page: 1, PageSize: 20}, s, time.Now())

	assert.Equal(t, []string{"id"}, p.Users.Table.Columns)
	assert.Equal(t, 1, p.Users.Total)
}

func TestHome_RendersBothSectionsIndependently(t *testing.T) {
	c := newAPI(t,
		reply(http.StatusOK, usersJSON),
		reply(http.StatusInternalServerError, `{"success":false,"error":"database unavailable"}`))

	r := chi.NewRouter()
	NewHandler(c, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?page=2&pageSize=10&school=ABC", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "hong@example.com")
	assert.Contains(t, body, "2024-03-01 09:30:00")
	assert.Contains(t, body, "11-20")
	assert.Contains(t, body, "HTTP 500")
	assert.Contains(t, body, `value="ABC"`)
	assert.Contains(t, body, "page=3&amp;pageSize=10&amp;school=ABC")
}

func TestHome_UsersFailureStillShowsLicenses(t *testing.T) {
	c := newAPI(t,
		reply(http.StatusInternalServerError, "upstream exploded"),
		reply(http.StatusOK, licensesJSON))

	r := chi.NewRouter()
	NewHandler(c, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "RN-001")
	assert.Contains(t, body, "upstream exploded")
}
