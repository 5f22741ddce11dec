package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/LJTian/NewsSieve/internal/collector"
	"github.com/LJTian/NewsSieve/internal/matcher"
	"github.com/LJTian/NewsSieve/internal/pipeline"
)

var kst = time.FixedZone("KST", 9*3600)

type fakeRunner struct {
	calls []pipeline.Request
	res   pipeline.Result
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) pipeline.Result {
	f.calls = append(f.calls, req)
	return f.res
}

var testGroups = []matcher.KeywordGroup{
	{Name: "시경", Keywords: []string{"서울경찰청", "서울청"}},
	{Name: "종혜북", Keywords: []string{"종로", "혜화"}},
	{Name: "강남", Keywords: []string{"강남"}},
}

func newTestEngine(runner Runner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewServer(runner, testGroups, []string{"시경", "종혜북"}, nil, kst).RegisterRoutes(r)
	return r
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func postCollect(t *testing.T, r *gin.Engine, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	bs, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/collect", bytes.NewReader(bs))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHealth(t *testing.T) {
	r := newTestEngine(&fakeRunner{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListGroups(t *testing.T) {
	r := newTestEngine(&fakeRunner{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/groups", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var data struct {
		Groups   []matcher.KeywordGroup `json:"groups"`
		Defaults []string               `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Groups, 3)
	require.Equal(t, []string{"시경", "종혜북"}, data.Defaults)
}

func TestCollect(t *testing.T) {
	runner := &fakeRunner{res: pipeline.Result{
		Articles: []collector.Article{{
			ListingEntry: collector.ListingEntry{
				Source:      collector.SourceNewsis,
				Title:       "종로 화재",
				URL:         "https://www.newsis.com/view/1",
				PublishedAt: time.Date(2025, 3, 4, 10, 0, 0, 0, kst),
			},
			Body:    "종로구 화재 현장",
			Fetched: true,
			Matched: []string{"종로"},
		}},
		CopyText: "△종로 화재\n-종로구 화재 현장\n\n",
		Sources:  []pipeline.SourceReport{{Source: collector.SourceNewsis, Stop: collector.StopWindowPassed}},
	}}
	r := newTestEngine(runner)

	w, env := postCollect(t, r, gin.H{
		"start":    "2025-03-04 09:00",
		"end":      "2025-03-04T18:00:00+09:00",
		"groups":   []string{"종혜북"},
		"keywords": []string{"화재", "종로", " "},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", env.Code)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	require.Equal(t, []string{"종로", "혜화", "화재"}, call.Keywords)
	require.True(t, call.Window.Start.Equal(time.Date(2025, 3, 4, 9, 0, 0, 0, kst)))
	require.True(t, call.Window.End.Equal(time.Date(2025, 3, 4, 18, 0, 0, 0, kst)))

	var data collectResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Articles, 1)
	a := data.Articles[0]
	require.Equal(t, "newsis", a.Source)
	require.Equal(t, "**종로**구 화재 현장", a.Highlighted)
	require.Len(t, a.ID, 40)
	require.Equal(t, runner.res.CopyText, data.CopyText)
	require.Len(t, data.Sources, 1)
}

func TestCollectDefaultsToDefaultGroups(t *testing.T) {
	runner := &fakeRunner{}
	r := newTestEngine(runner)

	w, _ := postCollect(t, r, gin.H{"start": "2025-03-04 09:00", "end": "2025-03-04 18:00"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, runner.calls, 1)
	require.Equal(t, []string{"서울경찰청", "서울청", "종로", "혜화"}, runner.calls[0].Keywords)
}

func TestCollectRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body gin.H
	}{
		{"missing end", gin.H{"start": "2025-03-04 09:00"}},
		{"bad time", gin.H{"start": "yesterday", "end": "2025-03-04 18:00"}},
		{"inverted window", gin.H{"start": "2025-03-04 18:00", "end": "2025-03-04 09:00"}},
		{"unknown group", gin.H{"start": "2025-03-04 09:00", "end": "2025-03-04 18:00", "groups": []string{"부산"}}},
		{"no keywords", gin.H{"start": "2025-03-04 09:00", "end": "2025-03-04 18:00", "groups": []string{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{}
			w, env := postCollect(t, newTestEngine(runner), tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, "bad_request", env.Code)
			require.NotEmpty(t, env.Message)
			require.Empty(t, runner.calls)
		})
	}
}
