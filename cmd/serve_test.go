package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsphweid/pond/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fragmentPiece = `{"staves": [{"time": "4/4", "voices": [{"kind": "fragment", "items": [
	{"note": {"pitch": "c", "octave": 1}},
	{"rest": "4"},
	{"note": {"pitch": "d", "octave": 1, "duration": "8."}}
]}]}]}`

func do(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, req)
	return w
}

func TestHandleRender(t *testing.T) {
	w := do(t, http.MethodPost, "/render", fragmentPiece)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert := assert.New(t)
	assert.True(strings.HasPrefix(res.Markup, "\\version "))
	assert.Contains(res.Markup, "\\time 4/4\nc'4 r4 d'8.\n}")
	assert.Contains(res.Markup, "\\score {\n<<\\new Staff {")
}

func TestHandleRenderErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"garbage", `{"staves": [`, "could not decode piece json"},
		{"bad token", `{"staves": [{"voices": [{"items": [{"rest": "5"}]}]}]}`, "invalid duration"},
		{"bad pitch", `{"staves": [{"voices": [{"items": [{"note": {"pitch": "q"}}]}]}]}`, "q"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := do(t, http.MethodPost, "/render", c.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var res model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Contains(t, res.Error, c.want)
		})
	}
}

func TestHandleSplit(t *testing.T) {
	cases := []struct {
		body string
		want []string
	}{
		{`{"duration": "1.5"}`, []string{"4."}},
		{`{"duration": "8"}`, []string{"1.", "2"}},
		{`{"duration": "8", "cap": "4"}`, []string{"1", "1"}},
		{`{"duration": "9/8"}`, []string{"4", "32"}},
	}
	for _, c := range cases {
		w := do(t, http.MethodPost, "/split", c.body)
		require.Equal(t, http.StatusOK, w.Code, c.body)

		var res model.SplitResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, c.want, res.Tokens, c.body)
	}

	for _, body := range []string{`{"duration": "6000000000000000"}`, `{"duration": "4097"}`, `{"duration": "1/3"}`, `{"duration": "soon"}`, `{"duration": "0"}`, `[`} {
		w := do(t, http.MethodPost, "/split", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestHandleSplitLongestLength(t *testing.T) {
	w := do(t, http.MethodPost, "/split", `{"duration": "4096"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.SplitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Tokens, 683)

	w = do(t, http.MethodPost, "/split", `{"duration": "4096.125"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var e model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Contains(t, e.Error, "invalid duration")
}

func TestHandleDurations(t *testing.T) {
	w := do(t, http.MethodGet, "/durations", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res []model.DurationEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res, 11)
	assert.Equal(t, model.DurationEntry{Token: "32", Beats: "1/8"}, res[0])
	assert.Equal(t, model.DurationEntry{Token: "1.", Beats: "6"}, res[len(res)-1])
}

func TestRouterRejectsWrongMethod(t *testing.T) {
	w := do(t, http.MethodGet, "/render", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCorsPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/render", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
