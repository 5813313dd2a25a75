package dashboard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motorlab/carscope/internal/dataset"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tbl, err := dataset.Builtin()
	require.NoError(t, err)
	require.NoError(t, tbl.Normalize(dataset.NominalColumns...))
	s, err := New(tbl, "mpg")
	require.NoError(t, err)
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestIndexListsColumns(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, res.Header.Get("Content-Type"), "text/html")

	body := readAll(t, res)
	require.Contains(t, body, "<select")
	require.Contains(t, body, `<option value="wt">`)
	require.Contains(t, body, `<option value="cyl">`)
	require.NotContains(t, body, `<option value="mpg">`)
}

func TestPlotNumericColumn(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/plot?x=wt")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
	require.Contains(t, readAll(t, res), "<svg")
}

func TestPlotNominalColumn(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/plot?x=cyl")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
}

func TestPlotRejectsMissingAndUnknown(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/plot", "/plot?x=nope"} {
		res, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode, path)
		require.Contains(t, res.Header.Get("Content-Type"), "application/json")
	}
}

func TestNewRejectsNonNumericTarget(t *testing.T) {
	tbl, err := dataset.Builtin()
	require.NoError(t, err)
	require.NoError(t, tbl.Normalize(dataset.NominalColumns...))
	_, err = New(tbl, "cyl")
	require.Error(t, err)
}

func readAll(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}
