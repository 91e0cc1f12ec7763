// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asynchttp/asynchttp/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/text", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})
	mux.HandleFunc("/object", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"a":1}`)
	})
	mux.HandleFunc("/array", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[1,2]`)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.Method+" "+r.URL.RawQuery)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color", "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands")
	assert.Contains(t, out, "batch")
}

func TestGet(t *testing.T) {
	server := newTestServer(t)
	t.Run("string", func(t *testing.T) {
		out, err := execute(t, "get", server.URL+"/text")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ GET "+server.URL+"/text (")
		assert.Contains(t, out, "hello\n")
	})
	t.Run("params", func(t *testing.T) {
		out, err := execute(t, "get", server.URL+"/echo", "b=2", "a=1")
		require.NoError(t, err)
		assert.Contains(t, out, "GET b=2&a=1")
	})
	t.Run("object on main", func(t *testing.T) {
		out, err := execute(t, "get", server.URL+"/object", "--as", "object", "--main", "-v")
		require.NoError(t, err)
		assert.Contains(t, out, `"a": 1`)
		assert.Contains(t, out, "status=200 delivered=main")
	})
	t.Run("parse failure", func(t *testing.T) {
		out, err := execute(t, "get", server.URL+"/object", "--as", "array", "-v")
		assert.EqualError(t, err, "GET "+server.URL+"/object failed")
		assert.Contains(t, out, "✗ GET "+server.URL+"/object")
		assert.Contains(t, out, "parse failure")
		assert.Contains(t, out, "delivered=worker")
	})
	t.Run("transport failure", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()
		out, err := execute(t, "get", closed.URL, "-v", "--timeout", "2s")
		assert.Error(t, err)
		assert.Contains(t, out, "transport failure")
		assert.Contains(t, out, "status=0 delivered=main")
	})
	t.Run("bad parameter", func(t *testing.T) {
		_, err := execute(t, "get", server.URL, "novalue")
		assert.EqualError(t, err, `invalid parameter "novalue": expected key=value`)
	})
	t.Run("bad response type", func(t *testing.T) {
		_, err := execute(t, "get", server.URL, "--as", "xml")
		assert.ErrorContains(t, err, `unknown response type "xml"`)
	})
	t.Run("bad pool", func(t *testing.T) {
		_, err := execute(t, "get", server.URL, "--pool", "0")
		assert.ErrorContains(t, err, "pool size must be positive")
	})
}

func TestPost(t *testing.T) {
	server := newTestServer(t)
	out, err := execute(t, "post", server.URL+"/echo", "k=v", "--main")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ POST "+server.URL+"/echo?k=v")
	assert.Contains(t, out, "POST k=v")
}

func TestBatch(t *testing.T) {
	server := newTestServer(t)
	path := filepath.Join(t.TempDir(), "batch.yaml")
	doc := `requests:
  - name: text
    url: ` + server.URL + `/text
  - name: array
    url: ` + server.URL + `/array
    as: array
    main: true
  - name: echo
    method: post
    url: ` + server.URL + `/echo
    params: {z: "26", a: "1"}
  - name: wrong
    url: ` + server.URL + `/text
    as: object
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "batch", path, "--pool", "2")
	assert.EqualError(t, err, "1 of 4 requests failed")
	assert.Contains(t, out, "✓ text")
	assert.Contains(t, out, "✓ array")
	assert.Contains(t, out, "POST a=1&z=26")
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "requests: 4  failures: 1")
	assert.Contains(t, out, "latency: p50=")
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	write := func(name, doc string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
		return path
	}

	t.Run("OK", func(t *testing.T) {
		jobs, err := loadBatch(write("ok.yaml", "requests:\n  - url: http://x\n    params: {b: \"2\", a: \"1\"}\n"))
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, query.Values{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}, jobs[0].values)
		assert.Equal(t, "GET http://x?a=1&b=2", (job{Method: "GET", URL: "http://x", values: jobs[0].values}).label())
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := loadBatch(filepath.Join(dir, "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read batch file")
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := loadBatch(write("bad.yaml", "requests: [\n"))
		assert.ErrorContains(t, err, "failed to parse batch file")
	})
	t.Run("empty", func(t *testing.T) {
		_, err := loadBatch(write("empty.yaml", "requests: []\n"))
		assert.ErrorContains(t, err, "has no requests")
	})
	t.Run("no url", func(t *testing.T) {
		_, err := loadBatch(write("nourl.yaml", "requests:\n  - name: x\n"))
		assert.ErrorContains(t, err, "request 1 has no url")
	})
}

func TestParseParams(t *testing.T) {
	v, err := parseParams([]string{"b=2", "a=", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, query.Values{{Key: "b", Value: "2"}, {Key: "a", Value: ""}, {Key: "c", Value: "x=y"}}, v)

	v, err = parseParams(nil)
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = parseParams([]string{"=1"})
	assert.Error(t, err)
}

func TestNormalizeMethod(t *testing.T) {
	for in, want := range map[string]string{"": "GET", "get": "GET", "GET": "GET", "Post": "POST"} {
		got, err := normalizeMethod(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := normalizeMethod("PUT")
	assert.EqualError(t, err, `unsupported method "PUT": use GET or POST`)
}

func TestStats(t *testing.T) {
	s := newStats()
	s.record(time.Millisecond, false)
	s.record(3*time.Millisecond, true)
	assert.Equal(t, 2, s.count)
	assert.Equal(t, 1, s.failures)
	assert.InDelta(t, float64(3*time.Millisecond), float64(s.quantile(100)), float64(10*time.Microsecond))

	var buf bytes.Buffer
	newPrinter(&buf, true).summary(s)
	assert.Contains(t, buf.String(), "requests: 2  failures: 1")
}
