package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkedPage = `<html><head><title>linked</title>
<link rel="stylesheet" href="style/box.css">
<link rel="stylesheet" href="missing.css">
</head><body>
<div id="box"></div>
<script src="js/mark.js"></script>
<script>document.getElementById("box").className += " after";</script>
</body></html>`

func TestOpenFile_LinkedResources(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("index.html", linkedPage)
	write("style/box.css", "#box { height: 37px; }")
	write("js/mark.js", `document.getElementById("box").className = "marked";`)

	p, err := OpenFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	defer p.Close()

	box := p.Doc.GetElementById("box")
	assert.Equal(t, "marked after", box.ClassName())
	assert.Equal(t, 37.0, box.GetBoundingClientRect().Height)
	assert.Empty(t, p.ScriptErrors())
}

func TestOpenURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/app/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><link rel="stylesheet" href="box.css"></head><body>
<div id="box"></div><script src="/lib/mark.js"></script></body></html>`))
	})
	mux.HandleFunc("/app/box.css", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#box { height: 21px; }"))
	})
	mux.HandleFunc("/lib/mark.js", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`document.getElementById("box").className = "remote";`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p, err := OpenURL(context.Background(), server.URL+"/app/index.html")
	require.NoError(t, err)
	defer p.Close()

	box := p.Doc.GetElementById("box")
	assert.Equal(t, "remote", box.ClassName())
	assert.Equal(t, 21.0, box.GetBoundingClientRect().Height)
	assert.Equal(t, server.URL+"/app/index.html", p.Title)

	_, err = OpenURL(context.Background(), server.URL+"/nothing.html")
	assert.Error(t, err)
}
