package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "hisab-server", cmd.Use)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestRun_RequiresJWTSecret(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("HISAB_JWT_SECRET", "")

	cmd := newRootCommand()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestRun_MissingConfigFile(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hisab</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	h := staticHandler(dir)

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/", http.StatusOK, "<h1>hisab</h1>"},
		{"/app.js", http.StatusOK, "console.log(1)"},
		{"/loans/Karim", http.StatusOK, "<h1>hisab</h1>"},
		{"/hisab.v1.DocumentService/GetDocument", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}
