package djlex

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/go-djlex/loader"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
encoding: ${ENC}
cached: false
loaders:
  - type: filesystem
    dirs: [templates, /srv/templates]
  - type: app_dirs
    apps: [apps/blog]
  - type: locmem
    templates:
      inline.html: "{% csrf_token %}"
`)
	getenv := func(key string) string {
		return map[string]string{"ENC": "latin1"}[key]
	}

	cfg, err := ParseConfig(data, "/etc/djlex", getenv)
	require.NoError(t, err)

	want := &Config{
		BaseDir:  "/etc/djlex",
		Encoding: "latin1",
		Cached:   false,
		Loaders: []LoaderConfig{
			{Type: LoaderFileSystem, Dirs: []string{"/etc/djlex/templates", "/srv/templates"}},
			{Type: LoaderAppDirs, Apps: []string{"/etc/djlex/apps/blog"}},
			{Type: LoaderLocMem, Templates: map[string]string{"inline.html": "{% csrf_token %}"}},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ParseConfig() diff (-want +got):\n%s", diff)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("loaders: []\n"), "", nil)
	require.NoError(t, err)
	require.Equal(t, "utf-8", cfg.Encoding)
	require.True(t, cfg.Cached)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"syntax", "loaders: [", []string{"parse config"}},
		{"missingType", "loaders:\n  - dirs: [x]\n", []string{"loaders[0]: missing type"}},
		{"unknownType", "loaders:\n  - type: s3\n", []string{`loaders[0]: unknown loader type "s3"`}},
		{
			"several",
			"loaders:\n  - type: filesystem\n  - type: app_dirs\n",
			[]string{
				"loaders[0]: filesystem loader needs at least one dir",
				"loaders[1]: app_dirs loader needs at least one app",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), "", nil)
			require.Error(t, err)
			for _, want := range tt.want {
				require.ErrorContains(t, err, want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "page.html"), []byte("{% if a %}"), 0o644))
	path := filepath.Join(dir, "djlex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loaders:\n  - type: filesystem\n    dirs: [templates]\n"), 0o644))

	cfg, err := LoadConfig(path, os.Getenv)
	require.NoError(t, err)
	require.Equal(t, dir, cfg.BaseDir)

	l, err := cfg.Loader(nil)
	require.NoError(t, err)
	require.IsType(t, &loader.CachedLoader{}, l)

	tmpl, err := l.GetTemplate("page.html")
	require.NoError(t, err)
	require.Equal(t, "{% if a %}", tmpl.Source)

	_, err = l.GetTemplate("missing.html")
	require.True(t, errors.Is(err, loader.ErrTemplateNotFound))

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_LoaderOrder(t *testing.T) {
	cfg := &Config{
		Loaders: []LoaderConfig{
			{Type: LoaderLocMem, Templates: map[string]string{"a.html": "first"}},
			{Type: LoaderLocMem, Templates: map[string]string{"a.html": "second", "b.html": "b"}},
		},
	}
	l, err := cfg.Loader(nil)
	require.NoError(t, err)

	tmpl, err := l.GetTemplate("a.html")
	require.NoError(t, err)
	require.Equal(t, "first", tmpl.Source)

	tmpl, err = l.GetTemplate("b.html")
	require.NoError(t, err)
	require.Equal(t, "b", tmpl.Source)

	cfg.Loaders = append(cfg.Loaders, LoaderConfig{Type: "bogus"})
	_, err = cfg.Loader(nil)
	require.Error(t, err)
}
