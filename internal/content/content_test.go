package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/portfolio/internal/scrollspy"
)

const minimalYAML = `
owner:
  name: Sam Lee
  title: Engineer
nav:
  - { label: Home, id: home }
  - { label: Skills, id: skills }
  - { label: Projects, id: projects }
  - { label: About, id: about }
  - { label: Contact, id: contact }
skills:
  - title: Backend
    description: Servers
    skills:
      - { name: Go, level: 90 }
projects:
  - { id: 1, title: Relay, description: Mail relay, tags: [Go], featured: true, category: Tools }
  - { id: 2, title: Atlas, description: Maps, tags: [Go], category: Tools }
`

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	var ids []string
	for _, item := range p.Nav {
		ids = append(ids, item.ID)
	}
	if diff := cmp.Diff(scrollspy.Sections, ids); diff != "" {
		t.Fatalf("nav ids mismatch (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, p.Projects)
	assert.NotEmpty(t, p.FeaturedProjects())
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), minimalYAML)
	p, err := Load(path)
	require.NoError(t, err)

	want := []Project{{
		ID: 1, Title: "Relay", Description: "Mail relay", Tags: []string{"Go"}, Featured: true, Category: "Tools",
	}}
	if diff := cmp.Diff(want, p.FeaturedProjects()); diff != "" {
		t.Fatalf("featured projects mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Sam Lee", p.Owner.Name)
}

func TestLoadRejectsBadContent(t *testing.T) {
	cases := []struct {
		name string
		edit func(string) string
		want string
	}{
		{
			name: "renamed nav id",
			edit: func(s string) string { return strings.Replace(s, "id: about", "id: About", 1) },
			want: `nav[3] id "About", want "about"`,
		},
		{
			name: "missing nav item",
			edit: func(s string) string { return strings.Replace(s, "  - { label: Contact, id: contact }\n", "", 1) },
			want: "nav must list 5 sections",
		},
		{
			name: "skill level out of range",
			edit: func(s string) string { return strings.Replace(s, "level: 90", "level: 120", 1) },
			want: "outside 0..100",
		},
		{
			name: "duplicate project id",
			edit: func(s string) string { return strings.Replace(s, "id: 2, title: Atlas", "id: 1, title: Atlas", 1) },
			want: "duplicate project id 1",
		},
		{
			name: "unknown key",
			edit: func(s string) string { return s + "extra: true\n" },
			want: "field extra not found",
		},
		{
			name: "empty file",
			edit: func(string) string { return "" },
			want: "empty content file",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tc.edit(minimalYAML))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestHasLink(t *testing.T) {
	assert.False(t, HasLink(""))
	assert.False(t, HasLink(" # "))
	assert.True(t, HasLink("https://example.com"))
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, minimalYAML)
	store, err := NewStore(path, nil)
	require.NoError(t, err)

	var reloaded int
	store.OnReload(func(*Portfolio) { reloaded++ })

	writeFile(t, dir, strings.Replace(minimalYAML, "Sam Lee", "Sam Q. Lee", 1))
	require.NoError(t, store.Reload())
	assert.Equal(t, "Sam Q. Lee", store.Current().Owner.Name)

	writeFile(t, dir, "owner: [")
	require.Error(t, store.Reload())
	assert.Equal(t, "Sam Q. Lee", store.Current().Owner.Name)
	assert.Equal(t, 1, reloaded)
}

func TestStoreWithoutPathServesDefault(t *testing.T) {
	store, err := NewStore("", nil)
	require.NoError(t, err)
	assert.NotNil(t, store.Current())
	assert.NoError(t, store.Reload())
	assert.Error(t, store.Watch(context.Background()))
}

func TestStoreWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, minimalYAML)
	store, err := NewStore(path, nil)
	require.NoError(t, err)
	store.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()

	require.Eventually(t, func() bool {
		writeFile(t, dir, strings.Replace(minimalYAML, "title: Engineer", "title: Staff Engineer", 1))
		return store.Current().Owner.Title == "Staff Engineer"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
