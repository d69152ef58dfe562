package homepage

import (
	"errors"
	"testing"
)

func TestMapBookmarks(t *testing.T) {
	config := BookmarksConfig{
		{
			"Developer": []map[string][]BookmarkEntry{
				{"Github": {{Abbr: "GH", Href: "https://github.com/"}}},
				{"Go Docs": {{Abbr: "GO", Href: " https://go.dev/doc/ "}}},
			},
		},
		{
			"Social": []map[string][]BookmarkEntry{
				{"Reddit": {{Icon: "reddit.png", Href: "https://reddit.com/"}}},
			},
		},
	}

	got, err := MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}

	want := []struct{ url, desc string }{
		{"https://github.com/", "Github"},
		{"https://go.dev/doc/", "Go Docs"},
		{"https://reddit.com/", "Reddit"},
	}
	if len(got) != len(want) {
		t.Fatalf("MapBookmarks() returned %d bookmarks, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].URL != w.url {
			t.Errorf("bookmark[%d].URL = %q, want %q", i, got[i].URL, w.url)
		}
		if got[i].Description == nil || *got[i].Description != w.desc {
			t.Errorf("bookmark[%d].Description = %v, want %q", i, got[i].Description, w.desc)
		}
	}
}

func TestMapBookmarksSkipsEntriesWithoutHref(t *testing.T) {
	config := BookmarksConfig{
		{
			"Internal": []map[string][]BookmarkEntry{
				{"Wiki": {{Abbr: "WK", Href: ""}}},
				{"Grafana": {{Abbr: "GF", Href: "https://grafana.local"}}},
			},
		},
	}

	got, err := MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://grafana.local" {
		t.Errorf("MapBookmarks() = %+v, want only grafana", got)
	}
}

func TestMapBookmarksDeduplicatesHref(t *testing.T) {
	config := BookmarksConfig{
		{"A": []map[string][]BookmarkEntry{{"Go": {{Href: "https://go.dev"}}}}},
		{"B": []map[string][]BookmarkEntry{{"Golang": {{Href: "https://go.dev"}}}}},
	}

	got, err := MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("MapBookmarks() returned %d bookmarks, want 1", len(got))
	}
	if *got[0].Description != "Go" {
		t.Errorf("first occurrence should win, got %q", *got[0].Description)
	}
}

func TestMapBookmarksAbbrFallback(t *testing.T) {
	nb, ok := mapEntry("  ", BookmarkEntry{Abbr: "GH", Href: "https://github.com"})
	if !ok {
		t.Fatal("mapEntry() skipped a valid entry")
	}
	if nb.Description == nil || *nb.Description != "GH" {
		t.Errorf("Description = %v, want GH", nb.Description)
	}

	nb, _ = mapEntry("", BookmarkEntry{Href: "https://github.com"})
	if nb.Description != nil {
		t.Errorf("Description = %q, want nil", *nb.Description)
	}
}

func TestMapBookmarksEmptyConfig(t *testing.T) {
	_, err := MapBookmarks(BookmarksConfig{})
	if !errors.Is(err, ErrNoBookmarks) {
		t.Errorf("MapBookmarks() error = %v, want ErrNoBookmarks", err)
	}
}
