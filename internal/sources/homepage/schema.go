package homepage

// BookmarkEntry is a single bookmark as Homepage stores it.
type BookmarkEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// BookmarkCategory maps a category name to its bookmarks.
// The YAML structure is: - CategoryName: [ - BookmarkName: [ { icon, abbr, href } ] ]
type BookmarkCategory map[string][]map[string][]BookmarkEntry

// BookmarksConfig is the root of bookmarks.yaml.
type BookmarksConfig []BookmarkCategory
