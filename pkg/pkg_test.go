package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "nv" {
		t.Errorf("Name = %q, want %q", Name, "nv")
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); strings.TrimSpace(Version) != content {
		t.Errorf("Version = %q, want %q", Version, content)
	}
}

func TestSemVer(t *testing.T) {
	v := SemVer()
	if v == nil {
		t.Fatalf("SemVer() = nil for %q", Version)
	}

	if got := v.String(); got != strings.TrimSpace(Version) {
		t.Errorf("SemVer() = %s, want %s", got, strings.TrimSpace(Version))
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Author = %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{"nv", "nv"},
		{"__debug_bin1234", Name},
		{".nv", "nv"},
		{"...", Name},
		{"nvx", "nvx"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := prefixOf(tt.id); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath("config.nv")

	if filepath.Dir(got) != ConfigDir() || filepath.Base(got) != "config.nv" {
		t.Errorf("ConfigPath() = %q", got)
	}

	if filepath.Base(ConfigDir()) != Prefix() || filepath.Base(CacheDir()) != Prefix() {
		t.Errorf("dirs %q, %q not under prefix %q", ConfigDir(), CacheDir(), Prefix())
	}
}
