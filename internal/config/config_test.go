// Package config tests document how settings are resolved.
//
// Test requirements (this file serves as documentation):
// - Unset variables fall back to the public services and en/US
// - Service URLs always end with a slash
// - Categories accept a comma list or a JSON array; unknown names are rejected
// - A .env file fills gaps but never overrides the process environment
package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gauthierbraillon/annotate/internal/dislike"
	"github.com/gauthierbraillon/annotate/internal/jsonnav"
	"github.com/gauthierbraillon/annotate/internal/sponsorblock"
	"github.com/gauthierbraillon/annotate/internal/transport"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Segments.APIURL != sponsorblock.DefaultAPIURL {
		t.Errorf("expected default segment service, got %q", cfg.Segments.APIURL)
	}
	if cfg.Rating.APIURL != dislike.DefaultAPIURL {
		t.Errorf("expected default rating service, got %q", cfg.Rating.APIURL)
	}
	if !reflect.DeepEqual(cfg.Segments.Categories(), DefaultCategories) {
		t.Errorf("expected default categories, got %v", cfg.Segments.Categories())
	}
	if cfg.Localization.Language != "en" || cfg.Localization.Country != "US" {
		t.Errorf("expected en/US, got %+v", cfg.Localization)
	}
	if cfg.UserAgent != transport.DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.BrowseURL != "https://www.youtube.com" || cfg.MinInterval != 0 {
		t.Errorf("unexpected browse defaults: %q %v", cfg.BrowseURL, cfg.MinInterval)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvSponsorBlockURL: "http://127.0.0.1:9000/api",
		EnvDislikeURL:      "http://127.0.0.1:9001/",
		EnvCategories:      "filler, sponsor",
		EnvLanguage:        "fr",
		EnvCountry:         "ca",
		EnvBrowseURL:       "http://127.0.0.1:9002/",
		EnvMinInterval:     "250ms",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Segments.APIURL != "http://127.0.0.1:9000/api/" {
		t.Errorf("segment URL should gain a trailing slash, got %q", cfg.Segments.APIURL)
	}
	want := []sponsorblock.Category{sponsorblock.CategorySponsor, sponsorblock.CategoryFiller}
	if got := cfg.Segments.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v in request order, got %v", want, got)
	}
	if cfg.Localization.Language != "fr" || cfg.Localization.Country != "CA" {
		t.Errorf("expected fr/CA, got %+v", cfg.Localization)
	}
	if cfg.BrowseURL != "http://127.0.0.1:9002" {
		t.Errorf("browse URL should lose its trailing slash, got %q", cfg.BrowseURL)
	}
	if cfg.MinInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.MinInterval)
	}
}

func TestFromEnv_JSONCategories(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{EnvCategories: `["poi_highlight"]`}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Segments.Highlight || len(cfg.Segments.Categories()) != 1 {
		t.Errorf("expected only highlights, got %v", cfg.Segments.Categories())
	}
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown category", map[string]string{EnvCategories: "sponsor,ads"}, EnvCategories},
		{"pending category", map[string]string{EnvCategories: "pending"}, EnvCategories},
		{"bad interval", map[string]string{EnvMinInterval: "soon"}, EnvMinInterval},
		{"negative interval", map[string]string{EnvMinInterval: "-1s"}, EnvMinInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envMap(tt.env))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should name %s, got: %v", tt.want, err)
			}
		})
	}

	_, err := FromEnv(envMap(map[string]string{EnvCategories: "ads"}))
	if !errors.Is(err, jsonnav.ErrParsing) {
		t.Errorf("unknown category should keep its parsing error, got %v", err)
	}
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := EnvLanguage + "=de\n" + EnvCountry + "=AT\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvLanguage, "it")
	t.Setenv(EnvCountry, "")
	os.Unsetenv(EnvCountry)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv(EnvLanguage); got != "it" {
		t.Errorf("process environment should win, got %q", got)
	}
	if got := os.Getenv(EnvCountry); got != "AT" {
		t.Errorf(".env should fill unset variables, got %q", got)
	}
}
