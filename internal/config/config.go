// Package config resolves annotate's settings from the environment.
//
// Values come from ANNOTATE_* variables. An optional .env file is loaded
// first; variables already set in the process environment win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gauthierbraillon/annotate/internal/dislike"
	"github.com/gauthierbraillon/annotate/internal/sponsorblock"
	"github.com/gauthierbraillon/annotate/internal/transport"
	"github.com/gauthierbraillon/annotate/internal/youtube"
)

// Environment variable names.
const (
	EnvSponsorBlockURL = "ANNOTATE_SPONSORBLOCK_URL"
	EnvDislikeURL      = "ANNOTATE_DISLIKE_URL"
	EnvCategories      = "ANNOTATE_CATEGORIES"
	EnvLanguage        = "ANNOTATE_LANGUAGE"
	EnvCountry         = "ANNOTATE_COUNTRY"
	EnvBrowseURL       = "ANNOTATE_BROWSE_URL"
	EnvUserAgent       = "ANNOTATE_USER_AGENT"
	EnvMinInterval     = "ANNOTATE_MIN_INTERVAL"
)

const defaultBrowseURL = "https://www.youtube.com"

// DefaultCategories are requested when ANNOTATE_CATEGORIES is unset.
var DefaultCategories = []sponsorblock.Category{
	sponsorblock.CategorySponsor,
	sponsorblock.CategoryIntro,
	sponsorblock.CategoryOutro,
	sponsorblock.CategorySelfPromo,
}

// Config is the resolved runtime configuration.
type Config struct {
	Segments     sponsorblock.Settings
	Rating       dislike.Settings
	Localization youtube.Localization
	BrowseURL    string
	UserAgent    string
	MinInterval  time.Duration
}

// LoadDotEnv reads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// FromEnv resolves the configuration through getenv (usually os.Getenv).
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Rating:       dislike.Settings{APIURL: withSlash(valueOr(getenv(EnvDislikeURL), dislike.DefaultAPIURL))},
		Localization: youtube.DefaultLocalization,
		BrowseURL:    strings.TrimSuffix(valueOr(getenv(EnvBrowseURL), defaultBrowseURL), "/"),
		UserAgent:    valueOr(getenv(EnvUserAgent), transport.DefaultUserAgent),
	}

	cfg.Segments.APIURL = withSlash(valueOr(getenv(EnvSponsorBlockURL), sponsorblock.DefaultAPIURL))

	cats := DefaultCategories
	if raw := strings.TrimSpace(getenv(EnvCategories)); raw != "" {
		parsed, err := parseCategoryList(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvCategories, err)
		}
		cats = parsed
	}
	for _, c := range cats {
		if err := cfg.Segments.Enable(c); err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvCategories, err)
		}
	}

	if lang := getenv(EnvLanguage); lang != "" {
		cfg.Localization.Language = lang
	}
	if country := getenv(EnvCountry); country != "" {
		cfg.Localization.Country = strings.ToUpper(country)
	}

	if raw := getenv(EnvMinInterval); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid %s %q: expected a duration like 500ms", EnvMinInterval, raw)
		}
		cfg.MinInterval = d
	}

	return cfg, nil
}

// parseCategoryList accepts "sponsor,intro" as well as the JSON array form
// used on the wire.
func parseCategoryList(raw string) ([]sponsorblock.Category, error) {
	if strings.HasPrefix(raw, "[") {
		return sponsorblock.DecodeCategories(raw)
	}

	var cats []sponsorblock.Category
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, err := sponsorblock.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// withSlash keeps the trailing slash the annotation clients append paths to.
func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
