// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the migration settings from the migrate.yaml file.
// Every field has a default so the tool works against a stock
// WordPress export without any config file present.
type Config struct {
	// SiteURL is the base URL of the live WordPress site. Absolute links
	// pointing at it are rewritten to root-relative paths, and the image
	// mirror downloads from it.
	SiteURL string `yaml:"site_url"`

	// ExportFile is the WXR export document to migrate.
	ExportFile string `yaml:"export_file"`

	ContentDir string `yaml:"content_dir"`
	StaticDir  string `yaml:"static_dir"`
	PreviewDir string `yaml:"preview_dir"`

	// BlogDir is the section under ContentDir that receives dated posts.
	BlogDir string `yaml:"blog_dir"`

	RedirectsFile string `yaml:"redirects_file"`
	TaxonomyFile  string `yaml:"taxonomy_file"`

	// GistOwner restricts gist inlining to links owned by this user.
	// Empty matches gists from any owner.
	GistOwner string `yaml:"gist_owner"`
}

// Default returns the configuration used when no migrate.yaml exists.
func Default() Config {
	return Config{
		ExportFile:    "wordpress-export.xml",
		ContentDir:    "content",
		StaticDir:     "static",
		PreviewDir:    "preview",
		BlogDir:       "blog",
		RedirectsFile: "redirects.json",
		TaxonomyFile:  "taxonomies.yaml",
	}
}

// Load reads the config file at path. A missing file is not an error;
// the defaults are returned so a dry run works out of the box.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return cfg, nil
}
