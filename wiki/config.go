package wiki

import "github.com/danielledeleo/wikirefs/extensions"

// Config holds the file-based configuration for wikirefs.
// These are bootstrap settings loaded from config.yaml.
type Config struct {
	DatabaseFile string `yaml:"dbfile"`
	Host         string `yaml:"host"`
	BaseURL      string `yaml:"base_url"`
	MediaURL     string `yaml:"media_url"`
	MediaDir     string `yaml:"media_dir"`
	LogFormat    string `yaml:"log_format"`
	LogLevel     string `yaml:"log_level"`
	Sanitize     bool   `yaml:"sanitize"`
	Workers      int    `yaml:"workers"`

	Attrs  AttrsConfig  `yaml:"attrs"`
	Links  LinksConfig  `yaml:"links"`
	Embeds EmbedsConfig `yaml:"embeds"`
}

// AttrsConfig toggles attribute declarations and the attribute box.
type AttrsConfig struct {
	Enable bool   `yaml:"enable"`
	Render bool   `yaml:"render"`
	Title  string `yaml:"title"`
}

// LinksConfig toggles wikilinks.
type LinksConfig struct {
	Enable bool `yaml:"enable"`
}

// EmbedsConfig toggles embeds.
type EmbedsConfig struct {
	Enable       bool   `yaml:"enable"`
	ErrorContent string `yaml:"error_content"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		DatabaseFile: "wikirefs.db",
		Host:         "0.0.0.0:8080",
		MediaURL:     "/media/",
		MediaDir:     "media",
		LogFormat:    "pretty",
		LogLevel:     "info",
		Sanitize:     true,
		Workers:      4,
		Attrs:        AttrsConfig{Enable: true, Render: true, Title: "Attributes"},
		Links:        LinksConfig{Enable: true},
		Embeds:       EmbedsConfig{Enable: true, ErrorContent: "Error: Content not found for "},
	}
}

// ExtensionOptions maps the configuration onto wikirefs options. Resolver
// callbacks are not included.
func (c *Config) ExtensionOptions() []extensions.Option {
	opts := []extensions.Option{
		extensions.WithBaseURL(c.BaseURL),
		extensions.WithAttrs(c.Attrs.Enable),
		extensions.WithAttrBox(c.Attrs.Render),
		extensions.WithLinks(c.Links.Enable),
		extensions.WithEmbeds(c.Embeds.Enable),
	}
	if c.Attrs.Title != "" {
		opts = append(opts, extensions.WithAttrBoxTitle(c.Attrs.Title))
	}
	if c.Embeds.ErrorContent != "" {
		opts = append(opts, extensions.WithEmbedErrorContent(c.Embeds.ErrorContent))
	}
	return opts
}
