// Package config loads the bootstrap configuration from config.yaml,
// environment variables and command-line flags.
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danielledeleo/wikirefs/internal/logger"
	"github.com/danielledeleo/wikirefs/wiki"
)

// DefaultFilename is the configuration file looked up in the working directory.
const DefaultFilename = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. WIKIREFS_HOST.
const EnvPrefix = "WIKIREFS"

// SetDefaults registers the defaults of wiki.DefaultConfig on v.
func SetDefaults(v *viper.Viper) {
	d := wiki.DefaultConfig()
	v.SetDefault("dbfile", d.DatabaseFile)
	v.SetDefault("host", d.Host)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("media_url", d.MediaURL)
	v.SetDefault("media_dir", d.MediaDir)
	v.SetDefault("log_format", d.LogFormat) // pretty, json, or text
	v.SetDefault("log_level", d.LogLevel)   // debug, info, warn, error
	v.SetDefault("sanitize", d.Sanitize)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("attrs.enable", d.Attrs.Enable)
	v.SetDefault("attrs.render", d.Attrs.Render)
	v.SetDefault("attrs.title", d.Attrs.Title)
	v.SetDefault("links.enable", d.Links.Enable)
	v.SetDefault("embeds.enable", d.Embeds.Enable)
	v.SetDefault("embeds.error_content", d.Embeds.ErrorContent)
}

// Load reads path into v and returns the resulting configuration. A missing
// file is not an error; when writeDefault is set it is created with the
// effective settings. The default logger is reconfigured to match.
func Load(v *viper.Viper, path string, writeDefault bool) (*wiki.Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	missing := false
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = true
	}

	conf := FromViper(v)

	logger.InitLogger(
		logger.ParseLogFormat(conf.LogFormat),
		logger.ParseLogLevel(conf.LogLevel),
	)

	if missing && writeDefault {
		slog.Info("config not found, writing defaults", "file", path)
		if err := Write(path, conf); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

// FromViper builds a configuration from the keys set on v.
func FromViper(v *viper.Viper) *wiki.Config {
	return &wiki.Config{
		DatabaseFile: v.GetString("dbfile"),
		Host:         v.GetString("host"),
		BaseURL:      v.GetString("base_url"),
		MediaURL:     v.GetString("media_url"),
		MediaDir:     v.GetString("media_dir"),
		LogFormat:    v.GetString("log_format"),
		LogLevel:     v.GetString("log_level"),
		Sanitize:     v.GetBool("sanitize"),
		Workers:      v.GetInt("workers"),
		Attrs: wiki.AttrsConfig{
			Enable: v.GetBool("attrs.enable"),
			Render: v.GetBool("attrs.render"),
			Title:  v.GetString("attrs.title"),
		},
		Links: wiki.LinksConfig{
			Enable: v.GetBool("links.enable"),
		},
		Embeds: wiki.EmbedsConfig{
			Enable:       v.GetBool("embeds.enable"),
			ErrorContent: v.GetString("embeds.error_content"),
		},
	}
}

// Write saves conf as YAML, replacing path atomically.
func Write(path string, conf *wiki.Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(conf); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}
