package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	sitejson "github.com/goliatone/go-sitejson"
)

// EnvPrefix namespaces environment overrides, e.g. SITEJSON_CONTENTFOLDER or SITEJSON_LOGGING_LEVEL.
const EnvPrefix = "SITEJSON"

// ConfigName is the base name looked up when no config file is given.
const ConfigName = "sitejson"

// LoadConfig merges defaults, an optional config file (YAML, JSON or TOML)
// and SITEJSON_* environment variables. An explicit path must exist; the
// implicit lookup in the working directory may find nothing.
func LoadConfig(fs afero.Fs, path string) (sitejson.Config, error) {
	cfg := sitejson.DefaultConfig()

	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}
	setDefaults(v, cfg)

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	// references accepts plain names next to {name, type} maps, which the
	// struct decoder cannot express.
	settings := v.AllSettings()
	rawReferences := v.Get("references")
	delete(settings, "references")

	decoded := viper.New()
	if err := decoded.MergeConfigMap(settings); err != nil {
		return cfg, fmt.Errorf("merge config: %w", err)
	}
	if err := decoded.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	refs, err := sitejson.ParseReferences(normalizeReferences(rawReferences))
	if err != nil {
		return cfg, err
	}
	cfg.References = refs
	return cfg, nil
}

// DefaultLoggingProvider is used by the command line when the configuration
// selects none. The library itself stays silent by default.
const DefaultLoggingProvider = "console"

func setDefaults(v *viper.Viper, cfg sitejson.Config) {
	v.SetDefault("contentFolder", cfg.ContentFolder)
	v.SetDefault("outputDir", cfg.OutputDir)
	v.SetDefault("contentTypes", cfg.ContentTypes)
	v.SetDefault("attributes", []string{})
	v.SetDefault("type", cfg.Type)
	v.SetDefault("collate", cfg.Collate)
	v.SetDefault("collationFileName", cfg.CollationFileName)
	v.SetDefault("paginate", cfg.Paginate)
	v.SetDefault("pageSize", cfg.PageSize)
	v.SetDefault("paginateSortBy", "")
	v.SetDefault("paginateSortDescending", false)
	v.SetDefault("markdown.extensions", []string{})
	v.SetDefault("markdown.hard_wraps", false)
	v.SetDefault("markdown.safe_mode", false)
	v.SetDefault("markdown.header_id_prefix", "")
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("manifest", cfg.Manifest)
	provider := cfg.Logging.Provider
	if provider == "" {
		provider = DefaultLoggingProvider
	}
	v.SetDefault("logging.provider", provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
}

// normalizeReferences splits the comma separated form used in environment variables.
func normalizeReferences(raw any) any {
	value, ok := raw.(string)
	if !ok {
		return raw
	}
	var out []string
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
