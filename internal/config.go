package internal

import (
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    "github.com/spf13/viper"
)

type Config struct {
    CatalogFolder  string              `mapstructure:"catalog_folder"`
    CatalogFile    string              `mapstructure:"catalog_file"`
    LogFile        string              `mapstructure:"log_file"`
    MediaTypes     map[string][]string `mapstructure:"media_types"`
    HashMethod     string              `mapstructure:"hash_method"`
    HashAlgorithm  string              `mapstructure:"hash_algorithm"`
    GeocodeURL     string              `mapstructure:"geocode_url"`
    GeocodeAgent   string              `mapstructure:"geocode_agent"`
    GeocodeTimeout time.Duration       `mapstructure:"geocode_timeout"`
}

func LoadConfig() (*Config, error) {
    configDir, err := os.UserConfigDir()
    if err != nil {
        return nil, fmt.Errorf("failed to find user config dir: %w", err)
    }

    viper.SetConfigName("shotbox")
    viper.SetConfigType("toml")
    viper.AddConfigPath(filepath.Join(configDir, "shotbox"))

    // Set defaults:
    viper.SetDefault("catalog_folder", "database")
    viper.SetDefault("catalog_file", "media.db")
    viper.SetDefault("log_file", "shotbox.log")
    viper.SetDefault("media_types", map[string][]string{
        "jpeg": {".jpg", ".jpeg"},
        "png":  {".png"},
        "bmp":  {".bmp"},
        "tiff": {".tif", ".tiff"},
        "gif":  {".gif"},
        "raw":  {".raw"},
        "heif": {".heif", ".heic"},
    })
    viper.SetDefault("hash_method", "phash")
    viper.SetDefault("hash_algorithm", "sha256")
    viper.SetDefault("geocode_url", "https://nominatim.openstreetmap.org/reverse")
    viper.SetDefault("geocode_agent", "shotbox")
    viper.SetDefault("geocode_timeout", time.Second)

    if err := viper.ReadInConfig(); err != nil {
        // Config file not found; that's OK, just use defaults
    }

    var cfg Config
    if err := viper.Unmarshal(&cfg); err != nil {
        return nil, fmt.Errorf("failed to parse config: %w", err)
    }

    return &cfg, nil
}

// Extensions returns every recognized file extension across all media types,
// lowercase and sorted.
func (c *Config) Extensions() []string {
    var exts []string
    for _, list := range c.MediaTypes {
        for _, e := range list {
            exts = append(exts, strings.ToLower(e))
        }
    }
    sort.Strings(exts)
    return exts
}

// TypeForExt maps a file extension (any case, with leading dot) to its
// configured media type. Unknown extensions return ok=false.
func (c *Config) TypeForExt(ext string) (string, bool) {
    ext = strings.ToLower(ext)
    for name, list := range c.MediaTypes {
        for _, e := range list {
            if ext == strings.ToLower(e) {
                return name, true
            }
        }
    }
    return "", false
}
