package jsdk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvUsername = "JARVICE_USER"
	EnvAPIKey   = "JARVICE_API_KEY"
	EnvURL      = "JARVICE_API_URL"

	// ConfigName is the credentials file looked up in the home directory.
	ConfigName = ".jarvice.cfg"

	UsernameKey = "auth.username"
	APIKeyKey   = "auth.apikey"
	URLKey      = "auth.url"
	OutputKey   = "output"
	DebugKey    = "debug"
)

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	UsernameKey: "username",
	APIKeyKey:   "apikey",
	URLKey:      "url",
	OutputKey:   "output",
	DebugKey:    "debug",
}

// Credentials identify the caller to the API server.
type Credentials struct {
	Username string
	APIKey   string
	BaseURL  string
}

type Config struct {
	Username string
	APIKey   string
	BaseURL  string
	Output   string
	Debug    bool

	file string
	v    *viper.Viper // instance-specific viper
}

// LoadConfig layers command-line flags over the JARVICE_* environment over
// the config file. With an empty cfgFile ~/.jarvice.cfg is read when it
// exists. Files ending in .yaml or .yml are read by viper; anything else is
// an INI file with an [auth] section.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	explicit := cfgFile != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			cfgFile = filepath.Join(home, ConfigName)
		}
	}

	used := ""
	if cfgFile != "" {
		ok, err := readConfigFile(v, cfgFile, explicit)
		if err != nil {
			return nil, err
		}
		if ok {
			used = cfgFile
		}
	}

	for key, env := range map[string]string{UsernameKey: EnvUsername, APIKeyKey: EnvAPIKey, URLKey: EnvURL} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, jerr.New(jerr.CodeConfig, err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, jerr.New(jerr.CodeConfig, err)
			}
		}
	}

	return &Config{
		Username: v.GetString(UsernameKey),
		APIKey:   v.GetString(APIKeyKey),
		BaseURL:  strings.TrimRight(v.GetString(URLKey), "/"),
		Output:   v.GetString(OutputKey),
		Debug:    v.GetBool(DebugKey),
		file:     used,
		v:        v,
	}, nil
}

// readConfigFile merges path into v. A missing default file is skipped;
// a missing file named on the command line is an error.
func readConfigFile(v *viper.Viper, path string, explicit bool) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, jerr.Configf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return false, jerr.Configf("reading config file %s: %w", path, err)
		}
	default:
		auth, err := readINI(path)
		if err != nil {
			return false, jerr.Configf("reading config file %s: %w", path, err)
		}
		if err := v.MergeConfigMap(map[string]any{"auth": auth}); err != nil {
			return false, jerr.Configf("merging config file %s: %w", path, err)
		}
	}
	return true, nil
}

func readINI(path string) (map[string]any, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	section := f.Section("auth")
	auth := map[string]any{}
	for _, name := range []string{"username", "apikey", "url"} {
		if section.HasKey(name) {
			auth[name] = section.Key(name).String()
		}
	}
	return auth, nil
}

// Credentials returns the identity to call the API with. When no API key
// is configured, one saved with `jarvice auth login` is used.
func (c *Config) Credentials() (Credentials, error) {
	creds := Credentials{Username: c.Username, APIKey: c.APIKey, BaseURL: c.BaseURL}

	if creds.APIKey == "" && creds.Username != "" && creds.BaseURL != "" {
		if key, err := LoadAPIKey(creds.Username, creds.BaseURL); err == nil {
			creds.APIKey = key
		}
	}

	var missing []string
	if creds.Username == "" {
		missing = append(missing, fmt.Sprintf("username (--username, %s)", EnvUsername))
	}
	if creds.APIKey == "" {
		missing = append(missing, fmt.Sprintf("API key (--apikey, %s, jarvice auth login)", EnvAPIKey))
	}
	if creds.BaseURL == "" {
		missing = append(missing, fmt.Sprintf("API URL (--url, %s)", EnvURL))
	}
	if len(missing) > 0 {
		return Credentials{}, jerr.Configf("missing %s; values may also come from the [auth] section of ~/%s or the file given with --config",
			strings.Join(missing, ", "), ConfigName)
	}
	return creds, nil
}

// Get returns a value from the underlying viper instance
func (c *Config) Get(key string) any {
	if c.v == nil {
		return nil
	}
	return c.v.Get(key)
}

// ConfigFileUsed returns the config file that was read, if any.
func (c *Config) ConfigFileUsed() string {
	return c.file
}
