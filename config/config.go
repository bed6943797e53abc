package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultFileName        = "config.yaml"
	defaultBaseURL         = "http://localhost:5000/api"
	defaultSuperAdminEmail = "superadmin@example.com"
	defaultCheckoutURL     = "https://checkout.stripe.com/c/pay/{sessionId}"
)

type Config struct {
	Env struct {
		Log Log `koanf:"log"`
	} `koanf:"env"`

	API struct {
		BaseURL string        `koanf:"baseURL"`
		Timeout time.Duration `koanf:"timeout"`
		Breaker Breaker       `koanf:"breaker"`
	} `koanf:"api"`

	Payment struct {
		PublishableKey string `koanf:"publishableKey"`
		// CheckoutURL is the hosted checkout page; {sessionId} is substituted.
		CheckoutURL  string `koanf:"checkoutURL"`
		CallbackAddr string `koanf:"callbackAddr"`
	} `koanf:"payment"`

	Auth struct {
		SuperAdminEmail string `koanf:"superAdminEmail"`
	} `koanf:"auth"`

	Storage struct {
		Path string `koanf:"path"`
	} `koanf:"storage"`

	Cache Cache `koanf:"cache"`
}

type Log struct {
	Pretty bool   `koanf:"pretty"`
	Level  string `koanf:"level"`
}

type Breaker struct {
	Enabled     bool          `koanf:"enabled"`
	MaxFailures uint32        `koanf:"maxFailures"`
	OpenTimeout time.Duration `koanf:"openTimeout"`
}

// Cache configures the optional shared catalog cache. Carts and sessions are
// never cached.
type Cache struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
	Redis   struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Env.Log.Level = "info"
	cfg.API.BaseURL = defaultBaseURL
	cfg.API.Timeout = 15 * time.Second
	cfg.API.Breaker.MaxFailures = 5
	cfg.API.Breaker.OpenTimeout = 30 * time.Second
	cfg.Payment.CheckoutURL = defaultCheckoutURL
	cfg.Payment.CallbackAddr = "127.0.0.1:5173"
	cfg.Auth.SuperAdminEmail = defaultSuperAdminEmail
	cfg.Storage.Path = defaultStoragePath()
	cfg.Cache.TTL = 5 * time.Minute
	cfg.Cache.Redis.Addr = "localhost:6379"
	return cfg
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".nayra", "storage.json")
	}
	return filepath.Join(dir, "nayra", "storage.json")
}

// Load reads the YAML file at path (or config.yaml in the working directory
// when path is empty) on top of the defaults, then applies environment
// overrides such as API_BASEURL and PAYMENT_PUBLISHABLEKEY. A missing file is
// not an error when no explicit path was given.
func Load(path string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = defaultFileName
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, "config file %s", path)
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return canonicalizeEnvKey(key, existing), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	return cfg, nil
}

var sections = map[string]bool{
	"env": true, "api": true, "payment": true, "auth": true, "storage": true, "cache": true,
}

// canonicalizeEnvKey maps API_BASEURL onto api.baseURL, reusing the key
// spelling already present in the YAML. Variables outside the known sections
// map to "" and are skipped.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	if len(segments) < 2 || !sections[segments[0]] {
		return ""
	}

	canonical := make([]string, 0, len(segments))
	current := existing
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}
		child, _ := value.(map[string]any)
		return key, child, true
	}
	return "", nil, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
