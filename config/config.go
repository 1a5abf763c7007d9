package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2/log"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of every environment override, for example
// JOBLY_AUTH_SECRET for auth.secret.
const EnvPrefix = "JOBLY_"

const (
	DefaultAddress     = ":3000"
	DefaultDSN         = "file:jobly.db?cache=shared&_fk=1"
	DefaultExpiration  = 24 * time.Hour
	DefaultIssuer      = "jobly"
	DefaultTokenLookup = "header:Authorization,body:_token,query:_token"
	DefaultBcryptCost  = 12
	DefaultLogLevel    = "info"
	redacted           = "********"
)

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"fatal": log.LevelFatal,
	"panic": log.LevelPanic,
}

type Server struct {
	Address      string        `koanf:"address" json:"address"`
	ReadTimeout  time.Duration `koanf:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout"`
}

type Database struct {
	DSN string `koanf:"dsn" json:"dsn"`
}

type Auth struct {
	Secret      string        `koanf:"secret" json:"secret"`
	Expiration  time.Duration `koanf:"expiration" json:"expiration"`
	Issuer      string        `koanf:"issuer" json:"issuer"`
	Audience    []string      `koanf:"audience" json:"audience"`
	TokenLookup string        `koanf:"token_lookup" json:"token_lookup"`
	AuthScheme  string        `koanf:"auth_scheme" json:"auth_scheme"`
	ContextKey  string        `koanf:"context_key" json:"context_key"`
	BcryptCost  int           `koanf:"bcrypt_cost" json:"bcrypt_cost"`
}

type Log struct {
	Level     string `koanf:"level" json:"level"`
	AccessLog bool   `koanf:"access_log" json:"access_log"`
}

// Config is the process configuration. It satisfies the settings
// interface of the jobly package.
type Config struct {
	Server   Server   `koanf:"server" json:"server"`
	Database Database `koanf:"database" json:"database"`
	Auth     Auth     `koanf:"auth" json:"auth"`
	Log      Log      `koanf:"log" json:"log"`
}

// Defaults is the lowest configuration layer
func Defaults() map[string]any {
	return map[string]any{
		"server.address":       DefaultAddress,
		"server.read_timeout":  "10s",
		"server.write_timeout": "10s",
		"database.dsn":         DefaultDSN,
		"auth.secret":          "",
		"auth.expiration":      DefaultExpiration.String(),
		"auth.issuer":          DefaultIssuer,
		"auth.token_lookup":    DefaultTokenLookup,
		"auth.auth_scheme":     "Bearer",
		"auth.context_key":     "user",
		"auth.bcrypt_cost":     DefaultBcryptCost,
		"log.level":            DefaultLogLevel,
		"log.access_log":       true,
	}
}

// Flags returns the command line flags understood by Load
func Flags(name string) *pflag.FlagSet {
	set := pflag.NewFlagSet(name, pflag.ContinueOnError)
	set.StringP("config", "c", "", "path to a YAML configuration file")
	set.String("addr", DefaultAddress, "address to listen on")
	set.String("dsn", DefaultDSN, "database connection string")
	set.String("log-level", DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	set.Duration("token-expiration", DefaultExpiration, "lifetime of issued tokens")
	return set
}

var flagKeys = map[string]string{
	"addr":             "server.address",
	"dsn":              "database.dsn",
	"log-level":        "log.level",
	"token-expiration": "auth.expiration",
}

// Load builds the configuration from, lowest to highest precedence,
// the defaults, the YAML file at path when it exists, JOBLY_*
// environment variables and flags explicitly set on the command line.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load default configuration")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to read configuration file "+path)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read environment")
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to read command line flags")
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad is Load for main packages
func MustLoad(path string, flags *pflag.FlagSet) *Config {
	cfg, err := Load(path, flags)
	if err != nil {
		panic(err)
	}
	return cfg
}

// envKey turns JOBLY_AUTH_BCRYPT_COST into auth.bcrypt_cost. Only the
// first underscore separates section from key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func (c Config) Validate() error {
	err := validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Address, validation.Required),
			validation.Field(&c.Server.ReadTimeout, validation.Min(time.Duration(0))),
			validation.Field(&c.Server.WriteTimeout, validation.Min(time.Duration(0))),
		),
		"database": validation.ValidateStruct(&c.Database,
			validation.Field(&c.Database.DSN, validation.Required),
		),
		"auth": validation.ValidateStruct(&c.Auth,
			validation.Field(&c.Auth.Secret, validation.Required),
			validation.Field(&c.Auth.Expiration, validation.Min(time.Duration(0))),
			validation.Field(&c.Auth.TokenLookup, validation.Required),
			validation.Field(&c.Auth.BcryptCost, validation.Min(4), validation.Max(31)),
		),
		"log": validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.By(func(value any) error {
				level, _ := value.(string)
				if _, ok := logLevels[strings.ToLower(level)]; !ok {
					return errors.New("unknown log level")
				}
				return nil
			})),
		),
	}.Filter()

	if err != nil {
		return goerrors.New("invalid configuration: "+err.Error(), goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

func (c Config) GetSigningKey() string {
	return c.Auth.Secret
}

func (c Config) GetContextKey() string {
	return c.Auth.ContextKey
}

func (c Config) GetTokenExpiration() time.Duration {
	return c.Auth.Expiration
}

func (c Config) GetTokenLookup() string {
	return c.Auth.TokenLookup
}

func (c Config) GetAuthScheme() string {
	return c.Auth.AuthScheme
}

func (c Config) GetIssuer() string {
	return c.Auth.Issuer
}

func (c Config) GetAudience() []string {
	return c.Auth.Audience
}

func (c Config) GetBcryptCost() int {
	return c.Auth.BcryptCost
}

// LogLevel returns the fiber log level, info when unset
func (c Config) LogLevel() log.Level {
	if level, ok := logLevels[strings.ToLower(c.Log.Level)]; ok {
		return level
	}
	return log.LevelInfo
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.Auth.Secret != "" {
		c.Auth.Secret = redacted
	}
	return c
}

func (c Config) String() string {
	return print.MaybePrettyJSON(c.Redacted())
}

// MarshalJSON always hides the secret
func (c Config) MarshalJSON() ([]byte, error) {
	type plain Config
	return json.Marshal(plain(c.Redacted()))
}
