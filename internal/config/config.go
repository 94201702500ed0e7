package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Prefix is the environment variable prefix, e.g. RSASIGN_KEYGEN_PRIME_BITS.
const Prefix = "RSASIGN"

// Name is the config file name looked up in the working directory.
const Name = "rsasign"

const (
	MinPrimeBits = 16
	MaxPrimeBits = 256
)

// TopLevel is the complete tool configuration.
type TopLevel struct {
	Keys      Keys      `mapstructure:"keys"`
	Signature Signature `mapstructure:"signature"`
	KeyGen    KeyGen    `mapstructure:"keygen"`
	Log       Log       `mapstructure:"log"`
}

// Keys locates the key files.
type Keys struct {
	Dir     string `mapstructure:"dir"`
	Public  string `mapstructure:"public"`
	Private string `mapstructure:"private"`
}

// PublicPath is the public key file path.
func (k Keys) PublicPath() string { return filepath.Join(k.Dir, k.Public) }

// PrivatePath is the private key file path.
func (k Keys) PrivatePath() string { return filepath.Join(k.Dir, k.Private) }

type Signature struct {
	Suffix string `mapstructure:"suffix"`
}

// KeyGen bounds and tunes key generation.
type KeyGen struct {
	PrimeBits     int           `mapstructure:"prime_bits"`
	Rounds        int           `mapstructure:"rounds"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	MaxCandidates int           `mapstructure:"max_candidates"`
	Workers       int           `mapstructure:"workers"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SelfTest      bool          `mapstructure:"selftest"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]interface{}{
	"keys.dir":              ".",
	"keys.public":           "pubkey.rsa",
	"keys.private":          "privkey.rsa",
	"signature.suffix":      ".sig",
	"keygen.prime_bits":     256,
	"keygen.rounds":         50,
	"keygen.max_attempts":   1000,
	"keygen.max_candidates": 100000,
	"keygen.workers":        0,
	"keygen.timeout":        "0s",
	"keygen.selftest":       false,
	"log.level":             "info",
	"log.format":            "console",
}

// NewViper returns a viper instance with defaults and environment binding
// set up. Flags bound later take precedence over both.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(Prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds each named flag to its config key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, flag := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return errors.Errorf("flag %q not defined", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", flag)
		}
	}
	return nil
}

// Load reads the config file, if any, and returns the validated configuration.
// An explicit path must exist; without one, a missing rsasign.yaml in the
// working directory is not an error.
func Load(v *viper.Viper, path string) (*TopLevel, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Wrap(err, "error reading configuration")
		}
	}

	var conf TopLevel
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config into struct")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks value ranges.
func (c *TopLevel) Validate() error {
	switch {
	case c.KeyGen.PrimeBits < MinPrimeBits || c.KeyGen.PrimeBits > MaxPrimeBits:
		return errors.Errorf("keygen.prime_bits must be between %d and %d, got %d", MinPrimeBits, MaxPrimeBits, c.KeyGen.PrimeBits)
	case c.KeyGen.Rounds < 1:
		return errors.Errorf("keygen.rounds must be positive, got %d", c.KeyGen.Rounds)
	case c.KeyGen.MaxAttempts < 1:
		return errors.Errorf("keygen.max_attempts must be positive, got %d", c.KeyGen.MaxAttempts)
	case c.KeyGen.MaxCandidates < 1:
		return errors.Errorf("keygen.max_candidates must be positive, got %d", c.KeyGen.MaxCandidates)
	case c.KeyGen.Workers < 0:
		return errors.Errorf("keygen.workers must not be negative, got %d", c.KeyGen.Workers)
	case c.KeyGen.Timeout < 0:
		return errors.Errorf("keygen.timeout must not be negative, got %s", c.KeyGen.Timeout)
	case c.Keys.Public == "" || c.Keys.Private == "":
		return errors.New("keys.public and keys.private must be set")
	case c.Keys.Public == c.Keys.Private:
		return errors.Errorf("keys.public and keys.private must differ, both are %q", c.Keys.Public)
	case c.Signature.Suffix == "":
		return errors.New("signature.suffix must be set")
	}
	return nil
}
