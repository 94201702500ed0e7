// Package cli holds the configuration and logging setup shared by the
// command line tools.
package cli

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/largeint-rsa/internal/config"
	"github.com/mahdiidarabi/largeint-rsa/internal/logging"
	"github.com/mahdiidarabi/largeint-rsa/pkg/rsasign"
)

// Env is the loaded configuration of one command invocation.
type Env struct {
	Viper  *viper.Viper
	Config *config.TopLevel
	Logger *zap.Logger
}

// common flag name -> config key
var commonFlags = map[string]string{
	"keys.dir":   "key-dir",
	"log.level":  "log-level",
	"log.format": "log-format",
}

// AddFlags registers the flags every command accepts.
func AddFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to config file (default ./rsasign.yaml if present)")
	flags.String("key-dir", ".", "Directory holding pubkey.rsa and privkey.rsa")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console or json)")
}

// Load reads configuration from defaults, the config file, the environment
// and flags, in increasing precedence. extra maps further config keys to
// command specific flag names.
func Load(flags *pflag.FlagSet, extra map[string]string) (*Env, error) {
	v := config.NewViper()
	if err := config.BindFlags(v, flags, commonFlags); err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, flags, extra); err != nil {
		return nil, err
	}

	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	conf, err := config.Load(v, path)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{Level: conf.Log.Level, Format: conf.Log.Format})
	if err != nil {
		return nil, err
	}
	return &Env{Viper: v, Config: conf, Logger: logger}, nil
}

// KeyGenConfig maps the keygen section onto the generator limits.
func (e *Env) KeyGenConfig() rsasign.KeyGenConfig {
	k := e.Config.KeyGen
	return rsasign.KeyGenConfig{
		PrimeBits:     k.PrimeBits,
		Rounds:        k.Rounds,
		MaxAttempts:   k.MaxAttempts,
		MaxCandidates: k.MaxCandidates,
		NumWorkers:    k.Workers,
		Timeout:       k.Timeout,
	}
}

// Client builds an rsasign client from the configuration.
func (e *Env) Client() *rsasign.Client {
	store := &rsasign.FileKeyStore{
		PublicPath:  e.Config.Keys.PublicPath(),
		PrivatePath: e.Config.Keys.PrivatePath(),
	}
	generator := rsasign.NewKeyGenerator().
		WithConfig(e.KeyGenConfig()).
		WithLogger(e.Logger.Named("keygen"))

	return rsasign.NewClient().
		WithKeyStore(store).
		WithGenerator(generator).
		WithSignatureSuffix(e.Config.Signature.Suffix).
		WithLogger(e.Logger)
}
