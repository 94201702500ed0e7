package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/largeint-rsa/internal/cli"
	"github.com/mahdiidarabi/largeint-rsa/internal/selftest"
)

var keygenFlags = map[string]string{
	"keygen.prime_bits":     "prime-bits",
	"keygen.rounds":         "rounds",
	"keygen.max_attempts":   "max-attempts",
	"keygen.max_candidates": "max-candidates",
	"keygen.workers":        "workers",
	"keygen.timeout":        "timeout",
	"keygen.selftest":       "selftest",
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rsakeygen",
		Short:         "Generate an RSA key pair (pubkey.rsa, privkey.rsa)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Load(cmd.Flags(), keygenFlags)
			if err != nil {
				return err
			}
			defer env.Logger.Sync()

			if env.Config.KeyGen.SelfTest {
				if err := selftest.Run(cmd.Context(), selftest.Config{Logger: env.Logger.Named("selftest")}); err != nil {
					return err
				}
			}

			client := env.Client()
			pair, err := client.GenerateKeys(cmd.Context())
			if err != nil {
				return err
			}
			env.Logger.Debug("key pair ready", zap.Int("modulus_bits", pair.Public.N.BitLen()))

			fmt.Fprintf(stdout, "Public key:  %s\n", env.Config.Keys.PublicPath())
			fmt.Fprintf(stdout, "Private key: %s\n", env.Config.Keys.PrivatePath())
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	cli.AddFlags(flags)
	flags.Int("prime-bits", 256, "Size of each prime factor in bits (16..256)")
	flags.Int("rounds", 50, "Miller-Rabin rounds per prime candidate")
	flags.Int("max-attempts", 1000, "Public exponent draws before giving up")
	flags.Int("max-candidates", 100000, "Prime candidates drawn per prime before giving up")
	flags.Int("workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)")
	flags.Duration("timeout", 0, "Abort key generation after this long (0 = no limit)")
	flags.Bool("selftest", false, "Cross-check the arithmetic before generating keys")

	cmd.AddCommand(newSelfTestCmd(stdout))
	return cmd
}

func newSelfTestCmd(stdout io.Writer) *cobra.Command {
	var pairs int
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Cross-check big integer arithmetic against secp256k1 modular arithmetic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Load(cmd.Flags(), nil)
			if err != nil {
				return err
			}
			defer env.Logger.Sync()

			if err := selftest.Run(cmd.Context(), selftest.Config{Rounds: pairs, Logger: env.Logger}); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "selftest passed (%d operand pairs)\n", pairs)
			return nil
		},
	}
	cmd.Flags().IntVar(&pairs, "pairs", selftest.DefaultRounds, "Random operand pairs to check")
	return cmd
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
