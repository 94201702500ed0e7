package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/largeint-rsa/internal/cli"
)

// errNotValid makes the process exit non-zero after a failed verification.
var errNotValid = errors.New("signature is not valid")

const modes = `Modes:
  sign, s     sign <file> with privkey.rsa, writing <file>.sig
  verify, v   check <file>.sig against <file> with pubkey.rsa
  hash, h     print the SHA-256 digest of <file>`

func newRootCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rsasign <mode> <file>",
		Short:         "Sign and verify files with RSA",
		Long:          "Sign and verify files with RSA.\n\n" + modes,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, target := args[0], args[1]

			env, err := cli.Load(cmd.Flags(), nil)
			if err != nil {
				return err
			}
			defer env.Logger.Sync()
			client := env.Client()

			switch mode {
			case "sign", "s":
				sigPath, err := client.SignFile(cmd.Context(), target)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "signature written to %s\n", sigPath)

			case "verify", "v":
				valid, err := client.VerifyFile(cmd.Context(), target)
				if err != nil {
					return err
				}
				if !valid {
					fmt.Fprintln(stdout, "signature is not valid")
					return errNotValid
				}
				fmt.Fprintln(stdout, "signature is valid")

			case "hash", "h":
				digest, err := client.HashFile(target)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, digest)

			default:
				return errors.Errorf("unknown mode %q (expected sign, verify or hash)", mode)
			}
			return nil
		},
	}
	cli.AddFlags(cmd.PersistentFlags())
	return cmd
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if err != errNotValid {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
