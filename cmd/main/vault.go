package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/avolkov/lexipass/pkg/vault"
	"github.com/spf13/cobra"
)

// masterEnvVar lets scripts supply the master password non-interactively.
const masterEnvVar = "LEXIPASS_MASTER"

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage the encrypted credential vault",
}

var vaultAddCmd = &cobra.Command{
	Use:   "add <service> <username>",
	Short: "Store a credential; the secret is read from stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, cleanup, err := openVault()
		if err != nil {
			return err
		}
		defer cleanup()

		secret, err := readLine("Secret: ")
		if err != nil {
			return err
		}
		if secret == "" {
			return fmt.Errorf("refusing to store an empty secret")
		}
		return v.Store(cmd.Context(), args[0], args[1], secret)
	},
}

var vaultShowCmd = &cobra.Command{
	Use:   "show <service>",
	Short: "Decrypt and print a stored credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, cleanup, err := openVault()
		if err != nil {
			return err
		}
		defer cleanup()

		username, secret, err := v.Retrieve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "username: %s\nsecret:   %s\n", username, secret)
		return nil
	},
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, cleanup, err := openVault()
		if err != nil {
			return err
		}
		defer cleanup()

		services, err := v.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range services {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

var vaultRmCmd = &cobra.Command{
	Use:   "rm <service>",
	Short: "Delete a stored credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, cleanup, err := openVault()
		if err != nil {
			return err
		}
		defer cleanup()

		removed, err := v.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no credential stored for %q", args[0])
		}
		return nil
	},
}

var vaultResetYes bool

var vaultResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every credential in the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !vaultResetYes {
			return fmt.Errorf("pass --yes to confirm wiping the vault")
		}
		v, cleanup, err := openVault()
		if err != nil {
			return err
		}
		defer cleanup()
		return v.Reset(cmd.Context())
	},
}

// openVault opens the vault database, ensures its schema, and unlocks it
// with the master password. The returned cleanup closes statements and the
// database.
func openVault() (*vault.Vault, func(), error) {
	master := os.Getenv(masterEnvVar)
	if master == "" {
		var err error
		master, err = readLine("Master password: ")
		if err != nil {
			return nil, nil, err
		}
	}
	if master == "" {
		return nil, nil, fmt.Errorf("master password is required (set %s or enter it when prompted)", masterEnvVar)
	}

	if err := ensureParentDir(cfg.VaultDBPath); err != nil {
		return nil, nil, err
	}
	db, err := openDB(cfg.VaultDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vault database: %w", err)
	}
	if err := vault.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	salt, err := vault.LoadOrCreateSalt(cfg.SaltPath)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	v, err := vault.New(db, []byte(master), salt)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	v.SetLogger(logger)

	cleanup := func() {
		v.Close()
		_ = db.Close()
	}
	return v, cleanup, nil
}

// stdinReader is shared across prompts: a per-call reader would buffer past
// the first newline and drop any following piped-in lines.
var stdinReader = bufio.NewReader(os.Stdin)

// readLine prompts on stderr and reads one line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	vaultResetCmd.Flags().BoolVar(&vaultResetYes, "yes", false, "confirm the reset")
	vaultCmd.AddCommand(vaultAddCmd, vaultShowCmd, vaultListCmd, vaultRmCmd, vaultResetCmd)
	rootCmd.AddCommand(vaultCmd)
}
