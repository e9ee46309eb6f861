package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veilcrypt/veil-go/pkg/veil"
	"github.com/veilcrypt/veil-go/pkg/veil/kdf"
)

// A capsule file is the public salt followed by the capsule bytes. The salt
// is needed before the capsule can be opened, so it travels with it.
const fileSaltSize = veil.SaltSize

func runEncrypt(cmd *cobra.Command, args []string) error {
	trueFile, falseFile, outFile := args[0], args[1], args[2]

	tp, err := passphrase(truePass, "VEIL_TRUE_PASSPHRASE", "true payload")
	if err != nil {
		return err
	}
	fp, err := passphrase(falsePass, "VEIL_FALSE_PASSPHRASE", "decoy payload")
	if err != nil {
		return err
	}

	trueData, err := os.ReadFile(trueFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", trueFile, err)
	}
	falseData, err := os.ReadFile(falseFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", falseFile, err)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	salt, err := veil.NewSalt()
	if err != nil {
		return err
	}

	trueKey := kdf.Argon2id([]byte(tp), salt, 32)
	falseKey := kdf.Argon2id([]byte(fp), salt, 32)
	defer veil.ZeroizeBytes(trueKey)
	defer veil.ZeroizeBytes(falseKey)

	res, err := veil.Seal(cmd.Context(), &veil.SealParams{
		TrueKey:   trueKey,
		FalseKey:  falseKey,
		Salt:      salt,
		TrueData:  trueData,
		FalseData: falseData,
		Config:    cfg,
	})
	if err != nil {
		return err
	}

	out := make([]byte, 0, fileSaltSize+len(res.Capsule))
	out = append(out, salt...)
	out = append(out, res.Capsule...)
	if err := os.WriteFile(outFile, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}

	slog.Info("capsule written",
		"file", outFile,
		"size", len(out),
	)
	return nil
}

func passphrase(flag, env, what string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no passphrase for the %s: set the flag or %s", what, env)
}
