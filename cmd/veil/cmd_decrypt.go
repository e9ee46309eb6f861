package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veilcrypt/veil-go/pkg/veil"
	"github.com/veilcrypt/veil-go/pkg/veil/kdf"
)

func runDecrypt(cmd *cobra.Command, args []string) error {
	inFile, outFile := args[0], args[1]

	pp, err := passphrase(pass, "VEIL_PASSPHRASE", "capsule")
	if err != nil {
		return err
	}

	blob, err := os.ReadFile(inFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", inFile, err)
	}
	if len(blob) < fileSaltSize {
		return errors.New("not a capsule file")
	}
	salt, capsule := blob[:fileSaltSize], blob[fileSaltSize:]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	key := kdf.Argon2id([]byte(pp), salt, 32)
	defer veil.ZeroizeBytes(key)

	res, err := veil.Open(cmd.Context(), &veil.OpenParams{
		Key:     key,
		Salt:    salt,
		Capsule: capsule,
		Config:  cfg,
	})
	if err != nil {
		// Collapse every recovery failure into one message. Reporting
		// anything finer would hand an observer the distinguishing
		// signal the capsule format is built to avoid.
		return errors.New("decryption failed")
	}

	if err := os.WriteFile(outFile, res.Data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}

	slog.Info("payload written",
		"file", outFile,
		"size", len(res.Data),
	)
	return nil
}
