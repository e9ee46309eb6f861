package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veilcrypt/veil-go/pkg/veil"
)

var (
	truePass  string
	falsePass string
	pass      string

	blockType   string
	blockSize   int
	shuffle     bool
	steps       int
	states      int
	profileFile string

	rootCmd = &cobra.Command{
		Use:   "veil",
		Short: "Plausibly deniable encryption capsules",
		Long: `veil seals two payloads into a single capsule. Each payload is
protected by its own passphrase, and the capsule bytes do not reveal
which passphrase unlocks which payload.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if profileFile == "" {
				return nil
			}
			return applyProfile(cmd, profileFile)
		},
	}

	encryptCmd = &cobra.Command{
		Use:   "encrypt <true-file> <false-file> <out-file>",
		Short: "Seal a real and a decoy payload into one capsule",
		Args:  cobra.ExactArgs(3),
		RunE:  runEncrypt,
	}

	decryptCmd = &cobra.Command{
		Use:   "decrypt <in-file> <out-file>",
		Short: "Recover the payload a passphrase unlocks",
		Args:  cobra.ExactArgs(2),
		RunE:  runDecrypt,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze <in-file>",
		Short: "Score a capsule's statistical resistance to analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFile, "profile", "",
		"JSON profile with capsule settings (flags override it)")

	encryptCmd.Flags().StringVar(&truePass, "true-pass", "",
		"passphrase for the real payload (or VEIL_TRUE_PASSPHRASE)")
	encryptCmd.Flags().StringVar(&falsePass, "false-pass", "",
		"passphrase for the decoy payload (or VEIL_FALSE_PASSPHRASE)")
	encryptCmd.Flags().StringVar(&blockType, "block-type", "sequential",
		"capsule arrangement: sequential or interleave")
	encryptCmd.Flags().IntVar(&blockSize, "block-size", 0,
		"entropy block size in bytes (0 selects the default)")
	encryptCmd.Flags().BoolVar(&shuffle, "shuffle", false,
		"apply the keyed byte permutation to the payload")

	decryptCmd.Flags().StringVar(&pass, "pass", "",
		"passphrase to try (or VEIL_PASSPHRASE)")

	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		c.Flags().IntVar(&steps, "steps", 0,
			"engine walk length (0 selects the default; must match at decrypt)")
		c.Flags().IntVar(&states, "states", 0,
			"engine state count (0 selects the default; must match at decrypt)")
	}

	rootCmd.AddCommand(encryptCmd, decryptCmd, analyzeCmd)
}

func buildConfig() (veil.Config, error) {
	cfg := veil.Config{
		StateCount: states,
		Steps:      steps,
		BlockSize:  blockSize,
		Shuffle:    shuffle,
	}
	switch blockType {
	case "", "sequential":
		cfg.BlockType = veil.Sequential
	case "interleave":
		cfg.BlockType = veil.Interleave
	default:
		return veil.Config{}, fmt.Errorf("unknown block type %q", blockType)
	}
	return cfg, nil
}
