package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Profile is a reusable capsule configuration. Both sides of a capsule must
// agree on states and steps, so sharing a profile file beats repeating flags.
type Profile struct {
	BlockType string `json:"block_type"`
	BlockSize int    `json:"block_size"`
	Shuffle   bool   `json:"shuffle"`
	Steps     int    `json:"steps"`
	States    int    `json:"states"`
}

// applyProfile reads a JSON profile and applies it underneath the
// command-line flags: a flag explicitly set by the user wins over the
// profile value.
func applyProfile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse profile %s: %w", path, err)
	}

	set := cmd.Flags().Changed
	if p.BlockType != "" && !set("block-type") {
		blockType = p.BlockType
	}
	if p.BlockSize != 0 && !set("block-size") {
		blockSize = p.BlockSize
	}
	if p.Shuffle && !set("shuffle") {
		shuffle = p.Shuffle
	}
	if p.Steps != 0 && !set("steps") {
		steps = p.Steps
	}
	if p.States != 0 && !set("states") {
		states = p.States
	}
	return nil
}
