package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veilcrypt/veil-go/pkg/veil/capsule/analyzer"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	blob, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	if len(blob) < fileSaltSize {
		return errors.New("not a capsule file")
	}

	res, err := analyzer.Analyze(blob[fileSaltSize:])
	if err != nil {
		return err
	}

	fmt.Printf("payload size:            %d bytes\n", res.PayloadSize)
	fmt.Printf("entropy:                 %.3f bits/byte (normalized %.3f)\n",
		res.Entropy, res.NormalizedEntropy)
	fmt.Printf("block entropy uniformity %.3f\n", res.BlockEntropyUniformity)
	fmt.Printf("chi-square:              %.1f (uniformity %.3f)\n",
		res.ChiSquare, res.DistributionUniformity)
	fmt.Printf("avg block similarity:    %.3f\n", res.AvgBlockSimilarity)
	fmt.Printf("resistance score:        %.2f/10 (%s)\n",
		res.ResistanceScore, res.ResistanceLevel)
	return nil
}
