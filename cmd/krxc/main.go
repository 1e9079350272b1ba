// Package main implements krxc, the krxd configuration compiler.
//
// It reads an authoring-language source file, compiles it to a
// ConfigRoot, and writes the resulting .krx binary to disk.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/krxproject/krxd/author"
	"github.com/krxproject/krxd/codec"
)

func exitIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "krxc:", err)
		os.Exit(1)
	}
}

func compile(inputPath, outputPath string) error {
	var source, err = os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("krxc: %w", err)
	}

	var root, compileErr = author.Compile(string(source))
	if compileErr != nil {
		return fmt.Errorf("krxc: %w", compileErr)
	}

	var data []byte

	data, err = codec.Serialize(root)
	if err != nil {
		return fmt.Errorf("krxc: %w", err)
	}

	if err = os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("krxc: %w", err)
	}

	return nil
}

func main() {
	var outputPath string

	var rootCmd = &cobra.Command{
		Use:   "krxc <source.krxs>",
		Short: "Compile a krxd authoring-language source file into a .krx binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = args[0] + ".krx"
			}

			return compile(args[0], outputPath)
		},
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output .krx path (default: <input>.krx)")

	exitIf(rootCmd.Execute())
}
