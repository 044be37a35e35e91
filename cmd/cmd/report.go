package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/report"
)

func DefineReportCommand() *cobra.Command {
	var verifyPath string

	cmd := &cobra.Command{
		Use:          "report <image> <out.dfxml>",
		Short:        "Write a DFXML manifest of every file's name, size and extents",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				if verifyPath != "" {
					return runVerify(fsys, verifyPath)
				}

				entries, err := report.Build(fsys)
				if err != nil {
					return err
				}

				info, err := fsys.Info()
				if err != nil {
					return err
				}

				out, err := os.Create(args[1])
				if err != nil {
					return err
				}
				defer out.Close()

				imageSize := uint64(info.TotalBlocks) * fs.BlockSize
				return report.WriteDFXML(out, args[0], imageSize, entries)
			})
		},
	}
	cmd.Flags().StringVar(&verifyPath, "verify", "", "compare the image against a previously written manifest instead of writing a new one")
	return cmd
}

func runVerify(fsys *fs.FileSystem, manifestPath string) error {
	in, err := os.Open(manifestPath)
	if err != nil {
		return err
	}
	defer in.Close()

	diff, err := report.Verify(in, fsys)
	if err != nil {
		return err
	}

	if diff.Clean() {
		fmt.Println("report: image matches manifest")
		return nil
	}
	for _, name := range diff.Added {
		fmt.Printf("+ %s (not in manifest)\n", name)
	}
	for _, name := range diff.Removed {
		fmt.Printf("- %s (missing from image)\n", name)
	}
	for _, name := range diff.Resized {
		fmt.Printf("~ %s (size changed)\n", name)
	}
	return fmt.Errorf("report: image differs from manifest")
}
