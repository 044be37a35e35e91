package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "import <image> <host-path>",
		Short:        "Import a host file, or every regular file in a host directory, into the root directory",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hostFiles, skipped, err := importCandidates(args[1])
			if err != nil {
				return err
			}
			for _, name := range skipped {
				fmt.Printf("skipping %s: not a valid ecs150fs filename\n", name)
			}

			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				for _, hostPath := range hostFiles {
					name := filepath.Base(hostPath)
					if _, err := copyHostFile(fsys, name, hostPath); err != nil {
						return fmt.Errorf("import: %s: %w", name, err)
					}
					fmt.Printf("imported %s\n", name)
				}
				return nil
			})
		},
	}
}
