package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "rm <image> <filename>",
		Short:        "Delete a file from the root directory",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				return fsys.Delete(args[1])
			})
		},
	}
}
