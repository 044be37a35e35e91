package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "create <image> <filename>",
		Short:        "Create a new, empty file in the root directory",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				return fsys.Create(args[1])
			})
		},
	}
}
