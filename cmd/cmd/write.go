package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineWriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "write <image> <filename> <host-path>",
		Short:        "Import a host file's contents into a file in the image",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				_, err := copyHostFile(fsys, args[1], args[2])
				return err
			})
		},
	}
}
