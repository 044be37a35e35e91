package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "cat <image> <filename>",
		Short:        "Print a file's contents to stdout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				fd, err := fsys.Open(args[1])
				if err != nil {
					return err
				}
				defer fsys.Close(fd)

				_, err = io.Copy(os.Stdout, fs.NewFileReader(fsys, fd))
				return err
			})
		},
	}
}
