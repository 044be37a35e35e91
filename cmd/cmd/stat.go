package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineStatCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "stat <image> <filename>",
		Short:        "Print a single file's size",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				fd, err := fsys.Open(args[1])
				if err != nil {
					return err
				}
				defer fsys.Close(fd)

				size, err := fsys.Stat(fd)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s (%d bytes)\n", args[1], humanize.Bytes(uint64(size)), size)
				return nil
			})
		},
	}
}
