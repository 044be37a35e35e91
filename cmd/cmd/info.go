package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "info <image>",
		Short:        "Print superblock geometry and free-space ratios",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				info, err := fsys.Info()
				if err != nil {
					return err
				}
				fmt.Println(info.String())
				return nil
			})
		},
	}
}
