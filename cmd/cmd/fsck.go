package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/fsck"
)

func DefineFsckCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "fsck <image>",
		Short:        "Check FAT chain / directory size consistency",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				rep, err := fsck.Run(context.Background(), fsys)
				if err != nil {
					return err
				}
				fmt.Printf("checked %d files\n", rep.FilesChecked)
				if rep.OK() {
					fmt.Println("no inconsistencies found")
					return nil
				}
				return rep.Errors
			})
		},
	}
}
