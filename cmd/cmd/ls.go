package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
)

func DefineLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "ls <image>",
		Short:        "List files in the root directory",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				entries, err := fsys.Ls()
				if err != nil {
					return err
				}
				for _, e := range entries {
					blk := "-"
					if e.Size > 0 {
						blk = fmt.Sprintf("%d", e.FirstBlock)
					}
					fmt.Printf("%-16s %10s  data_blk=%s\n", e.Name, humanize.Bytes(uint64(e.Size)), blk)
				}
				return nil
			})
		},
	}
}
