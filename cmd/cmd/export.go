package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	times "gopkg.in/djherbis/times.v1"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/export"
	"github.com/ostafen/ecs150fs/pkg/pbar"
)

func DefineExportCommand() *cobra.Command {
	var codecFlag string
	var showProgress bool

	cmd := &cobra.Command{
		Use:          "export <image> <filename> <dest-path>",
		Short:        "Copy a file out of the image onto the host, optionally compressed",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := parseCodec(codecFlag)
			if err != nil {
				return err
			}

			return withMounted(args[0], func(fsys *fs.FileSystem) error {
				var onWrite func(n int)
				var pbs *pbar.ProgressBarState
				if showProgress {
					fd, err := fsys.Open(args[1])
					if err != nil {
						return err
					}
					size, err := fsys.Stat(fd)
					fsys.Close(fd)
					if err != nil {
						return err
					}
					pbs = pbar.NewProgressBarState(int64(size))
					onWrite = func(n int) {
						pbs.ProcessedBytes += int64(n)
						pbs.Render(false)
					}
				}

				if err := export.File(fsys, args[1], args[2], codec, onWrite); err != nil {
					return err
				}
				if pbs != nil {
					pbs.Render(true)
					pbs.Finish()
				}

				if t, err := times.Stat(args[2]); err == nil {
					fmt.Printf("wrote %s (mtime %s)\n", args[2], t.ModTime().Format("2006-01-02T15:04:05Z07:00"))
				} else {
					fmt.Printf("wrote %s\n", args[2])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&codecFlag, "codec", "raw", "compression codec: raw, lz4, xz")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar while exporting")
	return cmd
}

func parseCodec(s string) (export.Codec, error) {
	switch s {
	case "raw", "":
		return export.Raw, nil
	case "lz4":
		return export.LZ4, nil
	case "xz":
		return export.XZ, nil
	default:
		return export.Raw, fmt.Errorf("unknown codec %q", s)
	}
}
