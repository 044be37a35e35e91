// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/fuse"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image> <mountpoint>",
		Short: "Mount an ECS150FS image as a read-write FUSE filesystem",
		Long: `The 'mount' command mounts an ECS150FS image at mountpoint, exposing its
root directory as a flat FUSE filesystem. It blocks until an interrupt or
SIGTERM lets it unmount the mountpoint, flushing the image's FAT and root
directory on exit.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runMount,
	}
	return cmd
}

func runMount(cmd *cobra.Command, args []string) error {
	return withMounted(args[0], func(fsys *fs.FileSystem) error {
		return fuse.Mount(args[1], fsys)
	})
}
