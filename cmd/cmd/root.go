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
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/ecs150fs/fs"
	"github.com/ostafen/ecs150fs/internal/logger"
)

const AppName = "ecs150fs"

var logLevel string

// Execute builds and runs the root command tree.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - mount, inspect and modify ECS150FS disk images",
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")

	rootCmd.AddCommand(
		DefineInfoCommand(),
		DefineLsCommand(),
		DefineCreateCommand(),
		DefineRmCommand(),
		DefineCatCommand(),
		DefineWriteCommand(),
		DefineImportCommand(),
		DefineStatCommand(),
		DefineFsckCommand(),
		DefineReportCommand(),
		DefineExportCommand(),
		DefineMountCommand(),
	)

	return rootCmd.Execute()
}

func newLogger() *logger.Logger {
	return logger.New(os.Stderr, logger.ParseLevel(logLevel))
}

// withMounted opens imagePath, mounts it, runs fn, and always unmounts
// afterward, preferring fn's error over an unmount failure but reporting
// both if they differ.
func withMounted(imagePath string, fn func(fsys *fs.FileSystem) error) error {
	fsys := fs.New(newLogger())
	if err := fsys.Mount(imagePath); err != nil {
		return err
	}

	runErr := fn(fsys)
	if err := fsys.Unmount(); err != nil {
		if runErr == nil {
			return err
		}
		return errors.Join(runErr, err)
	}
	return runErr
}
