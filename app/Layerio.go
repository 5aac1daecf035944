/*
Copyright 2011-2025 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"os"

	layerio "github.com/layerio/layerio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const APP_HEADER = "layerio 1.0 (C) 2025, Frederic Langlet"

// application the state shared by the commands
type application struct {
	cfg    *appConfig
	logger *zap.Logger
	events *EventLogger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status (the error code when
// there is one)
func exitCode(err error) int {
	code := layerio.ErrorCode(err)

	if code == 0 || code == layerio.ERR_UNKNOWN {
		return 1
	}

	return code
}

func newRootCommand() *cobra.Command {
	app := &application{cfg: defaultConfig(), logger: zap.NewNop()}
	app.events = NewEventLogger(app.logger)

	root := &cobra.Command{
		Use:           "layerio",
		Short:         "Read, convert and inspect text files through a layered stream stack",
		Long:          APP_HEADER,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(app.cfg.verbose)

			if err != nil {
				return err
			}

			app.logger = logger
			app.events = NewEventLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.cfg.verbose == true {
				app.events.Summary()
			}

			app.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.IntVarP(&app.cfg.bufferSize, "buffer-size", "b", app.cfg.bufferSize, "size of the byte buffers")
	flags.StringVarP(&app.cfg.encoding, "encoding", "e", app.cfg.encoding, "character encoding")
	flags.StringVar(&app.cfg.errors, "errors", app.cfg.errors,
		"codec error policy (strict, ignore, replace, backslashreplace, xmlcharrefreplace)")
	flags.StringVarP(&app.cfg.newline, "newline", "n", app.cfg.newline,
		"newline mode (universal, untranslated, lf, cr, crlf)")
	flags.BoolVarP(&app.cfg.verbose, "verbose", "v", app.cfg.verbose, "log the stream events")

	root.AddCommand(newCatCommand(app), newCopyCommand(app), newLinesCommand(app), newInfoCommand(app))
	return root
}
