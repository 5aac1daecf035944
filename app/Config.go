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
	"strings"

	layerio "github.com/layerio/layerio"
	"github.com/layerio/layerio/text"
	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
)

// appConfig the settings shared by all the commands. The environment
// provides the defaults, the command line flags override them.
type appConfig struct {
	bufferSize int
	encoding   string
	errors     string
	newline    string
	verbose    bool
}

func defaultConfig() *appConfig {
	return &appConfig{
		bufferSize: env.Int("LAYERIO_BUFFER_SIZE", layerio.DEFAULT_BUFFER_SIZE),
		encoding:   env.Str("LAYERIO_ENCODING", text.DEFAULT_ENCODING),
		errors:     env.Str("LAYERIO_ERRORS", text.ERRORS_STRICT),
		newline:    env.Str("LAYERIO_NEWLINE", "universal"),
		verbose:    env.Bool("LAYERIO_VERBOSE"),
	}
}

// parseNewline converts a newline flag value to a text.NEWLINE_* mode
func parseNewline(s string) (int, error) {
	switch strings.ToLower(s) {
	case "", "universal":
		return text.NEWLINE_UNIVERSAL, nil

	case "none", "untranslated":
		return text.NEWLINE_UNTRANSLATED, nil

	case "lf", "\\n":
		return text.NEWLINE_LF, nil

	case "cr", "\\r":
		return text.NEWLINE_CR, nil

	case "crlf", "\\r\\n":
		return text.NEWLINE_CRLF, nil
	}

	return 0, layerio.NewIOError("Invalid newline value '"+s+"' (universal, untranslated, lf, cr or crlf)",
		layerio.ERR_INVALID_PARAM)
}

func (this *appConfig) textConfig(encoding, newline string, logger *zap.Logger) (text.TextConfig, error) {
	nl, err := parseNewline(newline)

	if err != nil {
		return text.TextConfig{}, err
	}

	if len(encoding) == 0 {
		encoding = this.encoding
	}

	return text.TextConfig{
		Encoding: encoding,
		Errors:   this.errors,
		Newline:  nl,
		Logger:   logger,
	}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose == true {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
