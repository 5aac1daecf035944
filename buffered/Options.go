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

// Package buffered provides buffered byte streams layered over raw streams:
// a reader with read-ahead, a writer coalescing writes, a random access
// stream combining both over one seekable raw stream and a reader/writer
// pair over two raw streams.
package buffered

import (
	"time"

	layerio "github.com/layerio/layerio"
	"go.uber.org/zap"
)

// Option a functional option applied to buffered streams
type Option func(*config)

type config struct {
	name      string
	logger    *zap.Logger
	listeners *layerio.Listeners
}

func newConfig(raw layerio.RawStream, opts []Option) *config {
	cfg := &config{logger: zap.NewNop(), listeners: &layerio.Listeners{}}

	if named, ok := raw.(interface{ Name() string }); ok == true {
		cfg.name = named.Name()
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithName sets the stream name reported in events and logs
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets the logger used to trace raw I/O
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithListener registers an event listener at creation time
func WithListener(bl layerio.Listener) Option {
	return func(c *config) {
		c.listeners.AddListener(bl)
	}
}

func (this *config) notify(evtType int, size, position int64) {
	if this.listeners.HasListeners() == false {
		return
	}

	this.listeners.Notify(layerio.NewEvent(evtType, this.name, size, position, time.Time{}))
}

func (this *config) trace(msg string, fields ...zap.Field) {
	if ce := this.logger.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(append(fields, zap.String("stream", this.name))...)
	}
}

func checkWhence(whence int) error {
	if whence < layerio.SEEK_SET || whence > layerio.SEEK_END {
		return layerio.NewIOError("Invalid whence value", layerio.ERR_INVALID_PARAM)
	}

	return nil
}
