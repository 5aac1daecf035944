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
	"sync/atomic"
	"time"

	layerio "github.com/layerio/layerio"
	"go.uber.org/zap"
)

// EventLogger a stream event listener writing a log record per event
// (debug level) and keeping per type counters for a final summary
type EventLogger struct {
	logger *zap.Logger
	counts [layerio.EVT_RETRY + 1]atomic.Int64
	bytes  [layerio.EVT_RETRY + 1]atomic.Int64
}

// NewEventLogger creates a new instance of EventLogger
func NewEventLogger(logger *zap.Logger) *EventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EventLogger{logger: logger}
}

// ProcessEvent receives an event and writes a log record
func (this *EventLogger) ProcessEvent(evt *layerio.Event) {
	if t := evt.Type(); t >= 0 && t < len(this.counts) {
		this.counts[t].Add(1)
		this.bytes[t].Add(evt.Size())
	}

	if ce := this.logger.Check(zap.DebugLevel, "stream event"); ce != nil {
		fields := []zap.Field{
			zap.String("type", evt.TypeName()),
			zap.String("stream", evt.Name()),
			zap.Int64("size", evt.Size()),
			zap.Time("time", evt.Time()),
		}

		if evt.Position() >= 0 {
			fields = append(fields, zap.Int64("position", evt.Position()))
		}

		ce.Write(fields...)
	}
}

// Count returns the number of events of the given type received so far
func (this *EventLogger) Count(evtType int) int64 {
	if evtType < 0 || evtType >= len(this.counts) {
		return 0
	}

	return this.counts[evtType].Load()
}

// Summary logs the event counters (info level)
func (this *EventLogger) Summary() {
	fields := make([]zap.Field, 0, 2*len(this.counts))

	for t := range this.counts {
		n := this.counts[t].Load()

		if n == 0 {
			continue
		}

		name := layerio.NewEvent(t, "", 0, -1, time.Time{}).TypeName()
		fields = append(fields, zap.Int64(name, n), zap.Int64(name+"_bytes", this.bytes[t].Load()))
	}

	this.logger.Info("stream events", fields...)
}
