// Copyright 2026 The Lockfree-List Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package llog defines the leveled logging interface pkg/llist uses to
// report retry pressure and other diagnostics, plus two implementations: a
// no-op sink and a github.com/sirupsen/logrus adapter.
package llog

import "github.com/sirupsen/logrus"

// Logger is the minimal leveled-logging surface pkg/llist depends on. It is
// intentionally narrow — two levels, key/value pairs — so that callers
// already standardized on a different structured logger can adapt it in a
// handful of lines.
type Logger interface {
	Debug(msg string, kv ...any)
	Warn(msg string, kv ...any)
}

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Warn(string, ...any)  {}

// NoOp returns a Logger that discards everything. It is the default for
// List values constructed with New.
func NoOp() Logger { return noop{} }

// logrusLogger adapts a *logrus.Logger (or logrus.Entry) to Logger.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrus adapts l to Logger. A nil l adapts logrus.StandardLogger().
func NewLogrus(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (a *logrusLogger) Debug(msg string, kv ...any) {
	a.fields(kv).Debug(msg)
}

func (a *logrusLogger) Warn(msg string, kv ...any) {
	a.fields(kv).Warn(msg)
}

func (a *logrusLogger) fields(kv []any) *logrus.Entry {
	if len(kv) == 0 {
		return a.entry
	}
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return a.entry.WithFields(fields)
}
