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

// llistdemo runs a bounded producer/remover workload against pkg/llist
// and reports the result, as a smoke test for the module's own build.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sunbains/lockfree-list/internal/stress"
	"github.com/sunbains/lockfree-list/pkg/llist"
	"github.com/sunbains/lockfree-list/pkg/llistcfg"
	"github.com/sunbains/lockfree-list/pkg/llog"
)

var (
	configPath = flag.String("config", "", "path to a TOML tunables file (optional)")
	producers  = flag.Int("producers", 4, "number of concurrent pushers")
	removers   = flag.Int("removers", 4, "number of concurrent removers")
	perPusher  = flag.Int("per-pusher", 5000, "elements pushed by each producer")
	verbose    = flag.Bool("verbose", false, "log every retry storm, not just warnings")
)

type demoNode struct {
	link llist.Link[*demoNode]
	id   int
}

func (n *demoNode) Link() *llist.Link[*demoNode] { return &n.link }

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "llistdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := llistcfg.Default()
	if *configPath != "" {
		loaded, err := llistcfg.Load(*configPath)
		if err != nil {
			return fmt.Errorf("loading config %q: %w", *configPath, err)
		}
		cfg = loaded
	}

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	l := llist.NewWithOptions[*demoNode](cfg, llog.NewLogrus(logger))

	total := *producers * *perPusher

	pushErr := stress.Run(*producers, func(p int) error {
		for i := 0; i < *perPusher; i++ {
			if err := l.PushBack(&demoNode{id: p * (*perPusher) + i}); err != nil {
				return err
			}
		}
		return nil
	})
	if pushErr != nil {
		return fmt.Errorf("pushers: %w", pushErr)
	}

	var removedCount int64
	var mu sync.Mutex
	removeErr := stress.Run(*removers, func(int) error {
		local := int64(0)
		for {
			front := l.Front()
			if front == nil {
				break
			}
			ok, err := l.Remove(front)
			if err != nil {
				return err
			}
			if ok {
				local++
			}
		}
		mu.Lock()
		removedCount += local
		mu.Unlock()
		return nil
	})
	if removeErr != nil {
		return fmt.Errorf("removers: %w", removeErr)
	}

	fmt.Printf("pushed %d elements with %d producers, removed %d with %d removers, list empty: %v\n",
		total, *producers, removedCount, *removers, l.Empty())
	return nil
}
