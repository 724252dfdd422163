/*
Copyright © 2020 hit.zhangjie@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hitzhangjie/mapview/pkg/mapfile"
)

// loadReports parses files concurrently, at most jobs at a time. Results are
// in the order of files whatever order the parses finish in.
func loadReports(ctx context.Context, files []string, jobs int, demangle bool) ([]*mapfile.Result, error) {
	var (
		results  = make([]*mapfile.Result, len(files))
		counters = mapfile.NewCountingObserver(nil)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for idx, file := range files {
		idx, file := idx, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			log := logrus.WithField("file", file)
			opts := mapfile.Options{
				Observer: counters.Forward(mapfile.LogObserver{Log: log}),
				Demangle: demangle,
			}

			res, err := parseFile(file, opts)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"files":        len(files),
		"regions":      counters.RegionCount.Load(),
		"symbols":      counters.SymbolCount.Load(),
		"unclassified": counters.UnclassifiedCount.Load(),
		"unplaced":     counters.UnplacedCount.Load(),
	}).Debug("parsed map files")
	return results, nil
}

func parseFile(file string, opts mapfile.Options) (*mapfile.Result, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	res, err := mapfile.ParseReader(mapfile.SystemName(file), f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", file)
	}
	return res, nil
}
