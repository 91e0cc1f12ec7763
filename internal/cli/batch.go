// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/asynchttp/asynchttp/config"
	"github.com/asynchttp/asynchttp/query"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// batchFile is the YAML document read by the batch command.
//
//	requests:
//	  - name: users
//	    url: https://api.example.com/users
//	    params: {page: "1"}
//	    as: array
//	    main: true
//	  - method: POST
//	    url: https://api.example.com/ping
type batchFile struct {
	Requests []job `yaml:"requests"`
}

func loadBatch(path string) ([]job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(f.Requests) == 0 {
		return nil, fmt.Errorf("batch file %s has no requests", path)
	}

	for i := range f.Requests {
		j := &f.Requests[i]
		if j.URL == "" {
			return nil, fmt.Errorf("batch file %s: request %d has no url", path, i+1)
		}
		j.values = query.FromMap(j.Params)
	}
	return f.Requests, nil
}

func newBatchCmd(cfg *config.Config, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Send every request listed in a YAML file concurrently",
		Long: `Send every request listed in a YAML file through the worker pool at once,
print each outcome as it arrives, and finish with a latency summary.

Query parameters given as a map are sent sorted by key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			r, err := newRunner(cmd, cfg, opts)
			if err != nil {
				return err
			}

			if err = r.run(cmd.Context(), jobs); err != nil {
				return err
			}
			r.out.summary(r.stats)
			if r.stats.failures > 0 {
				return fmt.Errorf("%d of %d requests failed", r.stats.failures, r.stats.count)
			}
			return nil
		},
	}
}
