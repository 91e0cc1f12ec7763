// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"github.com/asynchttp/asynchttp/config"
	"github.com/asynchttp/asynchttp/query"
	"github.com/asynchttp/asynchttp/request"
	"github.com/spf13/cobra"
)

func newRequestCmd(name string, cfg *config.Config, opts *options) *cobra.Command {
	method := strings.ToUpper(name)
	var as string
	var onMain bool

	cmd := &cobra.Command{
		Use:   name + " URL [key=value...]",
		Short: fmt.Sprintf("Make a %s request to the specified URL", method),
		Long: fmt.Sprintf(`Make a %s request to the specified URL.

Each key=value argument is appended to the query string in the order
given. Values are sent verbatim, without percent-encoding.`, method),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			r, err := newRunner(cmd, cfg, opts)
			if err != nil {
				return err
			}

			j := job{
				Method: method,
				URL:    args[0],
				As:     as,
				Main:   onMain,
				values: params,
			}
			if err = r.run(cmd.Context(), []job{j}); err != nil {
				return err
			}
			if r.stats.failures > 0 {
				return fmt.Errorf("%s %s failed", method, args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "string", "Parse the response as string, object or array")
	cmd.Flags().BoolVar(&onMain, "main", false, "Deliver the response on the main loop instead of the worker")
	return cmd
}

// parseParams turns key=value arguments into query parameters, keeping
// their order.
func parseParams(args []string) (query.Values, error) {
	var v query.Values
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", arg)
		}
		v = v.Add(key, value)
	}
	return v, nil
}

// normalizeMethod maps a user-supplied method onto the supported ones.
func normalizeMethod(method string) (string, error) {
	switch m := strings.ToUpper(method); m {
	case "", request.MethodGet:
		return request.MethodGet, nil
	case request.MethodPost:
		return request.MethodPost, nil
	default:
		return "", fmt.Errorf("unsupported method %q: use GET or POST", method)
	}
}
