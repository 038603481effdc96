// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import "strings"

// StringSlice flattens query values into a trimmed list of strings. Each
// value may itself be comma-separated, so "?id=1,2&id=3" yields 1, 2 and 3.
// Empty entries are dropped.
func StringSlice(vals []string) []string {
	var res []string
	for _, val := range vals {
		for _, v := range strings.Split(val, ",") {
			if clean := strings.TrimSpace(v); clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}
