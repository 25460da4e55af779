// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"errors"
	"strings"
)

// Tokens is the credential pair issued by login and OAuth exchange endpoints.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UnmarshalJSON accepts the documented {"access","refresh"} shape as well as
// the common access_token/refresh_token variants, nested at any depth.
func (t *Tokens) UnmarshalJSON(b []byte) error {
	var node any
	if err := json.Unmarshal(b, &node); err != nil {
		return err
	}
	var access, refresh string
	walkJSON(node, &access, &refresh)
	if access == "" {
		return errors.New("no access token in response")
	}
	t.Access, t.Refresh = access, refresh
	return nil
}

var (
	accessKeys  = []string{"access", "accesstoken", "token"}
	refreshKeys = []string{"refresh", "refreshtoken"}
)

// walkJSON recursively searches a JSON structure for access and refresh tokens.
// Within one object the documented key wins over its variants.
func walkJSON(node any, access *string, refresh *string) {
	if *access != "" && *refresh != "" {
		return
	}

	switch v := node.(type) {
	case map[string]any:
		strs := make(map[string]string, len(v))
		for k, vv := range v {
			if s, ok := vv.(string); ok {
				strs[strings.ToLower(strings.ReplaceAll(k, "_", ""))] = strings.TrimSpace(s)
			}
		}
		pick(strs, accessKeys, access)
		pick(strs, refreshKeys, refresh)
		for _, vv := range v {
			if _, ok := vv.(string); !ok {
				walkJSON(vv, access, refresh)
			}
		}
	case []any:
		for _, e := range v {
			walkJSON(e, access, refresh)
		}
	}
}

func pick(strs map[string]string, keys []string, dst *string) {
	if *dst != "" {
		return
	}
	for _, k := range keys {
		if val := strs[k]; val != "" {
			*dst = val
			return
		}
	}
}
