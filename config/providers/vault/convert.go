package vault

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/webhookx-io/configvault/config"
)

// decodeSecret extracts the secret object from a KV read response and
// converts it. Every sibling of the secret object (lease_duration,
// renewable, metadata, ...) is dropped.
func decodeSecret(body []byte, version KVVersion) (config.Map, error) {
	if !gjson.ValidBytes(body) {
		var raw json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
		}
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}

	path := version.dataPath()
	result := gjson.GetBytes(body, path)
	switch {
	case !result.Exists():
		return nil, fmt.Errorf("%w: response has no '%s' field, check that the mount is a KV %s engine", ErrSecretNoData, path, version)
	case result.Type == gjson.Null:
		return nil, fmt.Errorf("%w: '%s' is null, the secret version may be deleted or destroyed", ErrSecretNoData, path)
	case !result.IsObject():
		return nil, fmt.Errorf("%w: '%s' is not an object, check that the mount is a KV %s engine", ErrSecretNoData, path, version)
	}

	return toMap(result), nil
}

func toMap(r gjson.Result) config.Map {
	m := make(config.Map)
	r.ForEach(func(key, value gjson.Result) bool {
		m[key.String()] = toValue(value)
		return true
	})
	return m
}

func toValue(r gjson.Result) config.Value {
	switch r.Type {
	case gjson.String:
		return config.NewString(r.Str)
	case gjson.True:
		return config.NewBool(true)
	case gjson.False:
		return config.NewBool(false)
	case gjson.Number:
		// integral syntax decides, so 5.0 and 1e3 stay floats
		if !strings.ContainsAny(r.Raw, ".eE") {
			if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return config.NewInt(i)
			}
		}
		return config.NewFloat(r.Num)
	case gjson.JSON:
		if r.IsArray() {
			arr := make([]config.Value, 0)
			r.ForEach(func(_, value gjson.Result) bool {
				arr = append(arr, toValue(value))
				return true
			})
			return config.NewArray(arr)
		}
		return config.NewTable(toMap(r))
	}
	return config.NewNil()
}
