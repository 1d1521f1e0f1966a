package vault

import (
	"fmt"
	"net/url"
	"strings"
)

// KVVersion selects the version of the KV secrets engine mounted in Vault.
type KVVersion int

const (
	KVv1 KVVersion = 1
	KVv2 KVVersion = 2
)

func (v KVVersion) String() string {
	return fmt.Sprintf("v%d", int(v))
}

func (v KVVersion) Valid() bool {
	return v == KVv1 || v == KVv2
}

// dataPath is the gjson path of the secret object inside a read response.
func (v KVVersion) dataPath() string {
	if v == KVv1 {
		return "data"
	}
	return "data.data"
}

// readURL builds the KV read endpoint:
//
//	v1: {address}/v1/{mount}/{path}
//	v2: {address}/v1/{mount}/data/{path}
//
// Mount and path are appended segment by segment without cleaning, so empty
// segments survive. "." and ".." segments are skipped and never resolved.
func readURL(address, mount, path string, version KVVersion) (string, error) {
	if !version.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedKVVersion, int(version))
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	apiPath := "v1/" + mount + "/"
	if version == KVv2 {
		apiPath += "data/"
	}
	apiPath += path

	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(u.Path, "/"))
	for _, segment := range strings.Split(apiPath, "/") {
		if segment == "." || segment == ".." {
			continue
		}
		sb.WriteByte('/')
		sb.WriteString(segment)
	}
	u.Path = sb.String()
	u.RawPath = ""
	return u.String(), nil
}
