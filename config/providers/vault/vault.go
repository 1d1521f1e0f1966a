// Package vault implements a configuration source backed by the KV secrets
// engine of HashiCorp Vault.
//
//	source := vault.New("http://127.0.0.1:8200", "hvs.EXAMPLE_TOKEN", "secret", "dev")
//	cfg, err := config.NewBuilder().
//		AddSource(providers.NewYAMLSource("config.yml", nil)).
//		AddSource(source).
//		Build(ctx)
//
// Each Collect reads the secret once. Nothing is cached or retried.
package vault

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/webhookx-io/configvault/config"
	"go.uber.org/zap"
)

const (
	HeaderToken     = "X-Vault-Token"
	HeaderNamespace = "X-Vault-Namespace"
)

// Source reads one secret from a KV mount and exposes its keys as
// configuration values. Nested JSON objects become nested tables.
type Source struct {
	address   string
	token     string
	mount     string
	path      string
	kvVersion KVVersion
	namespace string

	client *resty.Client
	log    *zap.SugaredLogger
}

var _ config.Source = (*Source)(nil)

// New creates a Source for the secret at path under mount. The arguments
// are stored verbatim; a malformed address surfaces on Collect.
// The KV version defaults to KVv2.
func New(address, token, mount, path string) *Source {
	return &Source{
		address:   address,
		token:     token,
		mount:     mount,
		path:      path,
		kvVersion: KVv2,
		client:    resty.New(),
		log:       zap.NewNop().Sugar(),
	}
}

// SetKVVersion selects the KV engine version. It must not be called
// concurrently with Collect.
func (s *Source) SetKVVersion(version KVVersion) {
	s.kvVersion = version
}

func (s *Source) KVVersion() KVVersion {
	return s.kvVersion
}

// WithNamespace sets the Vault Enterprise namespace sent with each request.
func (s *Source) WithNamespace(namespace string) *Source {
	s.namespace = namespace
	return s
}

// WithClient replaces the HTTP client, e.g. to set a timeout or TLS options.
func (s *Source) WithClient(client *resty.Client) *Source {
	s.client = client
	return s
}

func (s *Source) WithLogger(log *zap.SugaredLogger) *Source {
	s.log = log
	return s
}

// URL returns the read endpoint of the secret for the configured KV version.
func (s *Source) URL() (string, error) {
	return readURL(s.address, s.mount, s.path, s.kvVersion)
}

func (s *Source) String() string {
	return fmt.Sprintf("vault(%s/%s)", s.mount, s.path)
}

// Collect fetches the secret and converts it. Errors are *config.Error
// wrapping one of ErrInvalidAddress, ErrUnsupportedKVVersion, ErrRequest,
// *StatusError, ErrMalformedResponse or ErrSecretNoData.
func (s *Source) Collect(ctx context.Context) (config.Map, error) {
	values, err := s.collect(ctx)
	if err != nil {
		return nil, config.NewError(s.String(), err)
	}
	return values, nil
}

func (s *Source) collect(ctx context.Context) (config.Map, error) {
	url, err := s.URL()
	if err != nil {
		return nil, err
	}

	s.log.Debugf("fetching secret '%s' from %s (kv %s)", s.path, url, s.kvVersion)
	req := s.client.R().
		SetContext(ctx).
		SetHeader(HeaderToken, s.token)
	if s.namespace != "" {
		req.SetHeader(HeaderNamespace, s.namespace)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	if !resp.IsSuccess() {
		s.log.Warnf("failed to read secret '%s': status %d", s.path, resp.StatusCode())
		return nil, newStatusError(resp.StatusCode(), resp.Body())
	}

	values, err := decodeSecret(resp.Body(), s.kvVersion)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("loaded %d keys from secret '%s'", len(values), s.path)
	return values, nil
}
