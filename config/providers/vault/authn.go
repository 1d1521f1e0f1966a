package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"github.com/hashicorp/vault/api/auth/kubernetes"
	"github.com/webhookx-io/configvault/config/types"
)

const (
	AuthMethodToken      = "token"
	AuthMethodAppRole    = "approle"
	AuthMethodKubernetes = "kubernetes"
)

var ErrLogin = errors.New("vault login failed")

type AuthN struct {
	Token      TokenAuth      `json:"token" yaml:"token"`
	AppRole    AppRoleAuth    `json:"approle" yaml:"approle"`
	Kubernetes KubernetesAuth `json:"kubernetes" yaml:"kubernetes"`
}

type TokenAuth struct {
	Token types.Password `json:"token" yaml:"token"`
}

type AppRoleAuth struct {
	RoleID           string         `json:"role_id" yaml:"role_id"`
	SecretID         types.Password `json:"secret_id" yaml:"secret_id"`
	ResponseWrapping bool           `json:"response_wrapping" yaml:"response_wrapping"`
	MountPath        string         `json:"mount_path" yaml:"mount_path"`
}

type KubernetesAuth struct {
	Role      string `json:"role" yaml:"role"`
	TokenPath string `json:"token_path" yaml:"token_path"`
	MountPath string `json:"mount_path" yaml:"mount_path"`
}

type LoginOptions struct {
	Address   string
	Namespace string
	Method    string
	AuthN     AuthN
}

// Login returns the token a Source should send. The token method returns
// the configured token unchanged, the other methods exchange their
// credentials for a client token.
func Login(ctx context.Context, opts LoginOptions) (string, error) {
	switch opts.Method {
	case "", AuthMethodToken:
		if opts.AuthN.Token.Token == "" {
			return "", fmt.Errorf("%w: token is required", ErrLogin)
		}
		return string(opts.AuthN.Token.Token), nil
	case AuthMethodAppRole, AuthMethodKubernetes:
	default:
		return "", fmt.Errorf("%w: unsupported auth method '%s'", ErrLogin, opts.Method)
	}

	cfg := api.DefaultConfig()
	cfg.Address = opts.Address
	client, err := api.NewClient(cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLogin, err)
	}
	if opts.Namespace != "" {
		client.SetNamespace(opts.Namespace)
	}

	var method api.AuthMethod
	if opts.Method == AuthMethodAppRole {
		method, err = newAppRoleAuth(opts.AuthN.AppRole)
	} else {
		method, err = newKubernetesAuth(opts.AuthN.Kubernetes)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLogin, err)
	}

	secret, err := client.Auth().Login(ctx, method)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLogin, err)
	}
	if secret == nil || secret.Auth == nil || secret.Auth.ClientToken == "" {
		return "", fmt.Errorf("%w: no client token in response", ErrLogin)
	}
	return secret.Auth.ClientToken, nil
}

func newAppRoleAuth(cfg AppRoleAuth) (api.AuthMethod, error) {
	opts := make([]approle.LoginOption, 0)
	if cfg.ResponseWrapping {
		opts = append(opts, approle.WithWrappingToken())
	}
	if cfg.MountPath != "" {
		opts = append(opts, approle.WithMountPath(cfg.MountPath))
	}
	return approle.NewAppRoleAuth(
		cfg.RoleID,
		&approle.SecretID{FromString: string(cfg.SecretID)},
		opts...,
	)
}

func newKubernetesAuth(cfg KubernetesAuth) (api.AuthMethod, error) {
	opts := make([]kubernetes.LoginOption, 0)
	if cfg.TokenPath != "" {
		opts = append(opts, kubernetes.WithServiceAccountTokenPath(cfg.TokenPath))
	}
	if cfg.MountPath != "" {
		opts = append(opts, kubernetes.WithMountPath(cfg.MountPath))
	}
	return kubernetes.NewKubernetesAuth(cfg.Role, opts...)
}
