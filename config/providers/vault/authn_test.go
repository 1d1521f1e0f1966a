package vault

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T, path string, token string) (*httptest.Server, *map[string]any) {
	t.Helper()
	payload := make(map[string]any)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":["unknown path"]}`))
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"auth": {"client_token": "` + token + `", "policies": ["default"], "lease_duration": 3600, "renewable": true}}`))
	}))
	t.Cleanup(server.Close)
	return server, &payload
}

func TestLoginToken(t *testing.T) {
	token, err := Login(context.Background(), LoginOptions{
		Method: AuthMethodToken,
		AuthN:  AuthN{Token: TokenAuth{Token: "root"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "root", token)

	token, err = Login(context.Background(), LoginOptions{
		AuthN: AuthN{Token: TokenAuth{Token: "default-method"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "default-method", token)
}

func TestLoginErrors(t *testing.T) {
	_, err := Login(context.Background(), LoginOptions{Method: AuthMethodToken})
	assert.ErrorIs(t, err, ErrLogin)
	assert.EqualError(t, err, "vault login failed: token is required")

	_, err = Login(context.Background(), LoginOptions{Method: "ldap"})
	assert.EqualError(t, err, "vault login failed: unsupported auth method 'ldap'")

	_, err = Login(context.Background(), LoginOptions{
		Address: "http://127.0.0.1:8200",
		Method:  AuthMethodAppRole,
	})
	assert.ErrorIs(t, err, ErrLogin)
}

func TestLoginAppRole(t *testing.T) {
	server, payload := newAuthServer(t, "/v1/auth/approle/login", "hvs.approle")

	token, err := Login(context.Background(), LoginOptions{
		Address: server.URL,
		Method:  AuthMethodAppRole,
		AuthN: AuthN{AppRole: AppRoleAuth{
			RoleID:   "test-role-id",
			SecretID: "test-secret-id",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hvs.approle", token)
	assert.Equal(t, "test-role-id", (*payload)["role_id"])
	assert.Equal(t, "test-secret-id", (*payload)["secret_id"])
}

func TestLoginAppRoleMountPath(t *testing.T) {
	server, _ := newAuthServer(t, "/v1/auth/ci-approle/login", "hvs.mounted")

	token, err := Login(context.Background(), LoginOptions{
		Address: server.URL,
		Method:  AuthMethodAppRole,
		AuthN: AuthN{AppRole: AppRoleAuth{
			RoleID:    "role",
			SecretID:  "secret",
			MountPath: "ci-approle",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hvs.mounted", token)
}

func TestLoginKubernetes(t *testing.T) {
	server, payload := newAuthServer(t, "/v1/auth/kubernetes/login", "hvs.kubernetes")
	tokenPath := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("service-account-jwt"), 0600))

	token, err := Login(context.Background(), LoginOptions{
		Address: server.URL,
		Method:  AuthMethodKubernetes,
		AuthN: AuthN{Kubernetes: KubernetesAuth{
			Role:      "app",
			TokenPath: tokenPath,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hvs.kubernetes", token)
	assert.Equal(t, "app", (*payload)["role"])
	assert.Equal(t, "service-account-jwt", (*payload)["jwt"])
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["invalid role or secret ID"]}`))
	}))
	t.Cleanup(server.Close)

	_, err := Login(context.Background(), LoginOptions{
		Address: server.URL,
		Method:  AuthMethodAppRole,
		AuthN:   AuthN{AppRole: AppRoleAuth{RoleID: "role", SecretID: "wrong"}},
	})
	assert.ErrorIs(t, err, ErrLogin)
	assert.ErrorContains(t, err, "invalid role or secret ID")
}
