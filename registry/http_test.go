// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/agenthive/env"
	"github.com/stacklok/agenthive/env/mocks"
)

// tokenEnv returns an environment reader that yields the given bearer
// token. An empty token means the variable is unset.
func tokenEnv(t *testing.T, token string) env.Reader {
	t.Helper()

	r := mocks.NewMockReader(gomock.NewController(t))
	if token == "" {
		r.EXPECT().LookupEnv(TokenEnvVar).Return("", false).AnyTimes()
	} else {
		r.EXPECT().LookupEnv(TokenEnvVar).Return(token, true).AnyTimes()
	}
	return r
}

func TestHTTPClientGetPackage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/packages/go-style", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"go-style","latest":"1.2.0","versions":["1.0.0","1.2.0"]}`)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "secret")))

	info, err := c.GetPackage(context.Background(), "go-style")
	require.NoError(t, err)

	assert.Equal(t, "go-style", info.Name)
	assert.Equal(t, "1.2.0", info.Latest)
	assert.Equal(t, []string{"1.0.0", "1.2.0"}, info.Versions)
}

func TestHTTPClientEscapesScopedIDs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The scope separator must stay escaped so the id is one path
		// segment.
		assert.Equal(t, "/v1/packages/@stacklok%2Fgo-style", r.URL.EscapedPath())
		fmt.Fprint(w, `{"name":"@stacklok/go-style","latest":"1.0.0","versions":["1.0.0"]}`)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "")))

	info, err := c.GetPackage(context.Background(), "@stacklok/go-style")
	require.NoError(t, err)
	assert.Equal(t, "@stacklok/go-style", info.Name)
}

func TestHTTPClientGetPackageVersion(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/packages/go-style/1.2.0", r.URL.Path)
		fmt.Fprint(w, `{
			"manifest": {"name":"go-style","version":"1.2.0","format":"claude","subtype":"skill"},
			"dist": {"tarball":"https://cdn.example/go-style-1.2.0.tgz","integrity":"sha256-abc"}
		}`)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "")))

	info, err := c.GetPackageVersion(context.Background(), "go-style", "1.2.0")
	require.NoError(t, err)

	assert.Equal(t, "go-style", info.Manifest.Name)
	assert.Equal(t, "https://cdn.example/go-style-1.2.0.tgz", info.Dist.Tarball)
	assert.Equal(t, "sha256-abc", info.Dist.Integrity)
}

func TestHTTPClientStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "404 is not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "401 is authentication", status: http.StatusUnauthorized, wantErr: ErrAuthentication},
		{name: "403 is authentication", status: http.StatusForbidden, wantErr: ErrAuthentication},
		{name: "500 is a registry error", status: http.StatusInternalServerError, wantErr: ErrRegistry},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			t.Cleanup(srv.Close)

			c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "")))

			_, err := c.GetPackage(context.Background(), "missing")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestHTTPClientDownloadPackage(t *testing.T) {
	t.Parallel()

	t.Run("returns raw bytes", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/artifacts/go-style-1.2.0.tgz", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte("artifact-bytes"))
		}))
		t.Cleanup(srv.Close)

		c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "secret")))

		data, err := c.DownloadPackage(context.Background(), srv.URL+"/artifacts/go-style-1.2.0.tgz")
		require.NoError(t, err)
		assert.Equal(t, []byte("artifact-bytes"), data)
	})

	t.Run("token is not sent to third-party hosts", func(t *testing.T) {
		t.Parallel()

		cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte("cdn-bytes"))
		}))
		t.Cleanup(cdn.Close)

		// The registry base is a different host than the CDN serving the
		// tarball.
		c := NewHTTPClient("http://registry.internal.test", WithEnv(tokenEnv(t, "secret")))

		data, err := c.DownloadPackage(context.Background(), cdn.URL+"/go-style-1.2.0.tgz")
		require.NoError(t, err)
		assert.Equal(t, []byte("cdn-bytes"), data)
	})

	t.Run("missing artifact maps to not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)

		c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "")))

		_, err := c.DownloadPackage(context.Background(), srv.URL+"/gone.tgz")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error maps to download error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "")))

		_, err := c.DownloadPackage(context.Background(), srv.URL+"/broken.tgz")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDownload)
	})
}

func TestHTTPClientRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request may be sent with an invalid token")
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "bad\ntoken")))

	_, err := c.GetPackage(context.Background(), "go-style")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestHTTPClientGetCollection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/collections/stacklok/go-essentials", r.URL.Path)
		assert.Equal(t, "2.0.0", r.URL.Query().Get("version"))
		fmt.Fprint(w, `{
			"scope": "stacklok", "name_slug": "go-essentials", "version": "2.0.0",
			"packages": [
				{"packageId": "go-style"},
				{"packageId": "go-review", "required": false}
			]
		}`)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "")))

	col, err := c.GetCollection(context.Background(), "stacklok", "go-essentials", "2.0.0")
	require.NoError(t, err)

	assert.Equal(t, "stacklok/go-essentials", col.Key())
	require.Len(t, col.Packages, 2)
	assert.True(t, col.Packages[0].IsRequired())
	assert.False(t, col.Packages[1].IsRequired())
}

func TestHTTPClientResolveInstallPlan(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/collections/collection/test-collection/install-plan", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		fmt.Fprint(w, `{
			"collection": {"scope": "collection", "name_slug": "test-collection", "version": "1.0.0"},
			"packagesToInstall": [
				{"packageId": "pkg1", "version": "1.0.0"},
				{"packageId": "pkg2", "version": "2.1.0", "required": false}
			]
		}`)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, WithEnv(tokenEnv(t, "")))

	plan, err := c.ResolveInstallPlan(context.Background(), PlanRequest{
		Scope: "collection",
		Slug:  "test-collection",
	})
	require.NoError(t, err)

	require.Len(t, plan.Entries, 2)
	assert.Equal(t, "pkg1", plan.Entries[0].PackageID)
	assert.True(t, plan.Entries[0].Required, "required defaults to true when the document omits it")
	assert.False(t, plan.Entries[1].Required)

	assert.Equal(t, 2, plan.Total, "total is backfilled from the entry count")
	assert.Equal(t, 1, plan.RequiredCount())
	assert.Equal(t, 1, plan.OptionalCount())

	for i := range plan.Entries {
		assert.Same(t, &plan.Collection, plan.Entries[i].Collection)
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://cdn.example/a.tgz", redactURL("https://cdn.example/a.tgz?token=shh#frag"))
	assert.Equal(t, "<invalid-url>", redactURL("http://bad url"))
}
