// Package integration provides end-to-end integration tests for the vault API.
// Tests exercise the full stack (HTTP, use cases, crypto, blob store, catalog)
// against both PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDTO "github.com/allisson/vault/internal/audit/http/dto"
	"github.com/allisson/vault/internal/app"
	"github.com/allisson/vault/internal/config"
	"github.com/allisson/vault/internal/testutil"
	vaultHTTP "github.com/allisson/vault/internal/vault/http"
	vaultDTO "github.com/allisson/vault/internal/vault/http/dto"
)

// testIdentity describes the gateway-forwarded caller for a request.
type testIdentity struct {
	id   uuid.UUID
	role string
}

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	owner     testIdentity
	admin     testIdentity
	stranger  testIdentity
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body. A nil
// identity sends the request without the gateway identity headers.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	identity *testIdentity,
	body io.Reader,
	contentType string,
) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, ctx.server.URL+path, body)
	require.NoError(t, err, "failed to create request")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if identity != nil {
		req.Header.Set(vaultHTTP.ClientIDHeader, identity.id.String())
		req.Header.Set(vaultHTTP.ClientRoleHeader, identity.role)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// uploadObject uploads a payload as a multipart form and returns the created object.
func (ctx *integrationTestContext) uploadObject(
	t *testing.T,
	identity *testIdentity,
	filename string,
	payload []byte,
) vaultDTO.ObjectResponse {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err, "failed to create multipart file field")
	_, err = part.Write(payload)
	require.NoError(t, err, "failed to write multipart payload")
	require.NoError(t, writer.Close(), "failed to finalize multipart body")

	resp, body := ctx.makeRequest(
		t,
		http.MethodPost,
		"/v1/objects",
		identity,
		&buf,
		writer.FormDataContentType(),
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "upload failed: %s", string(body))

	var response vaultDTO.ObjectResponse
	require.NoError(t, json.Unmarshal(body, &response))
	return response
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		ServerHost:            "localhost",
		ServerPort:            8080,
		DBDriver:              dbDriver,
		DBConnectionString:    dsn,
		DBMaxOpenConnections:  10,
		DBMaxIdleConnections:  5,
		DBConnMaxLifetime:     time.Hour,
		LogLevel:              "error",
		ServerSecret:          "integration-test-server-secret",
		BlobBucketURL:         "mem://",
		ShareTokenMaxTTL:      time.Hour,
		ShareTokenDefaultTTL:  10 * time.Minute,
		StorageKeyMaxAttempts: 3,
		MaxUploadSizeBytes:    32 << 20,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil")

	testServer := httptest.NewServer(handler)

	tctx := &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		owner:     testIdentity{id: uuid.Must(uuid.NewV7()), role: "user"},
		admin:     testIdentity{id: uuid.Must(uuid.NewV7()), role: "admin"},
		stranger:  testIdentity{id: uuid.Must(uuid.NewV7()), role: "user"},
		dbDriver:  dbDriver,
	}

	t.Logf("Integration test setup complete for %s (owner=%s)", dbDriver, tctx.owner.id)
	return tctx
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}

	t.Logf("Integration test teardown complete for %s", ctx.dbDriver)
}

// TestIntegration_Health_BasicChecks validates the health and readiness endpoints.
func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "healthy", response["status"])
			})

			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "ready", response["status"])
			})
		})
	}
}

// TestIntegration_Objects_CompleteFlow exercises the full object lifecycle:
// upload, listing, download, sharing, shared download, access control and
// deletion, plus the audit trail those operations leave behind.
func TestIntegration_Objects_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			payload := []byte("vault integration payload: quarterly-report contents")
			var objectID string
			var shareToken string

			// [1/12] Upload an object as the owner
			t.Run("01_Upload", func(t *testing.T) {
				response := ctx.uploadObject(t, &ctx.owner, "quarterly-report.pdf", payload)

				assert.NotEmpty(t, response.ID)
				assert.Equal(t, "quarterly-report.pdf", response.DisplayName)
				assert.Equal(t, ctx.owner.id.String(), response.OwnerID)
				assert.Equal(t, int64(len(payload)), response.Size)

				objectID = response.ID
			})

			// [2/12] The catalog row must carry a nonce but never the plaintext
			t.Run("02_CatalogRowEncrypted", func(t *testing.T) {
				var nonce []byte
				var err error
				if tc.dbDriver == "postgres" {
					err = ctx.db.QueryRow("SELECT nonce FROM objects WHERE id = $1", objectID).Scan(&nonce)
				} else {
					parsed := uuid.MustParse(objectID)
					idValue, marshalErr := parsed.MarshalBinary()
					require.NoError(t, marshalErr)
					err = ctx.db.QueryRow("SELECT nonce FROM objects WHERE id = ?", idValue).Scan(&nonce)
				}
				require.NoError(t, err)
				assert.NotEmpty(t, nonce, "catalog row should carry the encryption nonce")
			})

			// [3/12] Owner sees the object in the listing
			t.Run("03_ListAsOwner", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/objects", &ctx.owner, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response vaultDTO.ListObjectsResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response.Data, 1)
				assert.Equal(t, objectID, response.Data[0].ID)
			})

			// [4/12] Another user sees an empty listing
			t.Run("04_ListAsStranger", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/objects", &ctx.stranger, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response vaultDTO.ListObjectsResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Empty(t, response.Data)
			})

			// [5/12] Admins see every object
			t.Run("05_ListAsAdmin", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/objects", &ctx.admin, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response vaultDTO.ListObjectsResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response.Data, 1)
				assert.Equal(t, objectID, response.Data[0].ID)
			})

			// [6/12] Owner downloads the decrypted payload
			t.Run("06_Download", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/objects/"+objectID, &ctx.owner, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, payload, body)
				assert.Contains(t, resp.Header.Get("Content-Disposition"), "quarterly-report.pdf")
			})

			// [7/12] Another user is denied
			t.Run("07_DownloadAsStrangerForbidden", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/objects/"+objectID, &ctx.stranger, nil, "")
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			})

			// [8/12] Admins can download any object
			t.Run("08_DownloadAsAdmin", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/objects/"+objectID, &ctx.admin, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, payload, body)
			})

			// [9/12] Owner issues a share link
			t.Run("09_IssueShareLink", func(t *testing.T) {
				requestBody := bytes.NewReader([]byte(`{"ttl_seconds": 3600}`))
				resp, body := ctx.makeRequest(
					t,
					http.MethodPost,
					fmt.Sprintf("/v1/objects/%s/share", objectID),
					&ctx.owner,
					requestBody,
					"application/json",
				)
				assert.Equal(t, http.StatusCreated, resp.StatusCode)

				var response vaultDTO.ShareLinkResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.NotEmpty(t, response.Token)
				assert.True(t, response.ExpiresAt.After(time.Now()))

				shareToken = response.Token
			})

			// [10/12] The share link works without any identity headers
			t.Run("10_SharedDownload", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/shared/"+shareToken, nil, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, payload, body)

				resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/shared/not-a-real-token", nil, nil, "")
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			// [11/12] The audit trail recorded the lifecycle, admin-only
			t.Run("11_AuditLogs", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/audit-logs", &ctx.owner, nil, "")
				assert.Equal(t, http.StatusForbidden, resp.StatusCode, "non-admin must not read audit logs")

				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/audit-logs", &ctx.admin, nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response auditDTO.ListAuditLogsResponse
				require.NoError(t, json.Unmarshal(body, &response))
				require.NotEmpty(t, response.Data)

				actions := map[string]bool{}
				var sawAnonymous bool
				for _, log := range response.Data {
					actions[log.Action] = true
					assert.True(t, log.Signed, "every recorded entry should be signed")
					if log.ActorID == nil {
						sawAnonymous = true
					}
				}
				assert.True(t, actions["UPLOAD"], "upload should be audited")
				assert.True(t, actions["DOWNLOAD"], "download should be audited")
				assert.True(t, actions["SHARE_ISSUED"], "share issuance should be audited")
				assert.True(t, actions["DENIED"], "denied access should be audited")
				assert.True(t, sawAnonymous, "shared download should be recorded without an actor")
			})

			// [12/12] Deletion removes catalog row and payload
			t.Run("12_Delete", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodDelete, "/v1/objects/"+objectID, &ctx.stranger, nil, "")
				assert.Equal(t, http.StatusForbidden, resp.StatusCode, "stranger must not delete")

				resp, _ = ctx.makeRequest(t, http.MethodDelete, "/v1/objects/"+objectID, &ctx.owner, nil, "")
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/objects/"+objectID, &ctx.owner, nil, "")
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)

				// Valid token, but the object is gone
				resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/shared/"+shareToken, nil, nil, "")
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})
		})
	}
}

// TestIntegration_Identity_Required verifies the gateway identity contract:
// requests without a valid client id header never reach the handlers, and
// unknown roles are downgraded instead of escalated.
func TestIntegration_Identity_Required(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t, "postgres")
	defer teardownIntegrationTest(t, ctx)

	t.Run("missing identity", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/objects", nil, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed client id", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ctx.server.URL+"/v1/objects", nil)
		require.NoError(t, err)
		req.Header.Set(vaultHTTP.ClientIDHeader, "not-a-uuid")
		req.Header.Set(vaultHTTP.ClientRoleHeader, "user")

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown role downgraded to user", func(t *testing.T) {
		elevated := testIdentity{id: uuid.Must(uuid.NewV7()), role: "superadmin"}
		payload := []byte("role downgrade check")
		owned := ctx.uploadObject(t, &ctx.owner, "private.txt", payload)

		// A downgraded caller must not gain admin access to another user's object
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/objects/"+owned.ID, &elevated, nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = ctx.makeRequest(t, http.MethodGet, "/v1/audit-logs", &elevated, nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
