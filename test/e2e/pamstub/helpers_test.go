package pamstub_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

/*
 * Common constants and helper functions for pamstub end-to-end tests.
 * This includes container setup, admin operations and assertions.
 */

const (
	testImageName = "pamstub-test:latest"

	adminToken   = "test-admin-token-12345"
	testPassword = "P@ssw0rd123!"
)

// TestMain builds the Docker image once before all tests and removes it after.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building pamstub Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up pamstub Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/pamstub/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// relaxedRateLimits keeps tests that make many rapid requests under the limits.
var relaxedRateLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupStubContainer starts pamstub with relaxed rate limits plus extra env
// and returns its base URL.
func setupStubContainer(t *testing.T, extra map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"PAMSTUB_ADMIN_TOKEN":         adminToken,
		"PAMSTUB_WELCOME_BONUS_MINOR": "1000",
		"ENV":                         "test",
		"LOG_LEVEL":                   "info",
		"LOG_FORMAT":                  "json",
	}
	maps.Copy(env, relaxedRateLimits)
	maps.Copy(env, extra)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// newClient returns a Client for baseURL with its own Authenticator.
func newClient(t *testing.T, baseURL string, opts ...pamsdk.Option) *pamsdk.Client {
	t.Helper()

	env, err := pamsdk.NewEnvironment(pamsdk.EnvLocal, baseURL)
	require.NoError(t, err)

	return pamsdk.NewClient(env, pamsdk.NewAuthenticator(), opts...)
}

// registration returns a valid registration for username.
func registration(username string) pamsdk.RegisterRequest {
	return pamsdk.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  testPassword,
		FirstName: "Jo",
		LastName:  "Bit",
		Birth:     pamsdk.BirthDate{Day: 14, Month: 3, Year: 1990},
		Mobile:    pamsdk.Mobile{Prefix: "+33", Number: "612345678"},
		Country:   "FR",
		Currency:  "EUR",
		UserConsents: pamsdk.UserConsents{
			TermsAndConditions: true,
		},
	}
}

// registerPlayer registers username and returns the new player's id.
func registerPlayer(t *testing.T, client *pamsdk.Client, username string) string {
	t.Helper()

	resp, err := client.Register(t.Context(), registration(username))
	require.NoError(t, err, "registration should succeed")
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

// admin calls an admin route on the stub.
func admin(t *testing.T, baseURL, path string, body any) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, baseURL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("X-Admin-Token", adminToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode, "admin call %s", path)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *pamsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
