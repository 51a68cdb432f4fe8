package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/starter-api/backend/internal/config"
)

// load runs LoadFrom against an empty env dir with only the given vars.
func load(t *testing.T, vars ...string) (*config.Settings, error) {
	t.Helper()
	return config.LoadFrom(t.TempDir(), append([]string{"SECRET_KEY=test-secret"}, vars...))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// TestLoad_defaults verifies that optional env vars fall back to their defaults
// when only the required SECRET_KEY is provided.
func TestLoad_defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	s, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, config.Local, s.Environment)
	require.Equal(t, "8080", s.Server.Port)
	require.Equal(t, []string{"http://localhost:5173"}, s.Server.CORSOrigins)
	require.Equal(t, "s3cr3t", s.Security.SecretKey.Value())
	require.False(t, s.Security.Debug)

	require.Equal(t, config.SQLite, s.Database.Type)
	wd, _ := os.Getwd()
	require.Equal(t, filepath.Join(wd, "db.sqlite3"), s.Database.Descriptor().Name)

	require.Equal(t, "redis://localhost:6379/1", s.Cache.Location())
	require.Equal(t, 60*time.Second, s.Cache.Timeout())

	require.Equal(t, "default", s.Sessions.CacheAlias)
	require.Equal(t, 24*time.Hour, s.Sessions.CookieAge())
	require.True(t, s.Sessions.CookieSecure)

	require.Equal(t, 10, s.REST.PageSize)
	require.Equal(t, time.Hour, s.REST.Timeout())
	require.Equal(t, map[string]string{"anon": "1000/hour", "user": "1000/hour", "scoped": "1000/hour"}, s.REST.ThrottleRates)

	require.Equal(t, "/static/", s.Static.StaticURL)
	require.Equal(t, filepath.Join(wd, "static"), s.Static.StaticRoot)
	require.Equal(t, "UTC", s.TimeZone.TimeZone)
	require.Equal(t, "en-US", s.TimeZone.Language().String())
}

// TestLoad_overrides verifies that values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	s, err := load(t,
		"PORT=9090",
		"CORS_ORIGINS=https://app.example.com, https://admin.example.com",
		"REDIS_HOST=cache.internal",
		"REDIS_DB=3",
		"REDIS_PASSWORD=hunter2",
		"REST_PAGE_SIZE=25",
		"TIME_ZONE=Asia/Dhaka",
	)

	require.NoError(t, err)
	require.Equal(t, "9090", s.Server.Port)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, s.Server.CORSOrigins)
	require.Equal(t, "redis://cache.internal:6379/3", s.Cache.Location())
	require.Equal(t, "hunter2", s.Cache.Options().Password.Value())
	require.Equal(t, 25, s.REST.PageSize)
	require.Equal(t, "Asia/Dhaka", s.TimeZone.Location().String())
}

// TestLoad_missingRequired verifies that an error is returned when SECRET_KEY
// is not set, and that the error message names the missing variable.
func TestLoad_missingRequired(t *testing.T) {
	_, err := config.LoadFrom(t.TempDir(), nil)

	require.Error(t, err)
	require.ErrorContains(t, err, "SECRET_KEY")
}

// TestLoad_reportsEveryFailure verifies failures are joined, not first-wins.
func TestLoad_reportsEveryFailure(t *testing.T) {
	_, err := config.LoadFrom(t.TempDir(), []string{
		"REDIS_DB=-1",
		"SESSION_CACHE_ALIAS=memcached",
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "SECRET_KEY")
	assert.ErrorContains(t, err, "REDIS_DB")
	assert.ErrorContains(t, err, "SESSION_CACHE_ALIAS")
}

func TestLoad_rejectsUnknownEnums(t *testing.T) {
	_, err := load(t, "ENVIRONMENT=qa")
	require.ErrorContains(t, err, "unknown environment")

	_, err = load(t, "DATABASE_TYPE=cockroach")
	require.ErrorContains(t, err, "unknown database type")
}

func TestLoad_invalidValues(t *testing.T) {
	cases := map[string]string{
		"throttle rate": "REST_THROTTLE_RATES=anon:lots,user:1/hour,scoped:1/hour",
		"missing rate":  "REST_THROTTLE_RATES=anon:10/minute",
		"language":      "LANGUAGE_CODE=not a language",
		"time zone":     "TIME_ZONE=Nowhere/Special",
		"samesite":      "SESSION_COOKIE_SAMESITE=Sometimes",
		"log level":     "LOG_LEVEL=loud",
		"docs server":   "DOCS_SERVERS=[{description: no url}]",
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, kv)
			require.Error(t, err)
		})
	}
}

// TestLoad_customTags verifies the registered throttle_rate and
// language_code tags run, rather than failing as unknown tags.
func TestLoad_customTags(t *testing.T) {
	_, err := load(t, "REST_THROTTLE_RATES=anon:lots,user:1/hour,scoped:1/hour")
	require.ErrorIs(t, err, config.ErrInvalidRate)
	assert.ErrorContains(t, err, `"lots"`)

	_, err = load(t, "LANGUAGE_CODE=not a language")
	require.ErrorContains(t, err, "LANGUAGE_CODE must be a BCP 47 language tag")

	s, err := load(t, "REST_THROTTLE_RATES=anon:5/m,user:1/hour,scoped:2/day", "LANGUAGE_CODE=pt-br")
	require.NoError(t, err)
	assert.Equal(t, "pt-br", s.TimeZone.LanguageCode)
}

func TestLoad_envFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "ENVIRONMENT=staging\nSECRET_KEY=from-base-file\n")
	writeFile(t, dir, ".env.staging", "PORT=7000\nSERVER_NAME=api.example.com, 10.0.0.5\nREST_PAGE_SIZE=50\n")
	writeFile(t, dir, ".env.production", "PORT=1\n")

	s, err := config.LoadFrom(dir, []string{"REST_PAGE_SIZE=5"})

	require.NoError(t, err)
	require.Equal(t, config.Staging, s.Environment)
	require.Equal(t, "from-base-file", s.Security.SecretKey.Value())
	require.Equal(t, "7000", s.Server.Port)
	require.Equal(t, 5, s.REST.PageSize, "process environment wins over files")
	require.Equal(t, []string{"api.example.com", "10.0.0.5"}, s.Base.AllowedHosts)
	require.Equal(t, []string{"10.0.0.5"}, s.Base.InternalIPs)
}

func TestLoad_processEnvironmentSelectsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "ENVIRONMENT=staging\n")
	writeFile(t, dir, ".env.staging", "PORT=7000\n")
	writeFile(t, dir, ".env.development", "PORT=7001\n")

	s, err := config.LoadFrom(dir, []string{"ENVIRONMENT=development", "SECRET_KEY=x"})

	require.NoError(t, err)
	require.Equal(t, config.Development, s.Environment)
	require.Equal(t, "7001", s.Server.Port)
}

func TestLoad_environmentDrivesRESTPolicy(t *testing.T) {
	local, err := load(t)
	require.NoError(t, err)
	assert.False(t, local.REST.RequiresAuthentication())
	assert.True(t, local.REST.Browsable())
	assert.Equal(t, "verbose", local.Logging.Format)

	prod, err := load(t, "ENVIRONMENT=production", "SERVER_NAME=api.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{config.PermissionIsAuthenticated}, prod.REST.PermissionClasses)
	assert.False(t, prod.REST.Browsable())
	assert.Equal(t, "json", prod.Logging.Format)
}

func TestLoad_networkDatabaseDescriptor(t *testing.T) {
	s, err := load(t,
		"DATABASE_TYPE=mysql",
		"DATABASE_HOST=db",
		"DATABASE_PORT=3306",
		"DATABASE_NAME=shop",
		"DATABASE_USER=app",
		"DATABASE_PASSWORD=pw",
	)

	require.NoError(t, err)
	d := s.Database.Descriptor()
	assert.Equal(t, config.MySQL, d.Engine)
	assert.Equal(t, "shop", d.Name)
	assert.Equal(t, "app", d.User)
	assert.Equal(t, "pw", d.Password.Value())
	assert.Equal(t, "db", d.Host)
	assert.Equal(t, 3306, d.Port)
}

func TestLoad_orderedLists(t *testing.T) {
	s, err := load(t, "MIDDLEWARE_CUSTOM=request_log", "INSTALLED_APPS_LOCAL=catalog")

	require.NoError(t, err)
	assert.Equal(t, []string{"security", "session", "common", "clickjacking", "cors", "throttle", "request_log"}, s.Middleware.Ordered())
	assert.Equal(t, []string{"health", "static", "docs", "catalog"}, s.InstalledApps.Ordered())
	assert.True(t, s.InstalledApps.Has("docs"))
	assert.False(t, s.InstalledApps.Has("common"))
	assert.Len(t, s.Authentication.PasswordValidators, 4)
}

func TestLoad_docsYAMLValues(t *testing.T) {
	s, err := load(t,
		"DOCS_SERVERS=[{url: 'https://api.example.com', description: Production}]",
		"DOCS_SECURITY_SCHEMES={bearerAuth: {type: http, scheme: bearer}}",
	)

	require.NoError(t, err)
	require.Equal(t, config.Servers{{URL: "https://api.example.com", Description: "Production"}}, s.Documentation.Servers)
	require.Contains(t, s.Documentation.SecuritySchemes, "bearerAuth")
}

func TestValidateProduction(t *testing.T) {
	ok, err := load(t, "ENVIRONMENT=production", "SERVER_NAME=api.example.com")
	require.NoError(t, err)
	assert.NoError(t, ok.ValidateProduction())

	bad, err := load(t, "ENVIRONMENT=production", "DEBUG=true")
	require.NoError(t, err)
	err = bad.ValidateProduction()
	assert.ErrorContains(t, err, "ALLOWED_HOSTS")
	assert.ErrorContains(t, err, "DEBUG")

	local, err := load(t, "DEBUG=true")
	require.NoError(t, err)
	assert.NoError(t, local.ValidateProduction())
}

// TestSecret_redacted verifies secrets never leak through printing or dumps.
func TestSecret_redacted(t *testing.T) {
	s, err := load(t, "DATABASE_PASSWORD=pw", "REDIS_PASSWORD=hunter2")
	require.NoError(t, err)

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "test-secret")
	assert.NotContains(t, string(out), "hunter2")
	assert.Contains(t, string(out), "[REDACTED]")

	js, err := json.Marshal(s.Security)
	require.NoError(t, err)
	assert.NotContains(t, string(js), "test-secret")

	assert.Equal(t, "[REDACTED]", s.Security.SecretKey.String())
	assert.Equal(t, "", config.Secret("").String())
}
