package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/bizportal/config"
	domainauth "github.com/target/bizportal/internal/domain/auth"
)

func TestCommandsAreNamedConsistently(t *testing.T) {
	for key, cmd := range commands() {
		assert.Equal(t, key, cmd.name)
		assert.NotEmpty(t, cmd.description, key)
		assert.NotNil(t, cmd.run, key)
	}
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags("migrate", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	opts, err = parseMigrateFlags("migrate", []string{"--timeout", "30s"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Timeout)

	_, err = parseMigrateFlags("migrate", []string{"--timeout", "0s"})
	require.Error(t, err)
}

func TestParseDBResetFlags(t *testing.T) {
	opts, err := parseDBResetFlags([]string{"--yes", "--seed", "--allow-remote"})
	require.NoError(t, err)
	assert.True(t, opts.Yes)
	assert.True(t, opts.Seed)
	assert.True(t, opts.AllowRemote)

	_, err = parseDBResetFlags([]string{"--timeout", "-1s"})
	require.Error(t, err)
}

func TestParseCreateUserFlags(t *testing.T) {
	opts, err := parseCreateUserFlags([]string{
		"--email", " ann@example.com ",
		"--name", "Ann Lee",
		"--password", "s3cret-pass",
		"--role", "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", opts.Email)
	assert.Equal(t, "Ann Lee", opts.Name)
	assert.Equal(t, domainauth.RoleAdmin, opts.Role)

	opts, err = parseCreateUserFlags([]string{"--email", "a@b.c", "--name", "A", "--password", "x"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleCustomer, opts.Role)

	_, err = parseCreateUserFlags([]string{"--email", "a@b.c", "--name", "A"})
	require.Error(t, err)

	_, err = parseCreateUserFlags([]string{"--email", "a@b.c", "--name", "A", "--password", "x", "--role", "root"})
	require.ErrorContains(t, err, "unknown role")
}

func TestParseSetRoleFlags(t *testing.T) {
	opts, err := parseSetRoleFlags([]string{"--email", "bob@example.com", "--role", "staff"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStaff, opts.Role)

	_, err = parseSetRoleFlags([]string{"--role", "staff"})
	require.Error(t, err)

	_, err = parseSetRoleFlags([]string{"--email", "bob@example.com"})
	require.Error(t, err)
}

func TestParseListUsersFlags(t *testing.T) {
	opts, err := parseListUsersFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, opts.Limit)
	assert.Nil(t, opts.Role)

	opts, err = parseListUsersFlags([]string{"--limit", "5", "--offset", "10", "--role", "manager"})
	require.NoError(t, err)
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, 10, opts.Offset)
	require.NotNil(t, opts.Role)
	assert.Equal(t, domainauth.RoleManager, *opts.Role)

	_, err = parseListUsersFlags([]string{"--limit", "0"})
	require.Error(t, err)
	_, err = parseListUsersFlags([]string{"--offset", "-1"})
	require.Error(t, err)
}

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"", false},
		{"localhost", false},
		{"127.0.0.1", false},
		{"::1", false},
		{"127.0.0.2", false},
		{"db.local", false},
		{"10.0.0.5", true},
		{"prod-db.example.com", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isLikelyRemoteHost(tt.host), tt.host)
	}
}

func TestGuardRemoteHostRefusesWithoutFlag(t *testing.T) {
	cmdCtx := &commandContext{Config: config.AppConfig{Postgres: config.DBConfig{Host: "prod-db.example.com"}}}

	remote, err := guardRemoteHost(cmdCtx, false, "reset")
	assert.True(t, remote)
	require.ErrorContains(t, err, "--allow-remote")

	cmdCtx.Config.Postgres.Host = "localhost"
	remote, err = guardRemoteHost(cmdCtx, false, "reset")
	assert.False(t, remote)
	require.NoError(t, err)
}

func TestDBResetConfirmOptions(t *testing.T) {
	local := dbResetConfirmOptions{yes: true, target: "db"}
	assert.True(t, local.IsYes())
	assert.NotContains(t, local.GetWarning(), "remote")

	remote := dbResetConfirmOptions{yes: true, target: "db", remoteHost: "prod"}
	assert.False(t, remote.IsYes())
	assert.Contains(t, remote.GetWarning(), "remote")
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"portal"`, quoteIdentifier("portal"))
	assert.Equal(t, `"a""b"`, quoteIdentifier(`a"b`))
}

func TestHasRedisConfig(t *testing.T) {
	assert.False(t, hasRedisConfig(nil))
	assert.False(t, hasRedisConfig(&config.RedisConfig{}))
	assert.True(t, hasRedisConfig(&config.RedisConfig{URI: "localhost:6379"}))
	assert.True(t, hasRedisConfig(&config.RedisConfig{UseSentinel: true, SentinelNodes: []string{"s1:26379"}}))
	assert.False(t, hasRedisConfig(&config.RedisConfig{UseCluster: true}))
}
