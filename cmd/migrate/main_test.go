package main

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"sweet-shop/internal/config"
	"sweet-shop/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals() {
	loadConfig = config.LoadDatabase
	runMigrationsFn = database.RunMigrations
	rollbackAllFn = database.RollbackAll
	exitFunc = func(int) {}
}

func stubDeps(t *testing.T) map[string]string {
	t.Helper()
	restoreGlobals()
	t.Cleanup(restoreGlobals)

	called := map[string]string{}
	loadConfig = func() (*config.Config, error) { return &config.Config{DatabaseURL: "postgres://db"}, nil }
	runMigrationsFn = func(url string) error { called["up"] = url; return nil }
	rollbackAllFn = func(url string) error { called["down"] = url; return nil }
	return called
}

func TestRun_Up(t *testing.T) {
	called := stubDeps(t)
	stdout := new(bytes.Buffer)

	require.NoError(t, run([]string{"up"}, stdout, new(bytes.Buffer)))
	assert.Equal(t, "postgres://db", called["up"])
	assert.NotContains(t, called, "down")
	assert.Contains(t, stdout.String(), "Migrations applied")
}

func TestRun_DownNeedsForce(t *testing.T) {
	called := stubDeps(t)

	err := run([]string{"down"}, new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-force")
	assert.Empty(t, called)

	stdout := new(bytes.Buffer)
	require.NoError(t, run([]string{"-force", "down"}, stdout, new(bytes.Buffer)))
	assert.Equal(t, "postgres://db", called["down"])
	assert.Contains(t, stdout.String(), "Migrations rolled back")
}

func TestRun_BadArgs(t *testing.T) {
	stubDeps(t)

	stdout := new(bytes.Buffer)
	err := run(nil, stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage:")

	err = run([]string{"sideways"}, new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorContains(t, err, `unknown command "sideways"`)

	err = run([]string{"-nope", "up"}, new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorContains(t, err, "flag provided but not defined")
}

func TestRun_Failures(t *testing.T) {
	stubDeps(t)
	loadConfig = func() (*config.Config, error) { return nil, errors.New("DATABASE_URL is required") }
	assert.ErrorContains(t, run([]string{"up"}, new(bytes.Buffer), new(bytes.Buffer)), "load config")

	stubDeps(t)
	runMigrationsFn = func(string) error { return errors.New("dirty") }
	assert.ErrorContains(t, run([]string{"up"}, new(bytes.Buffer), new(bytes.Buffer)), "migrate up")

	stubDeps(t)
	rollbackAllFn = func(string) error { return errors.New("locked") }
	assert.ErrorContains(t, run([]string{"-force", "down"}, new(bytes.Buffer), new(bytes.Buffer)), "migrate down")
}

func TestMainExit(t *testing.T) {
	stubDeps(t)
	code := -1
	exitFunc = func(c int) { code = c }
	args := os.Args
	t.Cleanup(func() { os.Args = args })

	os.Args = []string{"migrate", "down"}
	main()
	assert.Equal(t, 1, code)

	code = -1
	os.Args = []string{"migrate", "up"}
	main()
	assert.Equal(t, -1, code)
}
