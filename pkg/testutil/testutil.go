// Package testutil provides small fixture helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to name under dir, creating parent directories,
// and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SparkHome lays out a temporary Spark installation containing
// conf/spark-defaults.conf with the given content, points SPARK_HOME at it
// for the duration of the test, and returns the home path.
func SparkHome(t *testing.T, defaultsContent string) string {
	t.Helper()

	home := t.TempDir()
	WriteFile(t, home, filepath.Join("conf", "spark-defaults.conf"), defaultsContent)
	t.Setenv("SPARK_HOME", home)
	return home
}
