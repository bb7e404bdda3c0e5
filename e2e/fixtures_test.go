//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
)

// CreateTestWorkspace creates an isolated directory used as $HOME
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteConfig writes a config file into the workspace and returns its path
func (tf *TUITestFramework) WriteConfig(content string) (string, error) {
	path := filepath.Join(tf.workspace, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// AppArgs points the config, directory and log at the workspace
func (tf *TUITestFramework) AppArgs() []string {
	return []string{
		"-config", filepath.Join(tf.workspace, "config.toml"),
		"-db", filepath.Join(tf.workspace, "directory.db"),
		"-log", filepath.Join(tf.workspace, "select2.log"),
	}
}

// fastLazyLoad keeps directory lookups quick
const fastLazyLoad = `
[lazy_load]
enabled = true
delay = "200ms"
`
