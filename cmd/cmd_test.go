package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) (string, config.Database) {
	t.Helper()
	dir := t.TempDir()
	db := config.Database{Driver: "sqlite", DSN: filepath.Join(dir, "marketplace.db")}
	path := filepath.Join(dir, "config.yaml")
	content := "mode: release\njwt:\n  access_secret: cli-test\ndatabase:\n  driver: sqlite\n  dsn: " + db.DSN + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Cleanup(func() {
		config.SetFile("")
		config.Set(nil)
		grantSuper = false
	})
	return path, db
}

func run(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestMigrateAndGrantAdmin(t *testing.T) {
	path, dbConf := setupConfig(t)
	require.NoError(t, run("--config", path, "migrate"))

	db, err := database.Open(dbConf, config.ModeRelease)
	require.NoError(t, err)
	defer closeDB(db)
	require.NoError(t, db.Create(&model.Profile{Email: "owner@example.com"}).Error)

	require.NoError(t, run("--config", path, "grant-admin", "Owner@Example.com", "--super"))

	var p model.Profile
	require.NoError(t, db.Where("email = ?", "owner@example.com").Take(&p).Error)
	assert.True(t, p.IsAdmin)
	assert.True(t, p.IsSuperAdmin)
	assert.Equal(t, model.RoleSuperAdmin, p.RoleID())
}

func TestGrantAdmin_UnknownEmail(t *testing.T) {
	path, _ := setupConfig(t)
	err := run("--config", path, "grant-admin", "nobody@example.com")
	assert.ErrorContains(t, err, "不存在")
}

func TestGrantAdmin_RequiresEmail(t *testing.T) {
	path, _ := setupConfig(t)
	assert.Error(t, run("--config", path, "grant-admin"))
}
