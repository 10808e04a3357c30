package loader

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditform/database"
)

func TestOpenDatabase_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auditform.db")
	db, err := OpenDatabase(path)
	require.NoError(t, err)
	require.NoError(t, InitDatabase(db))
	require.NoError(t, db.Close())

	db, err = OpenDatabase(path)
	require.NoError(t, err)
	defer db.Close()
}

func TestLoadCatalog(t *testing.T) {
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "auditform.db"))
	require.NoError(t, err)
	defer db.Close()

	n, err := LoadCatalog(db, strings.NewReader("spec,model,gb\nSM-A366B,Galaxy A36,8/128GB\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// re-import replaces
	_, err = LoadCatalog(db, strings.NewReader("spec,model,gb\nSM-A366B,Samsung Galaxy A36 5G,8/256GB\n"))
	require.NoError(t, err)

	dev, err := database.GetCatalogDevice(db, "SM-A366B")
	require.NoError(t, err)
	require.NotNil(t, dev)
	assert.Equal(t, "Samsung Galaxy A36 5G", dev.Model)
	assert.Equal(t, "8/256GB", dev.GB)

	_, err = LoadCatalog(db, strings.NewReader("spec,model\n"))
	assert.Error(t, err)
}
