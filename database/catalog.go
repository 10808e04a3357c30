package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"auditform/model"
)

// UpsertCatalogDeviceInTx inserts a device or replaces the one with the same spec.
func UpsertCatalogDeviceInTx(tx *sqlx.Tx, dev model.CatalogDevice) error {
	const q = `
		INSERT INTO catalog_devices (spec, model, gb, color, coo)
		VALUES (:spec, :model, :gb, :color, :coo)
		ON CONFLICT(spec) DO UPDATE SET
			model = excluded.model,
			gb = excluded.gb,
			color = excluded.color,
			coo = excluded.coo`
	if _, err := tx.NamedExec(q, dev); err != nil {
		return fmt.Errorf("UpsertCatalogDeviceInTx (Spec: %s) failed: %w", dev.Spec, err)
	}
	return nil
}

// GetCatalogDevice finds the device for a label's spec code. Region and
// colour suffixes vary, so the longest catalog spec that prefixes the code wins.
// It returns nil when nothing matches.
func GetCatalogDevice(db *sqlx.DB, spec string) (*model.CatalogDevice, error) {
	spec = strings.ToUpper(strings.TrimSpace(spec))
	if spec == "" {
		return nil, nil
	}

	var dev model.CatalogDevice
	const q = `
		SELECT spec, model, gb, color, coo
		FROM catalog_devices
		WHERE substr(?, 1, length(spec)) = spec
		ORDER BY length(spec) DESC
		LIMIT 1`
	err := db.Get(&dev, q, spec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetCatalogDevice (Spec: %s) failed: %w", spec, err)
	}
	return &dev, nil
}

func CountCatalogDevices(db *sqlx.DB) (int, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM catalog_devices`); err != nil {
		return 0, fmt.Errorf("failed to count catalog devices: %w", err)
	}
	return n, nil
}

// Catalog adapts the catalog table to record.CatalogLookup.
type Catalog struct {
	DB *sqlx.DB
}

func (c Catalog) LookupSpec(spec string) (*model.CatalogDevice, error) {
	return GetCatalogDevice(c.DB, spec)
}

func (c Catalog) Count() (int, error) {
	return CountCatalogDevices(c.DB)
}
