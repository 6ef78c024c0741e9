package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

const supplierColumns = `id, supplier_name, location, lat, lng, product, category, lead_time_days,
	monthly_volume, annual_contract_value, criticality, backup_suppliers`

// SupplierRepo serves the supplier roster from the suppliers table.
type SupplierRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

var _ supplier.Store = (*SupplierRepo)(nil)

func NewSupplierRepo(conn *postgres.Connection, log logging.Logger) *SupplierRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SupplierRepo{conn: conn, log: log}
}

// LoadSuppliers implements supplier.Store.  Rows come back in name order.
func (r *SupplierRepo) LoadSuppliers(ctx context.Context) ([]supplier.Supplier, error) {
	return r.list(ctx, r.conn.DB())
}

func (r *SupplierRepo) list(ctx context.Context, q queryExecutor) ([]supplier.Supplier, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY supplier_name, id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to query suppliers")
	}
	defer rows.Close()

	out := make([]supplier.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to iterate suppliers")
	}
	return out, nil
}

// Upsert writes every supplier in one transaction, keyed by StableID.
func (r *SupplierRepo) Upsert(ctx context.Context, suppliers []supplier.Supplier) (err error) {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				r.log.Warn("supplier upsert rollback failed", logging.Err(rbErr))
			}
		}
	}()

	for _, s := range suppliers {
		if err = upsertOne(ctx, tx, s); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to commit suppliers")
	}
	r.log.Info("suppliers upserted", logging.Int("count", len(suppliers)))
	return nil
}

func upsertOne(ctx context.Context, q queryExecutor, s supplier.Supplier) error {
	backups := s.BackupSuppliers
	if backups == nil {
		backups = []string{}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			supplier_name = EXCLUDED.supplier_name,
			location = EXCLUDED.location,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			product = EXCLUDED.product,
			category = EXCLUDED.category,
			lead_time_days = EXCLUDED.lead_time_days,
			monthly_volume = EXCLUDED.monthly_volume,
			annual_contract_value = EXCLUDED.annual_contract_value,
			criticality = EXCLUDED.criticality,
			backup_suppliers = EXCLUDED.backup_suppliers,
			updated_at = NOW()`,
		s.StableID(), s.SupplierName, s.Location, s.Lat, s.Lng, s.Product, s.Category, s.LeadTimeDays,
		s.MonthlyVolume, s.AnnualContractValue, s.Criticality, pq.Array(backups),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to upsert supplier").WithDetail(s.SupplierName)
	}
	return nil
}

func scanSupplier(row scanner) (supplier.Supplier, error) {
	var s supplier.Supplier
	var backups pq.StringArray
	err := row.Scan(&s.ID, &s.SupplierName, &s.Location, &s.Lat, &s.Lng, &s.Product, &s.Category, &s.LeadTimeDays,
		&s.MonthlyVolume, &s.AnnualContractValue, &s.Criticality, &backups)
	if err != nil {
		return supplier.Supplier{}, errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to scan supplier")
	}
	s.BackupSuppliers = []string(backups)
	return s, nil
}

//Personal.AI order the ending
