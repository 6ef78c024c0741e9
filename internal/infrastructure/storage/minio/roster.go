package minio

import (
	"context"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/storage/file"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// DefaultRosterKey is the object read when no key is configured.
const DefaultRosterKey = "suppliers/suppliers.json"

// RosterStore reads the supplier roster document from one object.  The
// encoding follows the object key's extension.
type RosterStore struct {
	client *Client
	key    string
	format file.Format
}

var _ supplier.Store = (*RosterStore)(nil)

// NewRosterStore returns a RosterStore for key.
func NewRosterStore(client *Client, key string) *RosterStore {
	if key == "" {
		key = DefaultRosterKey
	}
	return &RosterStore{client: client, key: key, format: file.FormatFor(key)}
}

// LoadSuppliers implements supplier.Store.
func (s *RosterStore) LoadSuppliers(ctx context.Context) ([]supplier.Supplier, error) {
	data, err := s.client.Get(ctx, s.key)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to fetch supplier roster").WithDetail(s.client.Bucket() + "/" + s.key)
	}
	out, err := file.Decode(data, s.format)
	if err != nil {
		return nil, err
	}
	s.client.logger.Debug("supplier roster fetched",
		logging.String("bucket", s.client.Bucket()),
		logging.String("key", s.key),
		logging.Int("count", len(out)),
	)
	return out, nil
}

// Save uploads suppliers as the roster document, creating the bucket first
// when needed.
func (s *RosterStore) Save(ctx context.Context, suppliers []supplier.Supplier) error {
	if err := s.client.EnsureBucket(ctx); err != nil {
		return err
	}
	data, err := file.Encode(suppliers, s.format)
	if err != nil {
		return err
	}
	contentType := "application/json"
	if s.format == file.FormatYAML {
		contentType = "application/yaml"
	}
	return s.client.Put(ctx, s.key, data, contentType)
}

//Personal.AI order the ending
