// Package file serves the supplier roster from a JSON or YAML document on
// local disk.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// Format selects the roster encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file or object name.  Anything that is
// not .yaml/.yml is treated as JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a roster document.  The document is either a bare list of
// suppliers or an object with a "suppliers" list.
func Decode(data []byte, format Format) ([]supplier.Supplier, error) {
	var out []supplier.Supplier
	var err error
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &out)
	default:
		err = decodeJSON(data, &out)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to decode supplier roster").WithDetail(string(format))
	}
	if out == nil {
		out = []supplier.Supplier{}
	}
	return out, nil
}

type wrapped struct {
	Suppliers []supplier.Supplier `json:"suppliers" yaml:"suppliers"`
}

func decodeJSON(data []byte, out *[]supplier.Supplier) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var w wrapped
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*out = w.Suppliers
		return nil
	}
	return json.Unmarshal(data, out)
}

func decodeYAML(data []byte, out *[]supplier.Supplier) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	if len(node.Content) == 0 {
		return nil
	}
	if node.Content[0].Kind == yaml.MappingNode {
		var w wrapped
		if err := node.Decode(&w); err != nil {
			return err
		}
		*out = w.Suppliers
		return nil
	}
	return node.Decode(out)
}

// Encode renders suppliers in format under a top-level "suppliers" key.
func Encode(suppliers []supplier.Supplier, format Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if format == FormatYAML {
		data, err = yaml.Marshal(wrapped{Suppliers: suppliers})
	} else {
		data, err = json.MarshalIndent(wrapped{Suppliers: suppliers}, "", "  ")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode supplier roster")
	}
	return data, nil
}

// Store reads the roster from path on every call so edits take effect
// without a restart.
type Store struct {
	path   string
	format Format
	logger logging.Logger
}

var _ supplier.Store = (*Store)(nil)

// NewStore returns a Store for path.
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{path: path, format: FormatFor(path), logger: logger}
}

// LoadSuppliers implements supplier.Store.
func (s *Store) LoadSuppliers(ctx context.Context) ([]supplier.Supplier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSupplierStore, "failed to read supplier roster").WithDetail(s.path)
	}
	out, err := Decode(data, s.format)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("supplier roster loaded", logging.String("path", s.path), logging.Int("count", len(out)))
	return out, nil
}

//Personal.AI order the ending
