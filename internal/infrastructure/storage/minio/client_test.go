package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/domain/supplier"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *MockObjectAPI) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucket, key, string(data), size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockObjectAPI) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return io.NopCloser(bytes.NewReader(args.Get(0).([]byte))), args.Error(1)
}

type ClientTestSuite struct {
	suite.Suite
	api    *MockObjectAPI
	client *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(MockObjectAPI)
	s.client = NewClientWithAPI(s.api, "", logging.NewNopLogger())
}

func (s *ClientTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestDefaults() {
	s.Equal(DefaultBucket, s.client.Bucket())
}

func (s *ClientTestSuite) TestNewClient_RequiresEndpoint() {
	_, err := NewClient(context.Background(), config.MinIOConfig{}, nil)
	s.True(pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam))
}

func (s *ClientTestSuite) TestHealthCheck() {
	s.api.On("BucketExists", mock.Anything, DefaultBucket).Return(true, nil).Once()
	s.NoError(s.client.HealthCheck(context.Background()))

	s.api.On("BucketExists", mock.Anything, DefaultBucket).Return(false, errors.New("dial tcp: refused")).Once()
	err := s.client.HealthCheck(context.Background())
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}

func (s *ClientTestSuite) TestEnsureBucket_CreatesMissing() {
	s.api.On("BucketExists", mock.Anything, DefaultBucket).Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, DefaultBucket, minio.MakeBucketOptions{Region: DefaultRegion}).Return(nil)

	s.NoError(s.client.EnsureBucket(context.Background()))
}

func (s *ClientTestSuite) TestEnsureBucket_ExistingIsNoop() {
	s.api.On("BucketExists", mock.Anything, DefaultBucket).Return(true, nil)

	s.NoError(s.client.EnsureBucket(context.Background()))
	s.api.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestGet_NotFound() {
	s.api.On("GetObject", mock.Anything, DefaultBucket, "missing.json").
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	_, err := s.client.Get(context.Background(), "missing.json")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeNotFound))
}

func (s *ClientTestSuite) TestRosterStore_LoadJSON() {
	s.api.On("GetObject", mock.Anything, DefaultBucket, DefaultRosterKey).
		Return([]byte(`[{"supplier_name": "Acme Textiles", "location": "Chennai, India"}]`), nil)

	got, err := NewRosterStore(s.client, "").LoadSuppliers(context.Background())
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Acme Textiles", got[0].SupplierName)
}

func (s *ClientTestSuite) TestRosterStore_LoadYAML() {
	s.api.On("GetObject", mock.Anything, DefaultBucket, "roster.yaml").
		Return([]byte("suppliers:\n  - supplier_name: Zeta Metals\n    location: Busan, South Korea\n"), nil)

	got, err := NewRosterStore(s.client, "roster.yaml").LoadSuppliers(context.Background())
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Busan, South Korea", got[0].Location)
}

func (s *ClientTestSuite) TestRosterStore_FetchFailure() {
	s.api.On("GetObject", mock.Anything, DefaultBucket, DefaultRosterKey).Return(nil, errors.New("timeout"))

	_, err := NewRosterStore(s.client, "").LoadSuppliers(context.Background())
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSupplierStore))
}

func (s *ClientTestSuite) TestRosterStore_Save() {
	s.api.On("BucketExists", mock.Anything, DefaultBucket).Return(true, nil)
	s.api.On("PutObject", mock.Anything, DefaultBucket, DefaultRosterKey, mock.MatchedBy(func(body string) bool {
		return bytes.Contains([]byte(body), []byte(`"supplier_name": "Acme"`))
	}), mock.Anything, minio.PutObjectOptions{ContentType: "application/json"}).Return(minio.UploadInfo{}, nil)

	s.NoError(NewRosterStore(s.client, "").Save(context.Background(), []supplier.Supplier{{SupplierName: "Acme"}}))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

//Personal.AI order the ending
