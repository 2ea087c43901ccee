package connector

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/stretchr/testify/mock"
)

// mockWebService is a testify mock of connector.WebService
type mockWebService struct {
	mock.Mock
}

func (m *mockWebService) Read(ctx context.Context, resource string, id int64) (connector.Record, error) {
	args := m.Called(ctx, resource, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(connector.Record), args.Error(1)
}

func (m *mockWebService) Search(ctx context.Context, resource string, filters connector.Filters) ([]int64, error) {
	args := m.Called(ctx, resource, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockWebService) Create(ctx context.Context, resource, node string, values connector.Record) (int64, error) {
	args := m.Called(ctx, resource, node, values)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWebService) Write(ctx context.Context, resource, node string, id int64, values connector.Record) error {
	args := m.Called(ctx, resource, node, id, values)
	return args.Error(0)
}

func (m *mockWebService) ReadImage(ctx context.Context, productID, imageID int64) (*connector.RemoteImage, error) {
	args := m.Called(ctx, productID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*connector.RemoteImage), args.Error(1)
}

// mockQueue is a testify mock of connector.JobQueue
type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Enqueue(ctx context.Context, job *connector.Job) (bool, error) {
	args := m.Called(ctx, job)
	return args.Bool(0), args.Error(1)
}

func jobNamed(name connector.JobName) any {
	return mock.MatchedBy(func(job *connector.Job) bool { return job.Name == name })
}
