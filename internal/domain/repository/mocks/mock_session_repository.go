package mocks

import (
	"context"

	"github.com/bnema/lectern/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// NewMockSessionRepository creates a new instance of MockSessionRepository.
// It registers a cleanup function to assert the mocks expectations.
func NewMockSessionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockSessionRepository is a mock type for the SessionRepository type
type MockSessionRepository struct {
	mock.Mock
}

type MockSessionRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockSessionRepository) EXPECT() *MockSessionRepository_Expecter {
	return &MockSessionRepository_Expecter{mock: &_m.Mock}
}

// Save provides a mock function for the type MockSessionRepository
func (_mock *MockSessionRepository) Save(ctx context.Context, filePath string, rec *entity.SessionRecord) error {
	ret := _mock.Called(ctx, filePath, rec)

	if len(ret) == 0 {
		panic("no return value specified for Save")
	}

	var r0 error
	if returnFunc, ok := ret.Get(0).(func(context.Context, string, *entity.SessionRecord) error); ok {
		r0 = returnFunc(ctx, filePath, rec)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// MockSessionRepository_Save_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Save'
type MockSessionRepository_Save_Call struct {
	*mock.Call
}

// Save is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) Save(ctx interface{}, filePath interface{}, rec interface{}) *MockSessionRepository_Save_Call {
	return &MockSessionRepository_Save_Call{Call: _e.mock.On("Save", ctx, filePath, rec)}
}

func (_c *MockSessionRepository_Save_Call) Run(run func(ctx context.Context, filePath string, rec *entity.SessionRecord)) *MockSessionRepository_Save_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(*entity.SessionRecord))
	})
	return _c
}

func (_c *MockSessionRepository_Save_Call) Return(err error) *MockSessionRepository_Save_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockSessionRepository_Save_Call) RunAndReturn(run func(ctx context.Context, filePath string, rec *entity.SessionRecord) error) *MockSessionRepository_Save_Call {
	_c.Call.Return(run)
	return _c
}

// Get provides a mock function for the type MockSessionRepository
func (_mock *MockSessionRepository) Get(ctx context.Context, filePath string) (*entity.SessionRecord, error) {
	ret := _mock.Called(ctx, filePath)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 *entity.SessionRecord
	var r1 error
	if returnFunc, ok := ret.Get(0).(func(context.Context, string) (*entity.SessionRecord, error)); ok {
		return returnFunc(ctx, filePath)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.SessionRecord)
	}
	r1 = ret.Error(1)
	return r0, r1
}

// MockSessionRepository_Get_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Get'
type MockSessionRepository_Get_Call struct {
	*mock.Call
}

// Get is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) Get(ctx interface{}, filePath interface{}) *MockSessionRepository_Get_Call {
	return &MockSessionRepository_Get_Call{Call: _e.mock.On("Get", ctx, filePath)}
}

func (_c *MockSessionRepository_Get_Call) Return(rec *entity.SessionRecord, err error) *MockSessionRepository_Get_Call {
	_c.Call.Return(rec, err)
	return _c
}

func (_c *MockSessionRepository_Get_Call) RunAndReturn(run func(ctx context.Context, filePath string) (*entity.SessionRecord, error)) *MockSessionRepository_Get_Call {
	_c.Call.Return(run)
	return _c
}

// Delete provides a mock function for the type MockSessionRepository
func (_mock *MockSessionRepository) Delete(ctx context.Context, filePath string) error {
	ret := _mock.Called(ctx, filePath)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}

	var r0 error
	if returnFunc, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = returnFunc(ctx, filePath)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// MockSessionRepository_Delete_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Delete'
type MockSessionRepository_Delete_Call struct {
	*mock.Call
}

// Delete is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) Delete(ctx interface{}, filePath interface{}) *MockSessionRepository_Delete_Call {
	return &MockSessionRepository_Delete_Call{Call: _e.mock.On("Delete", ctx, filePath)}
}

func (_c *MockSessionRepository_Delete_Call) Return(err error) *MockSessionRepository_Delete_Call {
	_c.Call.Return(err)
	return _c
}

// GetRecent provides a mock function for the type MockSessionRepository
func (_mock *MockSessionRepository) GetRecent(ctx context.Context, limit int) ([]entity.RecentFile, error) {
	ret := _mock.Called(ctx, limit)

	if len(ret) == 0 {
		panic("no return value specified for GetRecent")
	}

	var r0 []entity.RecentFile
	var r1 error
	if returnFunc, ok := ret.Get(0).(func(context.Context, int) ([]entity.RecentFile, error)); ok {
		return returnFunc(ctx, limit)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]entity.RecentFile)
	}
	r1 = ret.Error(1)
	return r0, r1
}

// MockSessionRepository_GetRecent_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetRecent'
type MockSessionRepository_GetRecent_Call struct {
	*mock.Call
}

// GetRecent is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) GetRecent(ctx interface{}, limit interface{}) *MockSessionRepository_GetRecent_Call {
	return &MockSessionRepository_GetRecent_Call{Call: _e.mock.On("GetRecent", ctx, limit)}
}

func (_c *MockSessionRepository_GetRecent_Call) Return(files []entity.RecentFile, err error) *MockSessionRepository_GetRecent_Call {
	_c.Call.Return(files, err)
	return _c
}

// DeleteOldest provides a mock function for the type MockSessionRepository
func (_mock *MockSessionRepository) DeleteOldest(ctx context.Context, keepCount int) (int64, error) {
	ret := _mock.Called(ctx, keepCount)

	if len(ret) == 0 {
		panic("no return value specified for DeleteOldest")
	}

	if returnFunc, ok := ret.Get(0).(func(context.Context, int) (int64, error)); ok {
		return returnFunc(ctx, keepCount)
	}
	return ret.Get(0).(int64), ret.Error(1)
}

// MockSessionRepository_DeleteOldest_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DeleteOldest'
type MockSessionRepository_DeleteOldest_Call struct {
	*mock.Call
}

// DeleteOldest is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) DeleteOldest(ctx interface{}, keepCount interface{}) *MockSessionRepository_DeleteOldest_Call {
	return &MockSessionRepository_DeleteOldest_Call{Call: _e.mock.On("DeleteOldest", ctx, keepCount)}
}

func (_c *MockSessionRepository_DeleteOldest_Call) Return(deleted int64, err error) *MockSessionRepository_DeleteOldest_Call {
	_c.Call.Return(deleted, err)
	return _c
}
