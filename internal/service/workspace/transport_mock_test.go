package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/transcriber"
)

var _ transport = &transportMock{}

type transportMock struct {
	GetFunc           func(ctx context.Context, path string) (*transcriber.Response, error)
	PostJSONFunc      func(ctx context.Context, path string, body any) (*transcriber.Response, error)
	DeleteFunc        func(ctx context.Context, path string) (*transcriber.Response, error)
	PostMultipartFunc func(ctx context.Context, path string, parts []transcriber.FilePart, timeout time.Duration) (*transcriber.Response, error)

	calls struct {
		Get []struct {
			Ctx  context.Context
			Path string
		}
		PostJSON []struct {
			Ctx  context.Context
			Path string
			Body any
		}
		Delete []struct {
			Ctx  context.Context
			Path string
		}
		PostMultipart []struct {
			Ctx     context.Context
			Path    string
			Parts   []transcriber.FilePart
			Timeout time.Duration
		}
	}
	lockGet           sync.RWMutex
	lockPostJSON      sync.RWMutex
	lockDelete        sync.RWMutex
	lockPostMultipart sync.RWMutex
}

func (mock *transportMock) Get(ctx context.Context, path string) (*transcriber.Response, error) {
	if mock.GetFunc == nil {
		panic("transportMock.GetFunc: method is nil but transport.Get was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Path string
	}{Ctx: ctx, Path: path}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, path)
}

func (mock *transportMock) GetCalls() []struct {
	Ctx  context.Context
	Path string
} {
	mock.lockGet.RLock()
	defer mock.lockGet.RUnlock()
	return mock.calls.Get
}

func (mock *transportMock) PostJSON(ctx context.Context, path string, body any) (*transcriber.Response, error) {
	if mock.PostJSONFunc == nil {
		panic("transportMock.PostJSONFunc: method is nil but transport.PostJSON was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Path string
		Body any
	}{Ctx: ctx, Path: path, Body: body}
	mock.lockPostJSON.Lock()
	mock.calls.PostJSON = append(mock.calls.PostJSON, callInfo)
	mock.lockPostJSON.Unlock()
	return mock.PostJSONFunc(ctx, path, body)
}

func (mock *transportMock) PostJSONCalls() []struct {
	Ctx  context.Context
	Path string
	Body any
} {
	mock.lockPostJSON.RLock()
	defer mock.lockPostJSON.RUnlock()
	return mock.calls.PostJSON
}

func (mock *transportMock) Delete(ctx context.Context, path string) (*transcriber.Response, error) {
	if mock.DeleteFunc == nil {
		panic("transportMock.DeleteFunc: method is nil but transport.Delete was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Path string
	}{Ctx: ctx, Path: path}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, path)
}

func (mock *transportMock) DeleteCalls() []struct {
	Ctx  context.Context
	Path string
} {
	mock.lockDelete.RLock()
	defer mock.lockDelete.RUnlock()
	return mock.calls.Delete
}

func (mock *transportMock) PostMultipart(ctx context.Context, path string, parts []transcriber.FilePart, timeout time.Duration) (*transcriber.Response, error) {
	if mock.PostMultipartFunc == nil {
		panic("transportMock.PostMultipartFunc: method is nil but transport.PostMultipart was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Path    string
		Parts   []transcriber.FilePart
		Timeout time.Duration
	}{Ctx: ctx, Path: path, Parts: parts, Timeout: timeout}
	mock.lockPostMultipart.Lock()
	mock.calls.PostMultipart = append(mock.calls.PostMultipart, callInfo)
	mock.lockPostMultipart.Unlock()
	return mock.PostMultipartFunc(ctx, path, parts, timeout)
}

func (mock *transportMock) PostMultipartCalls() []struct {
	Ctx     context.Context
	Path    string
	Parts   []transcriber.FilePart
	Timeout time.Duration
} {
	mock.lockPostMultipart.RLock()
	defer mock.lockPostMultipart.RUnlock()
	return mock.calls.PostMultipart
}
