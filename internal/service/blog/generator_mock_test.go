package blog

import (
	"context"
	"sync"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// generatorMock is a mock implementation of Generator.
type generatorMock struct {
	OutlineFunc func(ctx context.Context, params OutlineParams) (*domain.Outline, error)
	ArticleFunc func(ctx context.Context, outline *domain.Outline) (string, error)

	calls struct {
		Outline []struct {
			Ctx    context.Context
			Params OutlineParams
		}
		Article []struct {
			Ctx     context.Context
			Outline *domain.Outline
		}
	}
	lockOutline sync.RWMutex
	lockArticle sync.RWMutex
}

func (mock *generatorMock) Outline(ctx context.Context, params OutlineParams) (*domain.Outline, error) {
	if mock.OutlineFunc == nil {
		panic("generatorMock.OutlineFunc: method is nil but Generator.Outline was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Params OutlineParams
	}{Ctx: ctx, Params: params}
	mock.lockOutline.Lock()
	mock.calls.Outline = append(mock.calls.Outline, callInfo)
	mock.lockOutline.Unlock()
	return mock.OutlineFunc(ctx, params)
}

func (mock *generatorMock) OutlineCalls() []struct {
	Ctx    context.Context
	Params OutlineParams
} {
	mock.lockOutline.RLock()
	defer mock.lockOutline.RUnlock()
	return mock.calls.Outline
}

func (mock *generatorMock) Article(ctx context.Context, outline *domain.Outline) (string, error) {
	if mock.ArticleFunc == nil {
		panic("generatorMock.ArticleFunc: method is nil but Generator.Article was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Outline *domain.Outline
	}{Ctx: ctx, Outline: outline}
	mock.lockArticle.Lock()
	mock.calls.Article = append(mock.calls.Article, callInfo)
	mock.lockArticle.Unlock()
	return mock.ArticleFunc(ctx, outline)
}

func (mock *generatorMock) ArticleCalls() []struct {
	Ctx     context.Context
	Outline *domain.Outline
} {
	mock.lockArticle.RLock()
	defer mock.lockArticle.RUnlock()
	return mock.calls.Article
}
