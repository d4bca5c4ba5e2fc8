package auth

import (
	"context"
	"sync"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

var _ accountRepo = &accountRepoMock{}

type accountRepoMock struct {
	CreateFunc     func(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.Account, error)

	calls struct {
		Create []struct {
			Ctx     context.Context
			Account *domain.Account
		}
		GetByEmail []struct {
			Ctx   context.Context
			Email string
		}
	}
	lockCreate     sync.RWMutex
	lockGetByEmail sync.RWMutex
}

func (mock *accountRepoMock) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if mock.CreateFunc == nil {
		panic("accountRepoMock.CreateFunc: method is nil but accountRepo.Create was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Account *domain.Account
	}{Ctx: ctx, Account: account}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, account)
}

func (mock *accountRepoMock) CreateCalls() []struct {
	Ctx     context.Context
	Account *domain.Account
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *accountRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if mock.GetByEmailFunc == nil {
		panic("accountRepoMock.GetByEmailFunc: method is nil but accountRepo.GetByEmail was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{Ctx: ctx, Email: email}
	mock.lockGetByEmail.Lock()
	mock.calls.GetByEmail = append(mock.calls.GetByEmail, callInfo)
	mock.lockGetByEmail.Unlock()
	return mock.GetByEmailFunc(ctx, email)
}

func (mock *accountRepoMock) GetByEmailCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockGetByEmail.RLock()
	calls := mock.calls.GetByEmail
	mock.lockGetByEmail.RUnlock()
	return calls
}
