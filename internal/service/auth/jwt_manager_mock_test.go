package auth

import (
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/transcribe-dashboard/internal/auth"
)

var _ jwtManager = &jwtManagerMock{}

type jwtManagerMock struct {
	GenerateSessionTokenFunc func(accountID uuid.UUID, sessionID string) (string, error)
	ValidateSessionTokenFunc func(token string) (auth.Claims, error)

	calls struct {
		GenerateSessionToken []struct {
			AccountID uuid.UUID
			SessionID string
		}
		ValidateSessionToken []struct {
			Token string
		}
	}
	lockGenerateSessionToken sync.RWMutex
	lockValidateSessionToken sync.RWMutex
}

func (mock *jwtManagerMock) GenerateSessionToken(accountID uuid.UUID, sessionID string) (string, error) {
	if mock.GenerateSessionTokenFunc == nil {
		panic("jwtManagerMock.GenerateSessionTokenFunc: method is nil but jwtManager.GenerateSessionToken was just called")
	}
	callInfo := struct {
		AccountID uuid.UUID
		SessionID string
	}{AccountID: accountID, SessionID: sessionID}
	mock.lockGenerateSessionToken.Lock()
	mock.calls.GenerateSessionToken = append(mock.calls.GenerateSessionToken, callInfo)
	mock.lockGenerateSessionToken.Unlock()
	return mock.GenerateSessionTokenFunc(accountID, sessionID)
}

func (mock *jwtManagerMock) GenerateSessionTokenCalls() []struct {
	AccountID uuid.UUID
	SessionID string
} {
	mock.lockGenerateSessionToken.RLock()
	calls := mock.calls.GenerateSessionToken
	mock.lockGenerateSessionToken.RUnlock()
	return calls
}

func (mock *jwtManagerMock) ValidateSessionToken(token string) (auth.Claims, error) {
	if mock.ValidateSessionTokenFunc == nil {
		panic("jwtManagerMock.ValidateSessionTokenFunc: method is nil but jwtManager.ValidateSessionToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockValidateSessionToken.Lock()
	mock.calls.ValidateSessionToken = append(mock.calls.ValidateSessionToken, callInfo)
	mock.lockValidateSessionToken.Unlock()
	return mock.ValidateSessionTokenFunc(token)
}

func (mock *jwtManagerMock) ValidateSessionTokenCalls() []struct {
	Token string
} {
	mock.lockValidateSessionToken.RLock()
	calls := mock.calls.ValidateSessionToken
	mock.lockValidateSessionToken.RUnlock()
	return calls
}
