package highlighter

import (
	"context"
	"sync"

	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

var _ stateStore = &stateStoreMock{}

type stateStoreMock struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	PutFunc func(ctx context.Context, key string, value []byte) error

	calls struct {
		Get []struct {
			Ctx context.Context
			Key string
		}
		Put []struct {
			Ctx   context.Context
			Key   string
			Value []byte
		}
	}
	lockGet sync.RWMutex
	lockPut sync.RWMutex
}

func (mock *stateStoreMock) Get(ctx context.Context, key string) ([]byte, error) {
	if mock.GetFunc == nil {
		panic("stateStoreMock.GetFunc: method is nil but stateStore.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, key)
}

func (mock *stateStoreMock) GetCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *stateStoreMock) Put(ctx context.Context, key string, value []byte) error {
	if mock.PutFunc == nil {
		panic("stateStoreMock.PutFunc: method is nil but stateStore.Put was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Key   string
		Value []byte
	}{Ctx: ctx, Key: key, Value: value}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, key, value)
}

func (mock *stateStoreMock) PutCalls() []struct {
	Ctx   context.Context
	Key   string
	Value []byte
} {
	mock.lockPut.RLock()
	calls := mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}

var _ readingIndex = &readingIndexMock{}

type readingIndexMock struct {
	GetFunc   func(ch rune) string
	ReadyFunc func() bool
	LenFunc   func() int
	ErrFunc   func() error
}

func (mock *readingIndexMock) Get(ch rune) string {
	if mock.GetFunc == nil {
		panic("readingIndexMock.GetFunc: method is nil but readingIndex.Get was just called")
	}
	return mock.GetFunc(ch)
}

func (mock *readingIndexMock) Ready() bool {
	if mock.ReadyFunc == nil {
		panic("readingIndexMock.ReadyFunc: method is nil but readingIndex.Ready was just called")
	}
	return mock.ReadyFunc()
}

func (mock *readingIndexMock) Len() int {
	if mock.LenFunc == nil {
		panic("readingIndexMock.LenFunc: method is nil but readingIndex.Len was just called")
	}
	return mock.LenFunc()
}

func (mock *readingIndexMock) Err() error {
	if mock.ErrFunc == nil {
		panic("readingIndexMock.ErrFunc: method is nil but readingIndex.Err was just called")
	}
	return mock.ErrFunc()
}

var _ learnedSet = &learnedSetMock{}

type learnedSetMock struct {
	IsLearnedFunc  func(ch rune) bool
	ToggleFunc     func(ctx context.Context, ch rune) (bool, error)
	CharactersFunc func() []string

	calls struct {
		Toggle []struct {
			Ctx context.Context
			Ch  rune
		}
	}
	lockToggle sync.RWMutex
}

func (mock *learnedSetMock) IsLearned(ch rune) bool {
	if mock.IsLearnedFunc == nil {
		panic("learnedSetMock.IsLearnedFunc: method is nil but learnedSet.IsLearned was just called")
	}
	return mock.IsLearnedFunc(ch)
}

func (mock *learnedSetMock) Toggle(ctx context.Context, ch rune) (bool, error) {
	if mock.ToggleFunc == nil {
		panic("learnedSetMock.ToggleFunc: method is nil but learnedSet.Toggle was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ch  rune
	}{Ctx: ctx, Ch: ch}
	mock.lockToggle.Lock()
	mock.calls.Toggle = append(mock.calls.Toggle, callInfo)
	mock.lockToggle.Unlock()
	return mock.ToggleFunc(ctx, ch)
}

func (mock *learnedSetMock) ToggleCalls() []struct {
	Ctx context.Context
	Ch  rune
} {
	mock.lockToggle.RLock()
	calls := mock.calls.Toggle
	mock.lockToggle.RUnlock()
	return calls
}

func (mock *learnedSetMock) Characters() []string {
	if mock.CharactersFunc == nil {
		panic("learnedSetMock.CharactersFunc: method is nil but learnedSet.Characters was just called")
	}
	return mock.CharactersFunc()
}

var _ notifier = &notifierMock{}

type notifierMock struct {
	BroadcastFunc func(ev domain.Event)

	calls struct {
		Broadcast []struct {
			Ev domain.Event
		}
	}
	lockBroadcast sync.RWMutex
}

func (mock *notifierMock) Broadcast(ev domain.Event) {
	callInfo := struct {
		Ev domain.Event
	}{Ev: ev}
	mock.lockBroadcast.Lock()
	mock.calls.Broadcast = append(mock.calls.Broadcast, callInfo)
	mock.lockBroadcast.Unlock()
	if mock.BroadcastFunc != nil {
		mock.BroadcastFunc(ev)
	}
}

func (mock *notifierMock) BroadcastCalls() []struct {
	Ev domain.Event
} {
	mock.lockBroadcast.RLock()
	calls := mock.calls.Broadcast
	mock.lockBroadcast.RUnlock()
	return calls
}
