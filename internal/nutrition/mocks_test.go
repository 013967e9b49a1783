package nutrition

import (
	"context"
	"sync"
	"time"

	"nutrition-log/internal/models"
)

var _ entryStore = &entryStoreMock{}

type entryStoreMock struct {
	InsertEntryFunc func(ctx context.Context, e models.Entry) ([]models.Entry, error)
	ListEntriesFunc func(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error)

	calls struct {
		InsertEntry []struct {
			Ctx   context.Context
			Entry models.Entry
		}
		ListEntries []struct {
			Ctx  context.Context
			Name string
			From time.Time
			To   time.Time
		}
	}
	lockInsertEntry sync.RWMutex
	lockListEntries sync.RWMutex
}

func (mock *entryStoreMock) InsertEntry(ctx context.Context, e models.Entry) ([]models.Entry, error) {
	if mock.InsertEntryFunc == nil {
		panic("entryStoreMock.InsertEntryFunc: method is nil but entryStore.InsertEntry was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Entry models.Entry
	}{Ctx: ctx, Entry: e}
	mock.lockInsertEntry.Lock()
	mock.calls.InsertEntry = append(mock.calls.InsertEntry, callInfo)
	mock.lockInsertEntry.Unlock()
	return mock.InsertEntryFunc(ctx, e)
}

func (mock *entryStoreMock) InsertEntryCalls() []struct {
	Ctx   context.Context
	Entry models.Entry
} {
	mock.lockInsertEntry.RLock()
	calls := mock.calls.InsertEntry
	mock.lockInsertEntry.RUnlock()
	return calls
}

func (mock *entryStoreMock) ListEntries(ctx context.Context, name string, from, to time.Time) ([]models.Entry, error) {
	if mock.ListEntriesFunc == nil {
		panic("entryStoreMock.ListEntriesFunc: method is nil but entryStore.ListEntries was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Name string
		From time.Time
		To   time.Time
	}{Ctx: ctx, Name: name, From: from, To: to}
	mock.lockListEntries.Lock()
	mock.calls.ListEntries = append(mock.calls.ListEntries, callInfo)
	mock.lockListEntries.Unlock()
	return mock.ListEntriesFunc(ctx, name, from, to)
}

func (mock *entryStoreMock) ListEntriesCalls() []struct {
	Ctx  context.Context
	Name string
	From time.Time
	To   time.Time
} {
	mock.lockListEntries.RLock()
	calls := mock.calls.ListEntries
	mock.lockListEntries.RUnlock()
	return calls
}

var _ mealExtractor = &mealExtractorMock{}

type mealExtractorMock struct {
	ExtractFunc func(ctx context.Context, text string) (*models.Extraction, error)

	calls struct {
		Extract []struct {
			Ctx  context.Context
			Text string
		}
	}
	lockExtract sync.RWMutex
}

func (mock *mealExtractorMock) Extract(ctx context.Context, text string) (*models.Extraction, error) {
	if mock.ExtractFunc == nil {
		panic("mealExtractorMock.ExtractFunc: method is nil but mealExtractor.Extract was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Text string
	}{Ctx: ctx, Text: text}
	mock.lockExtract.Lock()
	mock.calls.Extract = append(mock.calls.Extract, callInfo)
	mock.lockExtract.Unlock()
	return mock.ExtractFunc(ctx, text)
}

func (mock *mealExtractorMock) ExtractCalls() []struct {
	Ctx  context.Context
	Text string
} {
	mock.lockExtract.RLock()
	calls := mock.calls.Extract
	mock.lockExtract.RUnlock()
	return calls
}
