package ingest

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/repository"
)

type entryKey struct {
	worker   int64
	workType int64
	day      domain.Date
}

type fakeStore struct {
	workTypes map[string]*domain.WorkType
	workers   map[int64]*domain.Worker
	entries   map[entryKey]*domain.WorkEntry
	createErr error
	lookupErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workTypes: map[string]*domain.WorkType{
			"packing": {ID: 1, Code: "packing", Name: "装箱", Unit: "箱", IsActive: true},
			"legacy":  {ID: 2, Code: "legacy", Name: "旧工序", Unit: domain.DefaultUnit, IsActive: false},
		},
		workers: map[int64]*domain.Worker{},
		entries: map[entryKey]*domain.WorkEntry{},
	}
}

func (f *fakeStore) TouchWorker(telegramID int64, fullName string, username *string) (*domain.Worker, bool, error) {
	if w, ok := f.workers[telegramID]; ok {
		w.FullName = fullName
		w.Username = username
		return w, false, nil
	}
	w := &domain.Worker{ID: int64(len(f.workers) + 1), TelegramID: telegramID, FullName: fullName, Username: username, IsActive: true}
	f.workers[telegramID] = w
	return w, true, nil
}

func (f *fakeStore) GetWorkTypeByCode(code string) (*domain.WorkType, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	wt, ok := f.workTypes[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return wt, nil
}

func (f *fakeStore) CreateWorkEntry(e *domain.WorkEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	key := entryKey{e.WorkerID, e.WorkTypeID, e.WorkDate}
	if _, ok := f.entries[key]; ok {
		return repository.ErrDuplicateEntry
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries[key] = e
	return nil
}

func newTestProcessor(store Store) *Processor {
	p := NewProcessor(store, time.UTC)
	p.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return p
}

const validReport = `{
	"telegramId": 12345678,
	"fullName": "王小明",
	"username": "@xiaoming",
	"workTypeCode": "packing",
	"quantity": 12.5,
	"comment": "上午",
	"chatId": -100200,
	"messageId": 42
}`

func TestProcessCreatesWorkerAndEntry(t *testing.T) {
	store := newFakeStore()
	p := newTestProcessor(store)

	outcome, err := p.Process([]byte(validReport))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	require.Len(t, store.workers, 1)
	worker := store.workers[12345678]
	require.NotNil(t, worker.Username)
	assert.Equal(t, "xiaoming", *worker.Username)

	require.Len(t, store.entries, 1)
	entry := store.entries[entryKey{worker.ID, 1, domain.NewDate(2024, 6, 1)}]
	require.NotNil(t, entry)
	assert.Equal(t, domain.Quantity(12500), entry.Quantity)
	require.NotNil(t, entry.Comment)
	assert.Equal(t, "上午", *entry.Comment)
	require.NotNil(t, entry.SourceChatID)
	assert.Equal(t, int64(-100200), *entry.SourceChatID)
	require.NotNil(t, entry.SourceMessageID)
	assert.Equal(t, int64(42), *entry.SourceMessageID)
}

func TestProcessDuplicateIsAcknowledged(t *testing.T) {
	store := newFakeStore()
	p := newTestProcessor(store)

	_, err := p.Process([]byte(validReport))
	require.NoError(t, err)

	outcome, err := p.Process([]byte(validReport))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Len(t, store.entries, 1)
	assert.Len(t, store.workers, 1)
}

func TestProcessExplicitZeroQuantity(t *testing.T) {
	store := newFakeStore()

	body := `{"telegramId": 1, "fullName": "赵六", "workTypeCode": "packing", "quantity": 0}`
	outcome, err := newTestProcessor(store).Process([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	entry := store.entries[entryKey{1, 1, domain.NewDate(2024, 6, 1)}]
	require.NotNil(t, entry)
	assert.Zero(t, entry.Quantity)
}

func TestProcessExplicitWorkDate(t *testing.T) {
	store := newFakeStore()
	p := newTestProcessor(store)

	body := `{"telegramId": 1, "fullName": "赵六", "workTypeCode": "packing", "workDate": "2024-05-30", "quantity": 3}`
	outcome, err := p.Process([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	entry := store.entries[entryKey{1, 1, domain.NewDate(2024, 5, 30)}]
	require.NotNil(t, entry)
	assert.Nil(t, entry.Comment)
	assert.Nil(t, entry.SourceChatID)
	assert.Nil(t, store.workers[1].Username)
}

func TestProcessRejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "malformed json", body: `{"telegramId":`},
		{name: "missing telegram id", body: `{"fullName": "a", "workTypeCode": "packing", "quantity": 1}`},
		{name: "missing quantity", body: `{"telegramId": 1, "fullName": "a", "workTypeCode": "packing", "chatId": 1, "messageId": 2}`},
		{name: "negative quantity", body: `{"telegramId": 1, "fullName": "a", "workTypeCode": "packing", "quantity": -1}`},
		{name: "too many decimals", body: `{"telegramId": 1, "fullName": "a", "workTypeCode": "packing", "quantity": 1.2345}`},
		{name: "unknown work type", body: `{"telegramId": 1, "fullName": "a", "workTypeCode": "nope", "quantity": 1}`, wantErr: ErrUnknownWorkType},
		{name: "inactive work type", body: `{"telegramId": 1, "fullName": "a", "workTypeCode": "legacy", "quantity": 1}`, wantErr: ErrInactiveWorkType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			outcome, err := newTestProcessor(store).Process([]byte(tt.body))

			assert.Equal(t, OutcomeRejected, outcome)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, store.entries)
		})
	}
}

func TestProcessStoreFailureIsRetried(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("lookup", func(t *testing.T) {
		store := newFakeStore()
		store.lookupErr = boom
		outcome, err := newTestProcessor(store).Process([]byte(validReport))
		assert.Equal(t, OutcomeFailed, outcome)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("insert", func(t *testing.T) {
		store := newFakeStore()
		store.createErr = boom
		outcome, err := newTestProcessor(store).Process([]byte(validReport))
		assert.Equal(t, OutcomeFailed, outcome)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("dangling reference", func(t *testing.T) {
		store := newFakeStore()
		store.createErr = repository.ErrInvalidReference
		outcome, err := newTestProcessor(store).Process([]byte(validReport))
		assert.Equal(t, OutcomeRejected, outcome)
		assert.ErrorIs(t, err, repository.ErrInvalidReference)
	})
}
