package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

// MockCompleter 按队列依次返回，队列耗尽后返回 Response
type MockCompleter struct {
	mu            sync.Mutex
	Response      string
	ResponseQueue []string
	Err           error
	Calls         [][]openai.ChatCompletionMessage
}

func (m *MockCompleter) next(messages []openai.ChatCompletionMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

func (m *MockCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return m.next(messages)
}

func (m *MockCompleter) CompleteStream(ctx context.Context, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error) {
	resp, err := m.next(messages)
	if err == nil && onDelta != nil {
		onDelta(resp)
	}
	return resp, err
}

// MockGrader 按队列返回批阅文本，记录收到的作文
type MockGrader struct {
	Feedbacks []string
	Err       error
	Seen      []string
}

func (m *MockGrader) Grade(ctx context.Context, essay string) (string, error) {
	m.Seen = append(m.Seen, essay)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Feedbacks) == 0 {
		return "", nil
	}
	fb := m.Feedbacks[0]
	if len(m.Feedbacks) > 1 {
		m.Feedbacks = m.Feedbacks[1:]
	}
	return fb, nil
}

// MockOptimizer 每次在作文后追加一个版本号
type MockOptimizer struct {
	Err   error
	calls int
}

func (m *MockOptimizer) Optimize(ctx context.Context, essay, feedback string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.calls++
	return fmt.Sprintf("%s [v%d]", essay, m.calls+1), nil
}

type MockRecognizer struct {
	Entities []model.Entity
	Err      error
	Calls    int
}

func (m *MockRecognizer) Recognize(ctx context.Context, text string) ([]model.Entity, error) {
	m.Calls++
	return m.Entities, m.Err
}

type MockReviewStore struct {
	Reviews []*model.EssayReview
	Err     error
}

func (m *MockReviewStore) Create(review *model.EssayReview) error {
	if m.Err != nil {
		return m.Err
	}
	review.ID = uint(len(m.Reviews) + 1)
	m.Reviews = append(m.Reviews, review)
	return nil
}

func (m *MockReviewStore) FindBySession(sessionID string, limit int) ([]model.EssayReview, error) {
	out := []model.EssayReview{}
	for i := len(m.Reviews) - 1; i >= 0 && len(out) < limit; i-- {
		if m.Reviews[i].SessionID == sessionID {
			out = append(out, *m.Reviews[i])
		}
	}
	return out, nil
}

func (m *MockReviewStore) FindByID(id uint) (*model.EssayReview, error) {
	if id == 0 || int(id) > len(m.Reviews) {
		return nil, util.ErrReviewNotFound
	}
	return m.Reviews[id-1], nil
}

// MockStorageProvider 内存对象存储，List 按写入顺序返回
type MockStorageProvider struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Order   []string
	ListErr error
	GetErr  error
	// 按前缀注入 List 失败
	ListErrFor map[string]error
}

func NewMockStorageProvider() *MockStorageProvider {
	return &MockStorageProvider{Objects: map[string][]byte{}}
}

func (m *MockStorageProvider) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[key]; !ok {
		m.Order = append(m.Order, key)
	}
	m.Objects[key] = data
}

func (m *MockStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	m.Put(key, buf.Bytes())
	return m.GetURL(key), nil
}

func (m *MockStorageProvider) UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	m.Put(key, data)
	return m.GetURL(key), nil
}

func (m *MockStorageProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	data, ok := m.Objects[key]
	if !ok {
		return nil, util.ErrObjectNotFound
	}
	return data, nil
}

func (m *MockStorageProvider) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if err, ok := m.ListErrFor[prefix]; ok {
		return nil, err
	}
	var keys []string
	for _, k := range m.Order {
		if _, ok := m.Objects[k]; ok && strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MockStorageProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}

func (m *MockStorageProvider) GetURL(key string) string {
	return "https://bucket.example.com/" + key
}

func (m *MockStorageProvider) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Objects))
	for k := range m.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// newFileHeaders 把 name, content 成对组装成 multipart 表单中的文件
func newFileHeaders(t *testing.T, pairs ...string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for i := 0; i+1 < len(pairs); i += 2 {
		part, err := w.CreateFormFile("files", pairs[i])
		require.NoError(t, err)
		_, err = part.Write([]byte(pairs[i+1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

type mockUploadRecords struct {
	mu      sync.Mutex
	Records []model.UploadRecord
}

func (m *mockUploadRecords) Create(record *model.UploadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = uint(len(m.Records) + 1)
	m.Records = append(m.Records, *record)
	return nil
}

func (m *mockUploadRecords) FindByStatus(status model.UploadStatus) ([]model.UploadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.UploadRecord{}
	for _, r := range m.Records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockUploadRecords) CountByCategory(category string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.Records {
		if r.Category == category {
			n++
		}
	}
	return n, nil
}

func (m *mockUploadRecords) UpdateStatus(id uint, status model.UploadStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Records {
		if m.Records[i].ID == id {
			m.Records[i].Status = status
			return nil
		}
	}
	return util.ErrObjectNotFound
}

func (m *mockUploadRecords) CreateBatch(records []model.UploadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range records {
		records[i].ID = uint(len(m.Records) + 1)
		m.Records = append(m.Records, records[i])
	}
	return nil
}
