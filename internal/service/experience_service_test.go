package service

import (
	"context"
	"testing"
	"time"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceService_Upload(t *testing.T) {
	provider := NewMockStorageProvider()
	records := &mockUploadRecords{}
	svc := NewExperienceService(NewStorageServiceWithProvider(provider, nil), records)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	files := newFileHeaders(t,
		"行测 图形推理.pdf", "%PDF-1.4",
		"错题.png", "png",
		"notes.docx", "doc",
	)
	res, err := svc.Upload(context.Background(), ExperienceTypeNotes, files)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Success)
	require.Len(t, res.Failed, 1)
	assert.Contains(t, res.Failed[0], "notes.docx")

	assert.Equal(t, []string{"学习笔记/1700000000_行测_图形推理.pdf", "学习笔记/1700000000_错题.png"}, provider.Keys())
	require.Len(t, records.Records, 2)
	assert.Equal(t, model.UploadPending, records.Records[0].Status)
	assert.False(t, records.Records[0].ByAdmin)
}

func TestExperienceService_UploadRejectsUnknownType(t *testing.T) {
	svc := NewExperienceService(NewStorageServiceWithProvider(NewMockStorageProvider(), nil), nil)
	_, err := svc.Upload(context.Background(), "高分经验", newFileHeaders(t, "a.pdf", "x"))
	assert.ErrorIs(t, err, util.ErrInvalidCategory)
}

func TestExperienceService_UploadRejectsLargeFile(t *testing.T) {
	assert.NoError(t, checkExperienceFile(newFileHeaders(t, "a.pdf", "x")[0]))

	fh := newFileHeaders(t, "big.pdf", "x")[0]
	fh.Size = MaxExperienceFileSize + 1
	assert.ErrorIs(t, checkExperienceFile(fh), util.ErrFileTooLarge)
}

func TestExperienceService_List(t *testing.T) {
	provider := NewMockStorageProvider()
	provider.Put("错题集/", nil)
	provider.Put("错题集/1700000000_资料分析_错题.pdf", []byte("x"))
	provider.Put("错题集/1700000001_截图.jpg", []byte("x"))
	provider.Put("学习笔记/1700000002_笔记.pdf", []byte("x"))

	svc := NewExperienceService(NewStorageServiceWithProvider(provider, nil), nil)
	files, err := svc.List(context.Background(), ExperienceTypeMistake)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "资料分析_错题.pdf", files[0].Name)
	assert.Equal(t, model.KindPDF, files[0].Type)
	assert.Equal(t, "截图.jpg", files[1].Name)
	assert.Equal(t, model.KindImage, files[1].Type)

	_, err = svc.List(context.Background(), "未知")
	assert.ErrorIs(t, err, util.ErrInvalidCategory)
}
