package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"civilpass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsCSVA = `title,source,date,url,summary,region,hotness
公务员待遇调整,人社部,2025-03-10,https://a/1,工资标准上调,全国,80
省考公告发布,省人事厅,2025-03-02,https://a/2,,江苏,40
,人社部,2025-03-01,https://a/3,缺标题,全国,10
`

const newsCSVB = `title,source,date,url
遴选工作通知,中组部,2025-02-20,https://b/1
重复链接,中组部,2025-02-21,https://a/1
`

// newTestNewsService 按 key, content 成对传入，保持写入顺序
func newTestNewsService(t *testing.T, files ...string) (*NewsService, *MockStorageProvider) {
	t.Helper()
	provider := NewMockStorageProvider()
	for i := 0; i+1 < len(files); i += 2 {
		provider.Put(files[i], []byte(files[i+1]))
	}
	return NewNewsService(NewStorageServiceWithProvider(provider, nil), time.Minute), provider
}

func TestNewsService_LoadMergesAndCleans(t *testing.T) {
	svc, _ := newTestNewsService(t,
		"政策咨询/a.csv", newsCSVA,
		"政策咨询/b.csv", newsCSVB,
		"政策咨询/bad.csv", "name,link\nx,y\n",
		"政策咨询/readme.md", "ignored",
	)

	items, warnings, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "公务员待遇调整", items[0].Title)
	assert.Equal(t, "a.csv", items[0].DataSource)
	assert.Equal(t, "省考公告发布", items[1].Title)
	assert.Equal(t, "暂无摘要", items[1].Summary)
	assert.Equal(t, "遴选工作通知", items[2].Title)
	assert.Equal(t, "全国", items[2].Region)
	assert.Zero(t, items[2].Hotness)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "bad.csv")
}

func TestNewsService_NoCSV(t *testing.T) {
	svc, _ := newTestNewsService(t, "政策咨询/x.txt", "x")
	_, _, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, util.ErrNoCSVFiles)
}

func TestNewsService_LoadIsCached(t *testing.T) {
	svc, provider := newTestNewsService(t, "政策咨询/a.csv", newsCSVA)
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	items, _, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	provider.Put("政策咨询/b.csv", []byte(newsCSVB))
	items, _, _ = svc.Load(context.Background())
	assert.Len(t, items, 2)

	now = now.Add(2 * time.Minute)
	items, _, _ = svc.Load(context.Background())
	assert.Len(t, items, 3)
}

func TestNewsService_QueryFiltersAndPaging(t *testing.T) {
	svc, _ := newTestNewsService(t,
		"政策咨询/a.csv", newsCSVA,
		"政策咨询/b.csv", newsCSVB,
	)
	ctx := context.Background()

	page, err := svc.Query(ctx, NewsQuery{Keyword: "待遇 遴选", Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 40.0, page.AverageHotness)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local)
	page, err = svc.Query(ctx, NewsQuery{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "省考公告发布", page.Items[0].Title)

	page, err = svc.Query(ctx, NewsQuery{Regions: []string{"江苏"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = svc.Query(ctx, NewsQuery{Sort: NewsSortOldest})
	require.NoError(t, err)
	assert.Equal(t, "遴选工作通知", page.Items[0].Title)

	page, err = svc.Query(ctx, NewsQuery{Sort: NewsSortSource})
	require.NoError(t, err)
	assert.Equal(t, "中组部", page.Items[0].Source)
	assert.Equal(t, []string{"中组部", "人社部", "省人事厅"}, page.Sources)
}

func TestNewsService_PageSizeFive(t *testing.T) {
	var b strings.Builder
	b.WriteString("title,source,date,url\n")
	for i := 0; i < 12; i++ {
		b.WriteString("t,s,2025-01-0" + string(rune('1'+i%9)) + ",https://x/" + string(rune('a'+i)) + "\n")
	}
	svc, _ := newTestNewsService(t, "政策咨询/x.csv", b.String())

	page, err := svc.Query(context.Background(), NewsQuery{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)

	page, err = svc.Query(context.Background(), NewsQuery{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 5)
}

func TestNewsService_Insights(t *testing.T) {
	svc, _ := newTestNewsService(t,
		"政策咨询/a.csv", newsCSVA,
		"政策咨询/b.csv", newsCSVB,
	)
	ins, err := svc.Insights(context.Background(), NewsQuery{})
	require.NoError(t, err)

	require.NotEmpty(t, ins.TopSources)
	assert.Equal(t, "中组部", ins.TopSources[0].Name)
	assert.Equal(t, 1, ins.TopSources[0].Count)

	// 2025-02-20 周四 → 02-23；03-02 周日；03-10 周一 → 03-16
	require.Len(t, ins.Weekly, 4)
	assert.Equal(t, "2025-02-23", ins.Weekly[0].WeekEnding)
	assert.Equal(t, 1, ins.Weekly[0].Count)
	assert.Equal(t, "2025-03-09", ins.Weekly[2].WeekEnding)
	assert.Equal(t, 0, ins.Weekly[2].Count)
	assert.Equal(t, "2025-03-16", ins.Weekly[3].WeekEnding)

	assert.Equal(t, "全国", ins.Regions[0].Name)
	assert.Equal(t, 2, ins.Regions[0].Count)
}

func TestNewsService_Export(t *testing.T) {
	svc, _ := newTestNewsService(t, "政策咨询/a.csv", newsCSVA)
	data, err := svc.Export(context.Background(), NewsQuery{Regions: []string{"江苏"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "title,source,date,url,summary,region,hotness,data_source", lines[0])
	assert.Equal(t, "省考公告发布,省人事厅,2025-03-02,https://a/2,暂无摘要,江苏,40,a.csv", lines[1])
}

func TestParseNewsCSV_ExcelBOMHeader(t *testing.T) {
	data := "\uFEFFtitle,source,date,url\n国考报名开始,国家公务员局,2025-10-15,https://c/1\n"

	items, err := ParseNewsCSV(strings.NewReader(data), "excel.csv")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "国考报名开始", items[0].Title)
	assert.Equal(t, "excel.csv", items[0].DataSource)
}
