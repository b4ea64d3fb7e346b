package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"STT", "Môn học", "TC", "Điểm (10)"},
		Rows: []map[string]string{
			{"STT": "1", "Môn học": "Kinh tế vi mô", "TC": "3", "Điểm (10)": "8.5"},
			{"STT": "2", "Môn học": "Giáo dục thể chất (*)", "TC": "1"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"STT", "Môn học", "TC", "Điểm (10)"}, records[0])
	assert.Equal(t, []string{"2", "Giáo dục thể chất (*)", "1", ""}, records[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterByteOrderMark(t *testing.T) {
	plain, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(plain, utf8BOM))

	marked, err := NewCSVExporter(WithUTF8BOM()).Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(marked, utf8BOM))
	assert.Equal(t, plain, marked[len(utf8BOM):])
}

func TestPDFExporterRenderDocument(t *testing.T) {
	doc := Document{
		Title:    "Bảng kết quả học tập",
		Subtitle: "Ngày xuất: 15/10/2026",
		Fields: []Field{
			{Label: "Họ và tên", Value: "Trần Quốc Hoàng"},
			{Label: "Ngành", Value: "Kinh doanh quốc tế"},
			{Label: "Khóa", Value: "K10"},
		},
		Headline: "GPA (hệ 4): 3.40",
		Sections: []Section{
			{Heading: "Năm 1 - Học kỳ 1", Summary: "GPA(4): 3.40", Data: sampleDataset(), Widths: []float64{15, 115, 30, 30}},
			{Heading: "Năm 1 - Học kỳ 2", Data: sampleDataset()},
		},
		Footer: "HUB Grade Planner",
	}

	out, err := NewPDFExporter().RenderDocument(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Transcript")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, "empty")
	assert.Error(t, err)

	_, err = NewPDFExporter().RenderDocument(Document{Title: "nothing"})
	assert.Error(t, err)
}

func TestColumnWidthsFallback(t *testing.T) {
	widths := columnWidths(Section{Data: Dataset{Headers: []string{"a", "b"}}, Widths: []float64{10}})
	assert.Equal(t, []float64{95, 95}, widths)
}
