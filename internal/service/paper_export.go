package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RenderMarkdown 把组装好的试卷渲染为 Markdown 文档。
// 对同一份试卷重复渲染得到完全相同的文本
func RenderMarkdown(paper *AssembledPaper) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", paper.Title)
	if paper.DurationMinutes > 0 {
		fmt.Fprintf(&b, "**Duration:** %d minutes  \n", paper.DurationMinutes)
	}
	fmt.Fprintf(&b, "**Total Marks:** %d\n\n", paper.GrandTotal)

	for _, section := range paper.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Heading)
		fmt.Fprintf(&b, "_%s_ (%d marks each, %d marks total)\n\n",
			section.Note, section.MarksPerQuestion, section.SectionTotal)

		for i, question := range section.Questions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, question.Content)
			for j, option := range question.OptionList() {
				fmt.Fprintf(&b, "   %c) %s\n", 'A'+j, option)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PaperExporter 把试卷导出到配置的存储后端
type PaperExporter struct {
	storage *StorageService
}

func NewPaperExporter(storage *StorageService) *PaperExporter {
	return &PaperExporter{storage: storage}
}

// Export 渲染并上传试卷，返回可访问的 URL
func (e *PaperExporter) Export(ctx context.Context, paper *AssembledPaper) (string, error) {
	content := RenderMarkdown(paper)
	filename := fmt.Sprintf("papers/%s.md", uuid.New().String())
	reader := strings.NewReader(content)
	return e.storage.Upload(ctx, filename, reader, int64(len(content)), "text/markdown")
}
