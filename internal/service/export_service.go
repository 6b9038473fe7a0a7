package service

import (
	"strings"

	"github.com/haierkeys/entry-board-service/internal/domain"
	"github.com/haierkeys/entry-board-service/pkg/util"
)

// ExportService defines the entry export interface
// ExportService 定义条目导出接口
// 产物是自包含的 HTML 文档，仅用于展示，无格式兼容约束
type ExportService interface {
	// ExportHTML renders an entry as a standalone HTML document
	// ExportHTML 把条目渲染为独立 HTML 文档
	ExportHTML(e *domain.Entry) []byte

	// FileName returns a safe download file name for an entry
	// FileName 返回条目的下载文件名
	FileName(e *domain.Entry) string
}

// exportService implementation of ExportService interface
// exportService 实现 ExportService 接口
type exportService struct{}

// NewExportService creates ExportService instance
// NewExportService 创建 ExportService 实例
func NewExportService() ExportService {
	return &exportService{}
}

// ExportHTML renders an entry as a standalone HTML document
// ExportHTML 把条目渲染为独立 HTML 文档
// 标题与正文全部转义，链接渲染为列表
func (s *exportService) ExportHTML(e *domain.Entry) []byte {
	var b strings.Builder
	title := util.EscapeHTML(e.Title)

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(title)
	b.WriteString("</title>\n</head>\n<body>\n<h1>")
	b.WriteString(title)
	b.WriteString("</h1>\n")

	if e.Body != "" {
		b.WriteString("<p>")
		b.WriteString(util.EscapeHTMLMultiline(e.Body))
		b.WriteString("</p>\n")
	}

	if len(e.Links) > 0 {
		b.WriteString("<ul>\n")
		for _, link := range e.Links {
			b.WriteString("<li><a href=\"")
			b.WriteString(util.EscapeHTML(link.URL))
			b.WriteString("\">")
			b.WriteString(util.EscapeHTML(link.Title))
			b.WriteString("</a></li>\n")
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

// FileName returns a safe download file name for an entry
// FileName 返回条目的下载文件名
// 标题中的路径分隔符替换为下划线，空标题回退为 entry
func (s *exportService) FileName(e *domain.Entry) string {
	name := strings.TrimSpace(e.Title)
	if name == "" {
		name = "entry"
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return name + ".html"
}
