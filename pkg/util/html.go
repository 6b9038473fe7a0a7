package util

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes HTML special characters in a string
// EscapeHTML 转义字符串中的 HTML 特殊字符
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeHTMLMultiline escapes a text block and converts newlines to <br>
// EscapeHTMLMultiline 转义文本块并把换行转换为 <br>
// 用于把用户输入的正文安全地嵌入导出的文档
func EscapeHTMLMultiline(s string) string {
	escaped := EscapeHTML(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br>\n")
}
