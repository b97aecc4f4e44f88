package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// 未开启 WithUnsafe，正文中的原始 HTML 不会输出
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Render 论坛正文转为安全的 HTML
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
