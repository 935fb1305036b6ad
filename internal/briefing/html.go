// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package briefing

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageCSS = `body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#f8fafc;color:#0f172a;margin:0;padding:1rem;}
.wrap{max-width:960px;margin:0 auto;background:#fff;padding:1.5rem 2rem;border:1px solid #e2e8f0;border-radius:8px;}
h1{margin-top:0;font-size:1.6rem;}
h2{border-bottom:2px solid #0f766e;padding-bottom:0.25rem;margin-top:2rem;}
h3{font-size:1.05rem;margin-bottom:0.4rem;}
a{color:#1d4ed8;text-decoration:none;}
a:hover{text-decoration:underline;}
table{border-collapse:collapse;margin:0.5rem 0 1rem;}
th,td{border:1px solid #cbd5e1;padding:0.3rem 0.8rem;text-align:left;}
thead th{background:#f1f5f9;}
code{background:#ccfbf1;color:#115e59;border-radius:999px;padding:0.1rem 0.55rem;font-size:0.8rem;font-family:inherit;}
blockquote{margin:0.5rem 0;padding:0.4rem 0.8rem;border-left:3px solid #0f766e;background:#f0fdfa;}
ul{padding-left:1.2rem;}`

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the page as a standalone HTML document.
func HTML(p Page) (string, error) {
	return toHTML(p.Title, Markdown(p))
}

func toHTML(title, md string) (string, error) {
	var content strings.Builder
	if err := markdown.Convert([]byte(md), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html lang='en'><head><meta charset='utf-8'>" +
		"<meta name='viewport' content='width=device-width,initial-scale=1'>" +
		"<title>" + html.EscapeString(title) + "</title>" +
		"<style>" + pageCSS + "</style></head><body><div class='wrap'>" +
		content.String() +
		"</div></body></html>\n", nil
}

// Write renders the page into dir as index.html and briefing.md, creating
// dir if needed.
func Write(dir string, p Page) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	md := Markdown(p)
	doc, err := toHTML(p.Title, md)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, MarkdownFile), []byte(md), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", MarkdownFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, HTMLFile), []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", HTMLFile, err)
	}
	return nil
}
