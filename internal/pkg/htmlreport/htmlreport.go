//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package htmlreport

import (
	"bytes"
	"fmt"
	"html"
	"os"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// ToHTML converts a Markdown report into a standalone HTML page
func ToHTML(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	body := markdown.ToHTML(md, p, nil)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, pageTemplate, html.EscapeString(title), body)
	return buf.Bytes()
}

// Save writes the HTML version of a Markdown report to path
func Save(path string, title string, md []byte) error {
	err := os.WriteFile(path, ToHTML(title, md), 0644)
	if err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}
