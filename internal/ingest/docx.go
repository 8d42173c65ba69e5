package ingest

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

func extractDocx(path string) (string, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx %s: %w", path, err)
	}
	defer rc.Close()

	body, err := readZipFile(rc.File, docxBody)
	if err != nil {
		return "", fmt.Errorf("read docx %s: %w", path, err)
	}

	return docxText(body)
}

func readZipFile(files []*zip.File, target string) ([]byte, error) {
	for _, f := range files {
		if f == nil || !strings.EqualFold(f.Name, target) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", target)
}

// docxText returns body paragraphs first, then table rows with cells joined by " | ".
func docxText(body []byte) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(string(body)))

	var (
		paragraphs []string
		rows       []string
		row        []string
		cell       []string
		text       strings.Builder
		tableDepth int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBody, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "p":
				text.Reset()
			case "t":
				inText = true
			case "tab":
				text.WriteString(" ")
			case "br", "cr":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				p := strings.TrimSpace(text.String())
				text.Reset()
				if p == "" {
					continue
				}
				if tableDepth > 0 {
					cell = append(cell, p)
				} else {
					paragraphs = append(paragraphs, p)
				}
			case "tc":
				if c := strings.Join(cell, " "); c != "" {
					row = append(row, c)
				}
				cell = nil
			case "tr":
				if len(row) > 0 {
					rows = append(rows, strings.Join(row, " | "))
				}
				row = nil
			case "tbl":
				tableDepth--
			}
		}
	}

	return strings.Join(append(paragraphs, rows...), "\n"), nil
}
