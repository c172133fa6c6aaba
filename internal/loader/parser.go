package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"question-batcher/internal/models"
)

const defaultPageNumber = 1

// ParseDocument extracts the text of a local document as page-level chunks.
func ParseDocument(filePath string) ([]models.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".pptx":
		return parsePPTX(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	case ".ods":
		return parseODS(filePath)
	case ".txt", ".md":
		return parseText(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func parsePDF(filePath string) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		markdown, err := convertToMarkdown(pageText)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(markdown) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content:    markdown,
			PageNumber: i,
			ChunkID:    len(chunks) + 1,
		})
	}
	return chunks, nil
}

func parseDOCX(filePath string) ([]models.Chunk, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc := r.Editable()
	paragraphs := strings.Split(doc.GetContent(), "\n")
	var chunks []models.Chunk
	for _, p := range paragraphs {
		if p == "" {
			continue
		}
		markdown, err := convertToMarkdown(p)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(markdown) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content:    markdown,
			PageNumber: defaultPageNumber, // DOCX has no page numbers
			ChunkID:    len(chunks) + 1,
		})
	}
	return chunks, nil
}

func parsePPTX(filePath string) ([]models.Chunk, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []models.Chunk
	for slideNum, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		markdown, err := convertToMarkdown(extractTextFromXML(string(data)))
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(markdown) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content:    markdown,
			PageNumber: slideNum + 1, // 1-based indexing
			ChunkID:    len(chunks) + 1,
		})
	}
	return chunks, nil
}

func parseXLSX(filePath string) ([]models.Chunk, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		markdown, err := convertToMarkdown(text.String())
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(markdown) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content:    markdown,
			PageNumber: sheetNum + 1, // 1-based indexing
			ChunkID:    len(chunks) + 1,
		})
	}
	return chunks, nil
}

func parseODS(filePath string) ([]models.Chunk, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []models.Chunk
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("## Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		markdown, err := convertToMarkdown(text.String())
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(markdown) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Content:    markdown,
			PageNumber: sheetNum + 1, // 1-based indexing
			ChunkID:    len(chunks) + 1,
		})
	}
	return chunks, nil
}

func parseText(filePath string) ([]models.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	markdown, err := convertToMarkdown(string(data))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(markdown) == "" {
		return nil, nil
	}
	return []models.Chunk{{
		Content:    markdown,
		PageNumber: defaultPageNumber, // TXT has no pages
		ChunkID:    1,
	}}, nil
}

func convertToMarkdown(text string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return strings.Trim(buf.String(), " \t\n\r"), nil
}

func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}
