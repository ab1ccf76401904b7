package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"sispar/pkg/config"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

var supportedReceiptFormats = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// OCRService extracts text from receipt images and PDFs.
// Images go through tesseract; PDFs use the embedded text layer when one
// exists and fall back to rendering each page and running tesseract on it.
type OCRService struct {
	languages []string
	logger    *zap.Logger
}

func NewOCRService(cfg *config.OCRConfig, logger *zap.Logger) *OCRService {
	languages := strings.Split(cfg.Languages, ",")
	for i := range languages {
		languages[i] = strings.TrimSpace(languages[i])
	}
	return &OCRService{
		languages: languages,
		logger:    logger,
	}
}

// ExtractText runs OCR over an image or PDF file and returns the
// recognized text. Supported formats: .jpg, .jpeg, .png, .pdf.
func (s *OCRService) ExtractText(ctx context.Context, filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !supportedReceiptFormats[ext] {
		return "", fmt.Errorf("unsupported file format: %s (supported: jpg, jpeg, png, pdf)", ext)
	}

	var text string
	var err error
	if ext == ".pdf" {
		text, err = s.extractTextFromPDF(filePath)
	} else {
		text, err = s.recognizeImageFile(filePath)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	s.logger.Info("OCR extraction completed",
		zap.String("file", filePath),
		zap.Int("text_length", len(text)),
	)

	if text == "" {
		return "", fmt.Errorf("no text extracted from %s", filePath)
	}
	return text, nil
}

func (s *OCRService) recognizeImageFile(path string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR languages: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR recognition failed: %w", err)
	}
	return text, nil
}

func (s *OCRService) recognizeImageBytes(data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.languages...); err != nil {
		return "", fmt.Errorf("failed to set OCR languages: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR recognition failed: %w", err)
	}
	return text, nil
}

func (s *OCRService) extractTextFromPDF(pdfPath string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var builder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", pdfPath),
				zap.Error(err),
			)
			continue
		}

		// Scanned PDFs carry no text layer; render the page and OCR it.
		if strings.TrimSpace(pageText) == "" {
			pageText, err = s.recognizePDFPage(doc, i)
			if err != nil {
				s.logger.Warn("Failed to OCR rendered page",
					zap.Int("page", i+1),
					zap.String("file", pdfPath),
					zap.Error(err),
				)
				continue
			}
		}

		if pageText != "" {
			builder.WriteString(pageText)
			builder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("no text found in PDF")
	}
	return text, nil
}

func (s *OCRService) recognizePDFPage(doc *fitz.Document, page int) (string, error) {
	img, err := doc.Image(page)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode page image: %w", err)
	}
	return s.recognizeImageBytes(buf.Bytes())
}

// RenderFirstPagePNG renders a PDF's first page to PNG bytes, for sending
// PDFs to the vision vendor as an image.
func RenderFirstPagePNG(pdfPath string) ([]byte, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("failed to render first page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	return buf.Bytes(), nil
}
