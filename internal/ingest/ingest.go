package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"quizify/internal/logger"

	"github.com/ledongthuc/pdf"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
)

// Processor loads documents and splits them into chunks suitable for
// embedding into a collection. Plain text, markdown and PDF files are
// supported.
type Processor struct {
	chunkSize    int
	chunkOverlap int
}

// NewProcessor creates a Processor. Non-positive sizes fall back to
// 500/50, the splitter defaults used throughout.
func NewProcessor(chunkSize, chunkOverlap int) *Processor {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 {
		chunkOverlap = 50
	}
	return &Processor{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// LoadDirectory reads every supported document under dir (recursively)
// and returns the split chunks.
func (p *Processor) LoadDirectory(ctx context.Context, dir string) ([]string, error) {
	var chunks []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !supportedExt(filepath.Ext(path)) {
			return nil
		}

		fileChunks, loadErr := p.LoadFile(ctx, path)
		if loadErr != nil {
			return loadErr
		}
		chunks = append(chunks, fileChunks...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk documents directory %s: %w", dir, err)
	}

	logger.Get().Info("Documents ingested",
		zap.String("dir", dir),
		zap.Int("chunks", len(chunks)))
	return chunks, nil
}

// LoadFile reads one document and splits it into chunks. PDFs go
// through text extraction first; everything else is read as plain text.
func (p *Processor) LoadFile(ctx context.Context, path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return p.loadPDF(path)
	}
	return p.loadText(ctx, path)
}

func (p *Processor) loadText(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer f.Close()

	docs, err := documentloaders.NewText(f).LoadAndSplit(ctx, p.splitter())
	if err != nil {
		return nil, fmt.Errorf("failed to split document %s: %w", path, err)
	}

	chunks := make([]string, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.PageContent) == "" {
			continue
		}
		chunks = append(chunks, doc.PageContent)
	}
	return chunks, nil
}

func (p *Processor) loadPDF(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, fmt.Errorf("failed to read text from %s: %w", path, err)
	}

	pieces, err := p.splitter().SplitText(buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to split document %s: %w", path, err)
	}

	chunks := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, piece)
	}
	return chunks, nil
}

func (p *Processor) splitter() textsplitter.RecursiveCharacter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.chunkSize),
		textsplitter.WithChunkOverlap(p.chunkOverlap),
	)
}

func supportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".md", ".pdf":
		return true
	}
	return false
}
