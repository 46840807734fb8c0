package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
	"github.com/interview-studio/backend/pkg/logger"
	"github.com/interview-studio/backend/pkg/utils"
)

// Processor turns raw résumé and job-description documents into Text
// fragments keyed by their parent entity, the shape the question-generation
// workflow consumes.
type Processor struct {
	db            *sqlite.Client
	maxChunkChars int
}

func NewProcessor(db *sqlite.Client) *Processor {
	return &Processor{db: db, maxChunkChars: 1000}
}

// IngestHTML extracts paragraph fragments from an HTML document and stores
// one Text per non-empty paragraph.
func (p *Processor) IngestHTML(kind models.ParentKind, parentID, htmlContent string) ([]*models.Text, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, nav, header, footer").Remove()

	fragments := make([]string, 0)
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			fragments = append(fragments, text)
		}
	})
	if len(fragments) == 0 {
		// Markup without paragraph structure still has usable text.
		if body := strings.TrimSpace(doc.Text()); body != "" {
			return p.IngestPlainText(kind, parentID, body)
		}
	}

	return p.storeFragments(kind, parentID, fragments)
}

// IngestPlainText segments free text into sentences and packs them into
// bounded chunks, one Text per chunk.
func (p *Processor) IngestPlainText(kind models.ParentKind, parentID, content string) ([]*models.Text, error) {
	doc, err := prose.NewDocument(content,
		prose.WithExtraction(false),
		prose.WithTagging(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to segment text: %w", err)
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range doc.Sentences() {
		text := strings.TrimSpace(sentence.Text)
		if text == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(text)+1 > p.maxChunkChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(text)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return p.storeFragments(kind, parentID, chunks)
}

func (p *Processor) storeFragments(kind models.ParentKind, parentID string, fragments []string) ([]*models.Text, error) {
	texts := make([]*models.Text, 0, len(fragments))
	seen := make(map[string]struct{}, len(fragments))
	for _, fragment := range fragments {
		// Repeated fragments within one document are stored once.
		key := utils.HashStrings(string(kind), parentID, fragment)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		text := &models.Text{
			ID:         uuid.NewString(),
			ParentKind: kind,
			ParentID:   parentID,
			Body:       fragment,
		}
		if err := p.db.InsertText(text); err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}

	logger.Info("Document ingested",
		zap.String("parent_kind", string(kind)),
		zap.String("parent_id", parentID),
		zap.Int("fragments", len(texts)),
	)
	return texts, nil
}
