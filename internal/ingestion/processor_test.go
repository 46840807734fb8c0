package ingestion

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interview-studio/backend/internal/storage/models"
	"github.com/interview-studio/backend/internal/storage/sqlite"
)

func newTestProcessor(t *testing.T) (*Processor, *sqlite.Client) {
	t.Helper()

	db, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitSchema())
	return NewProcessor(db), db
}

func TestIngestHTMLParagraphs(t *testing.T) {
	processor, db := newTestProcessor(t)

	html := `
		<html><head><style>p { color: red }</style></head><body>
		<nav>Home | About</nav>
		<p>Five years of backend experience.</p>
		<p>  </p>
		<ul><li>Go and PostgreSQL</li><li>Kubernetes</li></ul>
		<script>alert("x")</script>
		<footer>contact me</footer>
		</body></html>
	`
	texts, err := processor.IngestHTML(models.ParentResume, "cv-1", html)
	require.NoError(t, err)
	require.Len(t, texts, 3)
	assert.Equal(t, "Five years of backend experience.", texts[0].Body)
	assert.Equal(t, "Go and PostgreSQL", texts[1].Body)
	assert.Equal(t, "Kubernetes", texts[2].Body)

	stored, err := db.ListTextsByParent(models.ParentResume, "cv-1")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestIngestHTMLWithoutParagraphs(t *testing.T) {
	processor, _ := newTestProcessor(t)

	texts, err := processor.IngestHTML(models.ParentJobDescription, "jd-1",
		"<div>We hire Go engineers. Remote friendly.</div>")
	require.NoError(t, err)
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[0].Body, "We hire Go engineers.")
}

func TestIngestPlainTextChunking(t *testing.T) {
	processor, _ := newTestProcessor(t)

	// Sentences of ~120 chars each; ten of them exceed one 1000-char chunk.
	sentence := "The candidate shipped a distributed ingestion pipeline handling several thousand events per second in production use."
	content := strings.Repeat(sentence+" ", 10)

	texts, err := processor.IngestPlainText(models.ParentResume, "cv-1", content)
	require.NoError(t, err)
	require.Greater(t, len(texts), 1)
	for _, text := range texts {
		assert.LessOrEqual(t, len(text.Body), 1000)
		assert.NotEmpty(t, strings.TrimSpace(text.Body))
	}
}

func TestIngestPlainTextShort(t *testing.T) {
	processor, _ := newTestProcessor(t)

	texts, err := processor.IngestPlainText(models.ParentQuestion, "q-1",
		"Go was designed at Google. It favors simplicity.")
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Equal(t, "Go was designed at Google. It favors simplicity.", texts[0].Body)
}

func TestIngestSkipsDuplicateFragments(t *testing.T) {
	processor, _ := newTestProcessor(t)

	html := `<p>Go and PostgreSQL</p><p>Kubernetes</p><p>Go and PostgreSQL</p>`
	texts, err := processor.IngestHTML(models.ParentResume, "cv-1", html)
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Equal(t, "Go and PostgreSQL", texts[0].Body)
	assert.Equal(t, "Kubernetes", texts[1].Body)
}

func TestIngestInvalidParentKind(t *testing.T) {
	processor, _ := newTestProcessor(t)

	_, err := processor.IngestPlainText("session", "x", "Some text.")
	require.ErrorIs(t, err, models.ErrInvalidInput)
}
