package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/applytrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

// TextExtractor pulls plain text out of scanned or binary documents.
type TextExtractor interface {
	ExtractText(ctx context.Context, mimeType string, data []byte) (string, error)
	Close() error
}

type DocumentConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
	Credentials string
	MaxRetries  int
}

func (c DocumentConfig) Configured() bool {
	return strings.TrimSpace(c.ProjectID) != "" && strings.TrimSpace(c.ProcessorID) != ""
}

type documentExtractor struct {
	log        *logger.Logger
	client     *documentai.DocumentProcessorClient
	processor  string
	maxRetries int
}

func NewDocumentExtractor(ctx context.Context, log *logger.Logger, cfg DocumentConfig) (TextExtractor, error) {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "us"
	}
	name := processorName(cfg.ProjectID, location, cfg.ProcessorID)
	if name == "" {
		return nil, fmt.Errorf("missing DOCUMENTAI_PROJECT_ID or DOCUMENTAI_PROCESSOR_ID")
	}
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptions(cfg.Credentials)...)
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	dl := log.With("service", "gcp.DocumentAI")
	dl.Info("Document AI initialized", "endpoint", endpoint, "processor", name)
	return &documentExtractor{log: dl, client: client, processor: name, maxRetries: max(cfg.MaxRetries, 0)}, nil
}

func (d *documentExtractor) ExtractText(ctx context.Context, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 2*time.Minute)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: d.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{Content: data, MimeType: mimeType},
		},
	}
	resp, err := retryTransient(ctx, d.maxRetries, 750*time.Millisecond, func() (*documentaipb.ProcessResponse, error) {
		return d.client.ProcessDocument(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	if resp == nil {
		return "", nil
	}
	return documentText(resp.GetDocument()), nil
}

func (d *documentExtractor) Close() error { return d.client.Close() }

// retryTransient retries fn while it fails with a retryable gRPC status,
// doubling the backoff up to 10s.
func retryTransient[T any](ctx context.Context, maxRetries int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var last error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
			return zero, err
		}
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return zero, last
}

// documentText renders each page as its paragraphs followed by its tables
// in markdown. It falls back to the raw text when the processor returned
// no layout.
func documentText(doc *documentaipb.Document) string {
	if doc == nil {
		return ""
	}
	var out []string
	for _, p := range doc.GetPages() {
		var lines []string
		for _, para := range p.GetParagraphs() {
			if t := collapseWhitespace(textFromAnchor(doc.GetText(), para.GetLayout().GetTextAnchor())); t != "" {
				lines = append(lines, t)
			}
		}
		for _, table := range p.GetTables() {
			if md := strings.TrimSpace(tableToMarkdown(doc.GetText(), table)); md != "" {
				lines = append(lines, md)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	if len(out) == 0 {
		return strings.TrimSpace(doc.GetText())
	}
	return strings.Join(out, "\n\n")
}

func textFromAnchor(full string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil || full == "" {
		return ""
	}
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start, end := int(seg.GetStartIndex()), int(seg.GetEndIndex())
		if end > len(full) {
			end = len(full)
		}
		if start < 0 || start >= end {
			continue
		}
		b.WriteString(full[start:end])
	}
	return b.String()
}

func tableToMarkdown(full string, t *documentaipb.Document_Page_Table) string {
	if t == nil {
		return ""
	}
	body := t.GetBodyRows()
	var header []string
	if hr := t.GetHeaderRows(); len(hr) > 0 {
		header = rowCells(full, hr[0])
	} else if len(body) > 0 {
		header, body = rowCells(full, body[0]), body[1:]
	}
	if len(header) == 0 {
		return ""
	}
	rows := [][]string{header}
	for _, r := range body {
		rows = append(rows, rowCells(full, r))
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		padded := make([]string, cols)
		for i, c := range cells {
			padded[i] = strings.ReplaceAll(c, "|", "\\|")
		}
		b.WriteString("| " + strings.Join(padded, " | ") + " |\n")
	}
	writeRow(rows[0])
	sep := make([]string, cols)
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, r := range rows[1:] {
		writeRow(r)
	}
	return b.String()
}

func rowCells(full string, r *documentaipb.Document_Page_Table_TableRow) []string {
	out := make([]string, 0, len(r.GetCells()))
	for _, c := range r.GetCells() {
		out = append(out, collapseWhitespace(textFromAnchor(full, c.GetLayout().GetTextAnchor())))
	}
	return out
}

func processorName(project, location, processorID string) string {
	project = strings.TrimSpace(project)
	location = strings.TrimSpace(location)
	processorID = strings.TrimSpace(processorID)
	if project == "" || location == "" || processorID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processorID)
}
