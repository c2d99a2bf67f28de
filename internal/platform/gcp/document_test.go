package gcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

func layout(start, end int64) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{TextAnchor: anchor(start, end)}
}

func TestDocumentTextUsesParagraphsAndTables(t *testing.T) {
	full := "Jane Doe\nSenior  Engineer\nSkill|Years\nGo|6\n"
	doc := &documentaipb.Document{
		Text: full,
		Pages: []*documentaipb.Document_Page{{
			Paragraphs: []*documentaipb.Document_Page_Paragraph{
				{Layout: layout(0, 8)},
				{Layout: layout(9, 25)},
			},
			Tables: []*documentaipb.Document_Page_Table{{
				HeaderRows: []*documentaipb.Document_Page_Table_TableRow{{
					Cells: []*documentaipb.Document_Page_Table_TableCell{{Layout: layout(26, 31)}, {Layout: layout(32, 37)}},
				}},
				BodyRows: []*documentaipb.Document_Page_Table_TableRow{{
					Cells: []*documentaipb.Document_Page_Table_TableCell{{Layout: layout(38, 40)}},
				}},
			}},
		}},
	}

	got := documentText(doc)
	want := "Jane Doe\nSenior Engineer\n| Skill | Years |\n| --- | --- |\n| Go |  |"
	if got != want {
		t.Fatalf("documentText:\n%q\nwant\n%q", got, want)
	}
}

func TestDocumentTextFallsBackToRawText(t *testing.T) {
	doc := &documentaipb.Document{Text: "  plain text only \n"}
	if got := documentText(doc); got != "plain text only" {
		t.Fatalf("got %q", got)
	}
	if documentText(nil) != "" {
		t.Fatalf("nil document should be empty")
	}
}

func TestTextFromAnchorClampsOutOfRange(t *testing.T) {
	if got := textFromAnchor("abc", anchor(1, 99)); got != "bc" {
		t.Fatalf("got %q", got)
	}
	if got := textFromAnchor("abc", anchor(2, 1)); got != "" {
		t.Fatalf("inverted range should be empty, got %q", got)
	}
}

func TestTableEscapesPipes(t *testing.T) {
	full := "a|b"
	md := tableToMarkdown(full, &documentaipb.Document_Page_Table{
		BodyRows: []*documentaipb.Document_Page_Table_TableRow{{
			Cells: []*documentaipb.Document_Page_Table_TableCell{{Layout: layout(0, 3)}},
		}},
	})
	if !strings.HasPrefix(md, `| a\|b |`) {
		t.Fatalf("unexpected markdown %q", md)
	}
}

func TestProcessorName(t *testing.T) {
	if got := processorName("p", "eu", "abc"); got != "projects/p/locations/eu/processors/abc" {
		t.Fatalf("got %q", got)
	}
	if processorName("", "eu", "abc") != "" {
		t.Fatalf("expected empty name without project")
	}
	if (DocumentConfig{ProjectID: "p"}).Configured() {
		t.Fatalf("config without processor should not be configured")
	}
}

func TestRetryTransientRetriesUnavailable(t *testing.T) {
	calls := 0
	got, err := retryTransient(context.Background(), 2, time.Millisecond, func() (string, error) {
		calls++
		if calls < 3 {
			return "", status.Error(codes.Unavailable, "busy")
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("got=%q err=%v", got, err)
	}
	if calls != 3 {
		t.Fatalf("calls=%d want 3", calls)
	}
}

func TestRetryTransientStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := retryTransient(context.Background(), 5, time.Millisecond, func() (string, error) {
		calls++
		return "", status.Error(codes.InvalidArgument, "bad pdf")
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("err=%v", err)
	}
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
}

func TestRetryTransientGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	_, err := retryTransient(context.Background(), 1, time.Millisecond, func() (int, error) {
		calls++
		return 0, status.Error(codes.ResourceExhausted, "quota")
	})
	if status.Code(err) != codes.ResourceExhausted || calls != 2 {
		t.Fatalf("calls=%d err=%v", calls, err)
	}
}
