package handler

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/seatrans/seatrans/prompt"
	"github.com/seatrans/seatrans/translate"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestHandler(inv translate.Invoker) *Handler {
	prov := translate.DefaultProviders()[translate.ProviderSeaLion]
	h := New(prov, inv, quietLogger())
	h.Fetch = func(ctx context.Context, source string) (string, error) {
		if strings.HasSuffix(source, "/missing") {
			return "", errors.New("status 404")
		}
		return "Fetched one. Fetched two.", nil
	}
	return h
}

var echo = translate.InvokerFunc(func(ctx context.Context, req prompt.Request, model string) (string, error) {
	return "<" + req.Content + ">", nil
})

func TestHandle(t *testing.T) {
	h := newTestHandler(echo)

	tests := []struct {
		name      string
		req       Request
		want      string
		wantErr   string
		wantCount int
	}{
		{
			name:      "inline text",
			req:       Request{Text: "Hello world! How are you? Fine.", TargetLanguage: "Thai", ChunkChars: 10},
			want:      "<Hello world!>\n<How are you?>\n<Fine.>\n",
			wantCount: 3,
		},
		{
			name:      "url",
			req:       Request{URL: "https://example.com/book.txt", TargetLanguage: "id", PoolSize: 1},
			want:      "<Fetched one. Fetched two.>\n",
			wantCount: 1,
		},
		{
			name:      "bilingual",
			req:       Request{Text: "Hi.", TargetLanguage: "tamil", Bilingual: true},
			want:      "### English ###\nHi.\n\n### Translation ###\n<Hi.>\n",
			wantCount: 1,
		},
		{name: "bad language", req: Request{Text: "x", TargetLanguage: "french"}, wantErr: "unsupported language"},
		{name: "bad model", req: Request{Text: "x", TargetLanguage: "thai", Model: "gpt-4"}, wantErr: "unsupported model"},
		{name: "no input", req: Request{TargetLanguage: "thai"}, wantErr: "required"},
		{name: "both inputs", req: Request{Text: "x", URL: "https://e.com", TargetLanguage: "thai"}, wantErr: "only one"},
		{name: "file url", req: Request{URL: "/etc/passwd", TargetLanguage: "thai"}, wantErr: "http"},
		{name: "download failure", req: Request{URL: "https://e.com/missing", TargetLanguage: "thai"}, wantErr: "download failed"},
		{name: "bad budget", req: Request{Text: "x", TargetLanguage: "thai", ChunkChars: -1}, wantErr: "max chars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.Handle(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Handle() returned a function error: %v", err)
			}
			if tt.wantErr != "" {
				if !strings.Contains(resp.Error, tt.wantErr) {
					t.Fatalf("Error = %q, want substring %q", resp.Error, tt.wantErr)
				}
				return
			}
			if resp.Error != "" {
				t.Fatalf("unexpected Error: %s", resp.Error)
			}
			if resp.Translation != tt.want {
				t.Errorf("Translation = %q, want %q", resp.Translation, tt.want)
			}
			if resp.Chunks != tt.wantCount {
				t.Errorf("Chunks = %d, want %d", resp.Chunks, tt.wantCount)
			}
			if resp.Model != translate.DefaultModel {
				t.Errorf("Model = %q", resp.Model)
			}
		})
	}
}

func TestHandle_RemoteFailure(t *testing.T) {
	failing := translate.InvokerFunc(func(context.Context, prompt.Request, string) (string, error) {
		return "", errors.New("503 service unavailable")
	})
	resp, err := newTestHandler(failing).Handle(context.Background(), Request{Text: "One.", TargetLanguage: "thai"})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if resp.Translation != "" || !strings.Contains(resp.Error, "chunk 0") {
		t.Fatalf("response = %#v", resp)
	}
}

func TestHandleChunk(t *testing.T) {
	var gotReq prompt.Request
	var gotModel string
	inv := translate.InvokerFunc(func(ctx context.Context, req prompt.Request, model string) (string, error) {
		gotReq, gotModel = req, model
		return "Sawasdee", nil
	})
	h := newTestHandler(inv)

	resp, err := h.HandleChunk(context.Background(), translate.LambdaRequest{System: "sys", Content: "Hello", Model: ""})
	if err != nil {
		t.Fatalf("HandleChunk() error: %v", err)
	}
	if resp.Translation != "Sawasdee" || resp.Error != "" {
		t.Errorf("response = %#v", resp)
	}
	if gotReq.System != "sys" || gotReq.Content != "Hello" || gotModel != translate.DefaultModel {
		t.Errorf("invoker got %#v, %q", gotReq, gotModel)
	}

	if resp, _ := h.HandleChunk(context.Background(), translate.LambdaRequest{System: "s", Content: " "}); resp.Error == "" {
		t.Error("empty content should be rejected")
	}
}

func TestRoute(t *testing.T) {
	h := newTestHandler(echo)

	out, err := h.Route(context.Background(), []byte(`{"system":"s","content":"Hi","model":""}`))
	if err != nil {
		t.Fatalf("Route(chunk) error: %v", err)
	}
	chunkResp, ok := out.(*translate.LambdaResponse)
	if !ok || chunkResp.Translation != "<Hi>" {
		t.Fatalf("Route(chunk) = %#v", out)
	}

	out, err = h.Route(context.Background(), []byte(`{"text":"Hi.","targetLanguage":"vietnamese"}`))
	if err != nil {
		t.Fatalf("Route(document) error: %v", err)
	}
	docResp, ok := out.(*Response)
	if !ok || docResp.Translation != "<Hi.>\n" || docResp.Language != "vietnamese" {
		t.Fatalf("Route(document) = %#v", out)
	}

	if _, err := h.Route(context.Background(), []byte(`not json`)); err == nil {
		t.Error("Route(invalid) expected error")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("SEATRANS_API_KEY", "")

	t.Run("lambda refused", func(t *testing.T) {
		t.Setenv(EnvProvider, "lambda")
		if _, err := FromEnv(context.Background(), quietLogger()); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(EnvProvider, "")
		t.Setenv("SEA_LION_API_KEY", "")
		if _, err := FromEnv(context.Background(), quietLogger()); err == nil {
			t.Fatal("expected error without API key")
		}
	})

	t.Run("configured", func(t *testing.T) {
		t.Setenv(EnvProvider, "sealion")
		t.Setenv("SEA_LION_API_KEY", "k")
		t.Setenv(EnvBaseURL, "http://localhost:9999/v1")
		t.Setenv(EnvPoolSize, "3")
		h, err := FromEnv(context.Background(), quietLogger())
		if err != nil {
			t.Fatalf("FromEnv() error: %v", err)
		}
		if h.Provider.BaseURL != "http://localhost:9999/v1" || h.PoolSize != 3 {
			t.Errorf("handler = %#v", h)
		}
		if _, ok := h.Invoker.(*translate.Client); !ok {
			t.Errorf("invoker = %T, want *translate.Client", h.Invoker)
		}
	})
}
