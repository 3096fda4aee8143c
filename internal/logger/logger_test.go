package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
)

func TestWithContextAttachesAttributes(t *testing.T) {
	var buf bytes.Buffer
	output = &buf
	defer func() { output = os.Stdout; defaultLogger = nil }()
	Init("debug", "json")

	ctx := NewContext(context.Background(), "request_id", "abc")
	ctx = NewContext(ctx, "user_id", int64(42))
	WithContext(ctx).Info("hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if rec["request_id"] != "abc" {
		t.Fatalf("request_id = %v", rec["request_id"])
	}
	if rec["user_id"] != float64(42) {
		t.Fatalf("user_id = %v", rec["user_id"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug": "DEBUG",
		"WARN":  "WARN",
		"error": "ERROR",
		"":      "INFO",
		"bogus": "INFO",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s; want %s", in, got, want)
		}
	}
}
