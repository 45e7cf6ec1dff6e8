package cronrunner

import (
	"context"
	"testing"
)

func TestAddSpecValidation(t *testing.T) {
	r := New(nil, context.Background())
	if _, err := r.Add("nightly-retrain", "0 0 2 * * *", func(context.Context) {}); err != nil {
		t.Fatalf("six-field spec rejected: %v", err)
	}
	if _, err := r.Add("forecast-refresh", "@hourly", func(context.Context) {}); err != nil {
		t.Fatalf("descriptor spec rejected: %v", err)
	}
	if _, err := r.Add("bad", "0 2 * * *", func(context.Context) {}); err == nil {
		t.Fatal("five-field spec accepted; seconds column is required")
	}
}
