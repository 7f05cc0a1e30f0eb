package dashboard

import (
	"context"
	"testing"
)

func TestBootstrapThroughFacade(t *testing.T) {
	ctx := context.Background()
	components, err := Bootstrap(ctx, BootstrapOptions{Storage: NewMemoryStorage()})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	var cfg Configuration = components.Service.Configuration(ctx)
	if len(cfg.Views) == 0 {
		t.Fatalf("expected default views")
	}
	if got := len(components.Service.Widgets(ctx)); got != 6 {
		t.Fatalf("expected 6 default widgets, got %d", got)
	}
}
