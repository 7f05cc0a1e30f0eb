package dashboard

import (
	"context"

	"go.uber.org/zap"
)

// ToastVariant is the severity of a user notification.
type ToastVariant string

const (
	ToastSuccess ToastVariant = "success"
	ToastError   ToastVariant = "error"
	ToastInfo    ToastVariant = "info"
)

// Toast is a transient user-visible notification.
type Toast struct {
	Variant     ToastVariant `json:"variant"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
}

// Notifier surfaces toasts to the user.
type Notifier interface {
	Notify(ctx context.Context, toast Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, toast Toast)

func (f NotifierFunc) Notify(ctx context.Context, toast Toast) { f(ctx, toast) }

// Notifiers fans a toast out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, toast Toast) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, toast)
		}
	}
}

// LogNotifier writes toasts to a zap logger; useful for the CLI.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify logs error toasts at warn level and the rest at info.
func (n LogNotifier) Notify(_ context.Context, toast Toast) {
	if n.Logger == nil {
		return
	}
	fields := []zap.Field{zap.String("variant", string(toast.Variant))}
	if toast.Description != "" {
		fields = append(fields, zap.String("description", toast.Description))
	}
	if toast.Variant == ToastError {
		n.Logger.Warn(toast.Title, fields...)
		return
	}
	n.Logger.Info(toast.Title, fields...)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Toast) {}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
