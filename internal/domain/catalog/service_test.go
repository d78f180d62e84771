package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weatherchat/pkg/errors"
)

func TestListModels(t *testing.T) {
	lister := &stubLister{models: []Model{{Name: "models/gemini-2.5-flash"}}}
	svc := NewService(Config{Provider: "gemini", Model: "gemini-2.5-flash"}, lister, newTestLogger())

	listing, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "gemini", listing.Provider)
	require.Equal(t, "gemini-2.5-flash", listing.Active)
	require.Len(t, listing.Models, 1)
}

func TestListModelsErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewService(Config{}, nil, newTestLogger()).List(ctx)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))

	_, err = NewService(Config{}, &stubLister{err: errors.New("403")}, newTestLogger()).List(ctx)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLM))

	listing, err := NewService(Config{}, &stubLister{}, newTestLogger()).List(ctx)
	require.NoError(t, err)
	require.NotNil(t, listing.Models)
}

type stubLister struct {
	models []Model
	err    error
}

func (s *stubLister) ListModels(ctx context.Context) ([]Model, error) {
	return s.models, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
