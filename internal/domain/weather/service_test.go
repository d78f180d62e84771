package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherchat/internal/domain/language"
	apperrors "github.com/yanqian/weatherchat/pkg/errors"
)

func TestServiceCurrent(t *testing.T) {
	provider := &stubProvider{snap: Snapshot{Name: "Tokyo", TempC: 22}}
	svc := NewService(provider, newTestLogger())

	snap, err := svc.Current(context.Background(), Query{City: "Tokyo"})
	require.NoError(t, err)
	require.Equal(t, "Tokyo", snap.Name)
	require.Equal(t, "Tokyo", provider.last.City)
}

func TestServiceErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewService(nil, newTestLogger()).Current(ctx, Query{City: "Tokyo"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))

	_, err = NewService(&stubProvider{}, newTestLogger()).Current(ctx, Query{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = NewService(&stubProvider{err: fmt.Errorf("wrap: %w", ErrNotFound)}, newTestLogger()).Current(ctx, Query{City: "Atlantis"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = NewService(&stubProvider{err: errors.New("dial tcp: timeout")}, newTestLogger()).Current(ctx, Query{City: "Tokyo"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeWeatherUnavailable))
}

func TestGatewayCollapsesFailures(t *testing.T) {
	ctx := context.Background()

	gw := NewGateway(&stubProvider{err: errors.New("boom")}, nil, newTestLogger())
	require.Nil(t, gw.Fetch(ctx, Query{City: "Tokyo"}))

	gw = NewGateway(&stubProvider{err: ErrNotFound}, nil, newTestLogger())
	require.Nil(t, gw.Fetch(ctx, Query{City: "Nowhere"}))

	gw = NewGateway(nil, nil, newTestLogger())
	require.Nil(t, gw.Fetch(ctx, Query{City: "Tokyo"}))

	provider := &stubProvider{snap: Snapshot{Name: "Delhi"}}
	gw = NewGateway(provider, nil, newTestLogger())
	snap := gw.Fetch(ctx, Query{City: "Delhi"})
	require.NotNil(t, snap)
	require.Equal(t, "Delhi", snap.Name)
	require.Equal(t, 1, provider.calls)
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery("35.68, 139.69", language.Japanese)
	require.True(t, q.HasCoordinates())
	require.InDelta(t, 35.68, *q.Lat, 1e-9)
	require.InDelta(t, 139.69, *q.Lon, 1e-9)
	require.Equal(t, language.Japanese, q.Lang)

	q = ParseQuery(" New York ", language.English)
	require.False(t, q.HasCoordinates())
	require.Equal(t, "New York", q.City)

	q = ParseQuery("135,500", language.English)
	require.False(t, q.HasCoordinates())
	require.Equal(t, "135,500", q.City)
}

func TestEmoji(t *testing.T) {
	require.Equal(t, "🌧️", Emoji("Rain"))
	require.Equal(t, "🌤️", Emoji("Unknown"))
}

type stubProvider struct {
	snap  Snapshot
	err   error
	calls int
	last  Query
}

func (s *stubProvider) Current(ctx context.Context, q Query) (Snapshot, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return Snapshot{}, s.err
	}
	return s.snap, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
