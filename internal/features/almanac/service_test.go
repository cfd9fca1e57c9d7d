package almanac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyLine_FetchesBetweenMarkers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>мусор Сегодня благоприятно: дорога. Сегодня неблагоприятно: споры ещё мусор</html>"))
	}))
	defer srv.Close()

	s := NewService(Config{
		URL:        srv.URL,
		MarkerFrom: "Сегодня благоприятно",
		MarkerTo:   "неблагоприятно: споры",
		Timeout:    2 * time.Second,
	}, time.UTC)

	line := s.DailyLine(context.Background())
	assert.True(t, strings.HasPrefix(line, "Сегодня благоприятно"))
	assert.True(t, strings.HasSuffix(line, "неблагоприятно: споры"))
}

func TestDailyLine_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewService(Config{URL: srv.URL, MarkerFrom: "x", MarkerTo: "y", Timeout: 2 * time.Second}, time.UTC)

	line := s.DailyLine(context.Background())
	assert.Contains(t, line, "Благоприятно:")
	assert.Contains(t, line, "Неблагоприятно:")
}

func TestDailyLine_FallsBackWithoutURL(t *testing.T) {
	s := NewService(Config{}, time.UTC)

	line := s.DailyLine(context.Background())
	assert.Contains(t, line, "Благоприятно:")
}

func TestDailyLine_UsesCacheOnSecondCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("от и до"))
	}))
	defer srv.Close()

	s := NewService(Config{URL: srv.URL, MarkerFrom: "от", MarkerTo: "до", Timeout: 2 * time.Second}, time.UTC)

	first := s.DailyLine(context.Background())
	second := s.DailyLine(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}
