// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/geet/internal/models"
)

// MockService is a test double for [services.Service]
type MockService struct {
	ArtistList []models.Artist
	AlbumList  []models.AlbumRef
	ReviewList []models.Review
	Err        error
}

func (m *MockService) Artists(ctx context.Context) ([]models.Artist, error) {
	return m.ArtistList, m.Err
}
func (m *MockService) Artist(ctx context.Context, name string) (*models.Artist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Artist{Name: name}, nil
}
func (m *MockService) AddArtist(ctx context.Context, artist models.Artist) (*models.Artist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &artist, nil
}
func (m *MockService) Albums(ctx context.Context, artistName string) ([]models.AlbumRef, error) {
	return m.AlbumList, m.Err
}
func (m *MockService) AlbumDetails(ctx context.Context, artistName, albumName, id string) (*models.Album, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Album{Title: albumName, Artist: artistName}, nil
}
func (m *MockService) Reviews(ctx context.Context, albumID string) ([]models.Review, error) {
	return m.ReviewList, m.Err
}
func (m *MockService) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &review, nil
}
func (m *MockService) UpdateReview(ctx context.Context, id string, rating int, text string) (*models.Review, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Review{ReviewID: id, Rating: rating, ReviewText: text}, nil
}
func (m *MockService) DeleteReview(ctx context.Context, id string) error { return m.Err }
func (m *MockService) MyReviews(ctx context.Context) ([]models.Review, error) {
	return m.ReviewList, m.Err
}
func (m *MockService) UserReviews(ctx context.Context, username string) ([]models.Review, error) {
	return m.ReviewList, m.Err
}
func (m *MockService) Profile(ctx context.Context) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.User{Username: "mock"}, nil
}
func (m *MockService) UpdateBio(ctx context.Context, bio string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.User{Username: "mock", Bio: bio}, nil
}
func (m *MockService) User(ctx context.Context, username string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.User{Username: username}, nil
}
func (m *MockService) Name() string { return "mock" }

// MockSessions is a test double for [views.SessionSource]
type MockSessions struct {
	Session models.Session
}

func (m *MockSessions) Current() *models.Session { return &m.Session }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
