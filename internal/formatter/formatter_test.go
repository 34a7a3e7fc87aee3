package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/geet/internal/models"
)

func sampleExport() *models.AlbumExport {
	return &models.AlbumExport{
		Album: models.Album{
			Title:       "OK Computer",
			Artist:      "Radiohead",
			Description: "Third studio album.",
			Tracks:      []models.Track{{Name: "Airbag"}, {Name: "Paranoid Android"}},
		},
		Reviews: []models.Review{
			{ReviewID: "r1", AlbumName: "OK Computer", ArtistName: "Radiohead", Username: "thom", Rating: 5, ReviewText: "essential", Created: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			{ReviewID: "r2", AlbumName: "OK Computer", ArtistName: "Radiohead", Username: "beth", Rating: 3},
		},
	}
}

func TestStars(t *testing.T) {
	cases := []struct {
		rating int
		want   string
	}{
		{5, "★★★★★"},
		{3, "★★★☆☆"},
		{1, "★☆☆☆☆"},
		{0, "☆☆☆☆☆"},
		{9, "★★★★★"},
	}

	for _, c := range cases {
		if got := Stars(c.rating); got != c.want {
			t.Errorf("Stars(%d): expected %s, got %s", c.rating, c.want, got)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"OK Computer":  "ok-computer",
		"AC/DC":        "ac-dc",
		"Kid A":        "kid-a",
		"...":          "untitled",
		"In Rainbows!": "in-rainbows",
	}

	for input, want := range cases {
		if got := Slug(input); got != want {
			t.Errorf("Slug(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestReviewsToCSV(t *testing.T) {
	data, err := ReviewsToCSV(sampleExport().Reviews)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[1][3] != "thom" || records[1][4] != "5" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if records[1][6] != "2025-06-01T12:00:00Z" {
		t.Errorf("expected an RFC3339 timestamp, got %q", records[1][6])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleExport(), "cover.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := string(data)
	for _, want := range []string{"# OK Computer", "**Artist**: Radiohead", "![Cover](cover.jpg)", "1. Airbag", "### thom ★★★★★", "essential"} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Album: OK Computer") || !strings.Contains(text, "1. thom [5/5] essential") {
		t.Errorf("unexpected text output:\n%s", text)
	}
}

func TestWriteCSVExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ok-computer")
	result, err := WriteCSVExport(sampleExport(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ReviewsFile != base+"_reviews.csv" {
		t.Errorf("unexpected reviews file %s", result.ReviewsFile)
	}
	if result.MetadataFile != base+"_metadata.json" {
		t.Errorf("unexpected metadata file %s", result.MetadataFile)
	}
}
