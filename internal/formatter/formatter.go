// package formatter provides functions to export album and review data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
)

// Stars renders a 1-5 rating as filled and empty star glyphs.
func Stars(rating int) string {
	if rating < models.MinRating {
		rating = 0
	}
	if rating > models.MaxRating {
		rating = models.MaxRating
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", models.MaxRating-rating)
}

// Slug converts a display name into a filesystem-safe file stem.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// ReviewsToCSV converts reviews to CSV with columns: ID, Album, Artist, User, Rating, Review, Created
func ReviewsToCSV(reviews []models.Review) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Album", "Artist", "User", "Rating", "Review", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, review := range reviews {
		record := []string{
			review.ReviewID,
			review.AlbumName,
			review.ArtistName,
			review.Username,
			strconv.Itoa(review.Rating),
			review.ReviewText,
			review.Created.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an AlbumExport to Markdown format with optional cover image
func ExportToMarkdown(export *models.AlbumExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Album.Title))
	buf.WriteString(fmt.Sprintf("**Artist**: %s\n\n", export.Album.Artist))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if export.Album.Description != "" {
		buf.WriteString(fmt.Sprintf("%s\n\n", export.Album.Description))
	}

	if len(export.Album.Tracks) > 0 {
		buf.WriteString("## Tracks\n\n")
		for i, track := range export.Album.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, track.Name))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(fmt.Sprintf("## Reviews (%d)\n\n", len(export.Reviews)))
	for _, review := range export.Reviews {
		buf.WriteString(fmt.Sprintf("### %s %s\n\n", review.Username, Stars(review.Rating)))
		if review.ReviewText != "" {
			buf.WriteString(fmt.Sprintf("%s\n\n", review.ReviewText))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts an AlbumExport to plain text format
func ExportToText(export *models.AlbumExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Album: %s\n", export.Album.Title))
	buf.WriteString(fmt.Sprintf("Artist: %s\n", export.Album.Artist))
	buf.WriteString(fmt.Sprintf("Reviews: %d\n\n", len(export.Reviews)))

	for i, review := range export.Reviews {
		buf.WriteString(fmt.Sprintf("%d. %s [%d/5] %s\n", i+1, review.Username, review.Rating, review.ReviewText))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of album metadata (without reviews)
func ToMetadataJSON(album models.Album) ([]byte, error) {
	return shared.MarshalJSON(album, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ReviewsFile  string
	MetadataFile string
}

// WriteCSVExport writes an album's reviews as CSV plus a JSON metadata sidecar.
func WriteCSVExport(export *models.AlbumExport, baseFilepath string) (*CSVExportResult, error) {
	csvData, err := ReviewsToCSV(export.Reviews)
	if err != nil {
		return nil, err
	}

	reviewsFile := baseFilepath + "_reviews.csv"
	if err := os.WriteFile(reviewsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadata, err := ToMetadataJSON(export.Album)
	if err != nil {
		return nil, err
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadata, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{ReviewsFile: reviewsFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains the paths of files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Files []string
}

// WriteMarkdownExport writes an album export as a Markdown document in its own
// directory, downloading the cover image alongside when a URL is given.
func WriteMarkdownExport(export *models.AlbumExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &MarkdownExportResult{}

	imageFilename := ""
	if imageURL != "" {
		if imageData, err := DownloadImage(imageURL); err == nil {
			imageFilename = "cover" + filepath.Ext(imageURL)
			if filepath.Ext(imageURL) == "" {
				imageFilename = "cover.jpg"
			}
			imagePath := filepath.Join(outputDir, imageFilename)
			if err := os.WriteFile(imagePath, imageData, 0644); err == nil {
				result.Files = append(result.Files, imagePath)
			} else {
				imageFilename = ""
			}
		}
	}

	markdown, err := ExportToMarkdown(export, imageFilename)
	if err != nil {
		return nil, err
	}

	markdownPath := filepath.Join(outputDir, Slug(export.Album.Title)+".md")
	if err := os.WriteFile(markdownPath, markdown, 0644); err != nil {
		return nil, fmt.Errorf("failed to write markdown file: %w", err)
	}

	result.Files = append(result.Files, markdownPath)
	return result, nil
}

// WriteTextExport writes an album export as plain text and returns the path.
func WriteTextExport(export *models.AlbumExport, path string) (string, error) {
	text, err := ExportToText(export)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, text, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
