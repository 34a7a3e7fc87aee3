package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/geet/internal/formatter"
	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/services"
	"github.com/desertthunder/geet/internal/shared"
	"golang.org/x/time/rate"
)

// DiscographyExportOpts contains configuration for discography exports.
type DiscographyExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: {artist}_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// AlbumExportResult records the outcome of exporting one album.
type AlbumExportResult struct {
	AlbumName string   `json:"album_name"`
	Success   bool     `json:"success"`
	Files     []string `json:"files,omitempty"`
	Error     error    `json:"-"`
	ErrorText string   `json:"error,omitempty"`
}

// DiscographyExportResult summarizes a discography export.
type DiscographyExportResult struct {
	Artist            string              `json:"artist"`
	TotalAlbums       int                 `json:"total_albums"`
	SuccessfulExports int                 `json:"successful_exports"`
	FailedExports     int                 `json:"failed_exports"`
	OutputDirectory   string              `json:"output_directory"`
	ManifestPath      string              `json:"manifest_path,omitempty"`
	Format            string              `json:"format"`
	ExportedAt        time.Time           `json:"exported_at"`
	Results           []AlbumExportResult `json:"results"`
}

type albumExportJob struct {
	Ref    models.AlbumRef
	Export *models.AlbumExport
}

// ExportDiscography fetches an artist's albums with their reviews and writes
// them to disk concurrently with rate limiting and progress tracking.
//
// A producer goroutine fetches album details and reviews under a shared rate
// limiter while a worker pool formats and writes files. Partial failures are
// recorded in the manifest rather than aborting the export.
func (e *FlowEngine) ExportDiscography(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	srv services.Service,
	artistName string,
	opts DiscographyExportOpts,
) (*DiscographyExportResult, error) {
	if srv == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if artistName == "" {
		return nil, fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("%s_export_%d", formatter.Slug(artistName), time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, fetchArtistUpdate(artistName))
	albums, err := srv.Albums(ctx, artistName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discography: %w", err)
	}
	e.sendProgress(prog, fetchAlbumsUpdate(artistName, len(albums)))

	result := &DiscographyExportResult{
		Artist:          artistName,
		TotalAlbums:     len(albums),
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		ExportedAt:      time.Now(),
		Results:         make([]AlbumExportResult, 0, len(albums)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan albumExportJob, len(albums))
	results := make(chan AlbumExportResult, len(albums))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, ref := range albums {
			select {
			case <-ctx.Done():
				return
			default:
			}

			e.sendProgress(prog, exportingAlbumUpdate(i+1, len(albums), ref))

			export, err := e.fetchAlbumExport(ctx, srv, artistName, ref, limiter)
			if err != nil {
				results <- AlbumExportResult{
					AlbumName: ref.Name,
					Success:   false,
					Error:     err,
					ErrorText: err.Error(),
				}
				continue
			}

			jobs <- albumExportJob{Ref: ref, Export: export}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(albums), res.AlbumName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(albums), res.AlbumName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetchAlbumExport fetches one album's details and reviews under the limiter.
func (e *FlowEngine) fetchAlbumExport(
	ctx context.Context,
	srv services.Service,
	artistName string,
	ref models.AlbumRef,
	limiter *rate.Limiter,
) (*models.AlbumExport, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	album, err := srv.AlbumDetails(ctx, artistName, ref.Name, ref.MBID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album details: %w", err)
	}

	export := &models.AlbumExport{Album: *album}

	// Reviews are keyed by the opaque id; skip them when the catalog entry
	// has none.
	if ref.MBID != "" {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		reviews, err := srv.Reviews(ctx, ref.MBID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reviews: %w", err)
		}
		export.Reviews = reviews
	}

	return export, nil
}

// exportWorker is a worker goroutine that writes album exports from the jobs channel.
func (e *FlowEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan albumExportJob,
	results chan<- AlbumExportResult,
	opts DiscographyExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- writeAlbumExport(job, opts)
	}
}

// writeAlbumExport writes a single album export in the configured format.
func writeAlbumExport(j albumExportJob, opts DiscographyExportOpts) AlbumExportResult {
	result := AlbumExportResult{
		AlbumName: j.Export.Album.Title,
		Success:   false,
		Files:     []string{},
	}
	stem := formatter.Slug(j.Export.Album.Title)

	fail := func(err error) AlbumExportResult {
		result.Error = err
		result.ErrorText = err.Error()
		return result
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, stem)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			return fail(fmt.Errorf("CSV export failed: %w", err))
		}
		result.Files = []string{csvRes.ReviewsFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, stem)
		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir, j.Ref.CoverURL())
		if err != nil {
			return fail(fmt.Errorf("markdown export failed: %w", err))
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, stem+"_reviews.txt")
		path, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			return fail(fmt.Errorf("text export failed: %w", err))
		}
		result.Files = []string{path}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, stem+".json")
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			return fail(fmt.Errorf("JSON marshal failed: %w", err))
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			return fail(fmt.Errorf("JSON write failed: %w", err))
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
