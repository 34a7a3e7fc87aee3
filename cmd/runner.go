package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/geet/internal/repositories"
	"github.com/desertthunder/geet/internal/services"
	"github.com/desertthunder/geet/internal/shared"
	"github.com/desertthunder/geet/internal/tasks"
	"github.com/desertthunder/geet/internal/views"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Service
	lastfm     *services.LastFMService
	accounts   services.AccountService
	donations  services.DonationService
	api        *services.APIService
	sessions   *repositories.SessionRepository
	cache      *repositories.ArtistCacheRepository
	dispatch   *views.Dispatcher
	engine     *tasks.FlowEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Service
	LastFM     *services.LastFMService
	Accounts   services.AccountService
	Donations  services.DonationService
	API        *services.APIService
	Sessions   *repositories.SessionRepository
	Cache      *repositories.ArtistCacheRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	engine := tasks.NewFlowEngine(opts.Accounts, opts.Donations)

	var dispatch *views.Dispatcher
	if opts.Sessions != nil {
		dispatch = views.NewDispatcher(opts.Sessions)
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		lastfm:     opts.LastFM,
		accounts:   opts.Accounts,
		donations:  opts.Donations,
		api:        opts.API,
		sessions:   opts.Sessions,
		cache:      opts.Cache,
		dispatch:   dispatch,
		engine:     engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, accountCommand, artistsCommand, albumsCommand, reviewsCommand, donateCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// promptLine prints the prompt and reads one line from the runner's input.
func (r *Runner) promptLine(prompt string) (string, error) {
	if err := r.writePlain("%s", prompt); err != nil {
		return "", err
	}
	reader := bufio.NewReader(r.input)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question and returns whether the user answered yes.
func (r *Runner) confirm(prompt string) bool {
	answer, err := r.promptLine(prompt)
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
