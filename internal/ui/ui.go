package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/geet/internal/formatter"
	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/services"
	"github.com/desertthunder/geet/internal/views"
)

// ViewState represents the current screen in the TUI.
type ViewState int

const (
	ArtistListView ViewState = iota
	ArtistDetailView
	AlbumDetailView
	ReviewFormView
	ConfirmDeleteView
	ProfileView
)

// Model represents the TUI application state. Each screen that loads remote
// data owns a [views.Fetcher] so re-renders never re-issue requests and slow
// responses for screens the user already left are dropped.
type Model struct {
	ctx        context.Context
	view       ViewState
	catalog    services.Service
	dispatcher *views.Dispatcher

	width  int
	height int

	artists  *views.Fetcher[struct{}, []models.Artist]
	artistPg *views.Fetcher[string, artistPage]
	albumPg  *views.Fetcher[albumKey, albumPage]
	profile  *views.Fetcher[struct{}, models.User]

	artistList list.Model
	albumList  list.Model
	reviewList list.Model

	selectedArtist string
	selectedAlbum  albumKey
	reviews        []models.Review

	formRating int
	formInput  textinput.Model
	editingID  string

	pendingDelete models.Review

	bioInput   textinput.Model
	bioEditing bool

	notice string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a TUI model backed by the given catalog service and
// mutation dispatcher.
func NewModel(ctx context.Context, catalog services.Service, dispatcher *views.Dispatcher) *Model {
	reviewInput := textinput.New()
	reviewInput.Placeholder = "What did you think?"
	reviewInput.CharLimit = 500

	bioInput := textinput.New()
	bioInput.Placeholder = "Tell listeners about yourself"
	bioInput.CharLimit = 300

	m := &Model{
		ctx:        ctx,
		view:       ArtistListView,
		catalog:    catalog,
		dispatcher: dispatcher,
		artistList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		albumList:  list.New(nil, list.NewDefaultDelegate(), 0, 0),
		reviewList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		formInput:  reviewInput,
		bioInput:   bioInput,
		help:       help.New(),
		keys:       newKeyMap(),
	}

	m.artists = views.NewFetcher(func(ctx context.Context, _ struct{}) (*[]models.Artist, error) {
		artists, err := catalog.Artists(ctx)
		if err != nil {
			return nil, err
		}
		return &artists, nil
	})

	m.artistPg = views.NewFetcher(func(ctx context.Context, name string) (*artistPage, error) {
		artist, err := catalog.Artist(ctx, name)
		if err != nil {
			return nil, err
		}
		albums, err := catalog.Albums(ctx, name)
		if err != nil {
			return nil, err
		}
		return &artistPage{Artist: *artist, Albums: albums}, nil
	})

	m.albumPg = views.NewFetcher(func(ctx context.Context, key albumKey) (*albumPage, error) {
		album, err := catalog.AlbumDetails(ctx, key.Artist, key.Album, key.ID)
		if err != nil {
			return nil, err
		}
		page := albumPage{Album: *album}
		if key.ID != "" {
			reviews, err := catalog.Reviews(ctx, key.ID)
			if err != nil {
				return nil, err
			}
			page.Reviews = reviews
		}
		return &page, nil
	})

	m.profile = views.NewFetcher(func(ctx context.Context, _ struct{}) (*models.User, error) {
		return catalog.Profile(ctx)
	})

	return m
}

// Init starts the artist catalog fetch.
func (m *Model) Init() tea.Cmd {
	return m.fetchArtists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.artistList.SetSize(msg.Width-4, msg.Height-8)
		m.albumList.SetSize(msg.Width-4, msg.Height-8)
		m.reviewList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ArtistListView:
			return m.handleArtistListKeys(msg)
		case ArtistDetailView:
			return m.handleArtistDetailKeys(msg)
		case AlbumDetailView:
			return m.handleAlbumDetailKeys(msg)
		case ReviewFormView:
			return m.handleReviewFormKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmDeleteKeys(msg)
		case ProfileView:
			return m.handleProfileKeys(msg)
		}

	case artistsLoadedMsg:
		if payload, ok := msg.result.Payload(); ok {
			items := make([]list.Item, len(*payload))
			for i, a := range *payload {
				items[i] = artistItem{artist: a}
			}
			m.artistList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
			m.artistList.Title = "Artists"
		}
		return m, nil

	case artistLoadedMsg:
		if payload, ok := msg.result.Payload(); ok {
			items := make([]list.Item, len(payload.Albums))
			for i, alb := range payload.Albums {
				items[i] = albumItem{album: alb}
			}
			m.albumList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
			m.albumList.Title = fmt.Sprintf("Albums by %s", payload.Artist.Name)
		}
		return m, nil

	case albumLoadedMsg:
		if payload, ok := msg.result.Payload(); ok {
			m.setReviews(payload.Reviews)
		}
		return m, nil

	case reviewsChangedMsg:
		if msg.err != nil {
			m.notice = styles.err.Render(msg.err.Error())
			return m, nil
		}
		m.setReviews(msg.reviews)
		m.notice = styles.ok.Render("Saved")
		m.view = AlbumDetailView
		return m, nil

	case profileLoadedMsg:
		return m, nil

	case bioSavedMsg:
		if msg.err != nil {
			m.notice = styles.err.Render(msg.err.Error())
			return m, nil
		}
		m.bioEditing = false
		m.notice = styles.ok.Render("Bio updated")
		return m, m.reloadProfile()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ArtistListView:
		return m.renderArtistList()
	case ArtistDetailView:
		return m.renderArtistDetail()
	case AlbumDetailView:
		return m.renderAlbumDetail()
	case ReviewFormView:
		return m.renderReviewForm()
	case ConfirmDeleteView:
		return m.renderConfirmDelete()
	case ProfileView:
		return m.renderProfile()
	default:
		return ""
	}
}

func (m *Model) setReviews(reviews []models.Review) {
	m.reviews = reviews
	items := make([]list.Item, len(reviews))
	for i, r := range reviews {
		items[i] = reviewItem{review: r}
	}
	m.reviewList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-12)
	m.reviewList.Title = fmt.Sprintf("Reviews (%d)", len(reviews))
	m.reviewList.SetShowHelp(false)
}

func (m *Model) handleArtistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.reloadArtists()
	case key.Matches(msg, m.keys.profile):
		m.view = ProfileView
		return m, m.fetchProfile()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.artistList.SelectedItem().(artistItem); ok {
			m.selectedArtist = item.artist.Name
			m.view = ArtistDetailView
			return m, m.fetchArtist(item.artist.Name)
		}
	}

	var cmd tea.Cmd
	m.artistList, cmd = m.artistList.Update(msg)
	return m, cmd
}

func (m *Model) handleArtistDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ArtistListView
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.reloadArtist()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			m.selectedAlbum = albumKey{
				Artist: m.selectedArtist,
				Album:  item.album.Name,
				ID:     item.album.MBID,
			}
			m.view = AlbumDetailView
			m.notice = ""
			return m, m.fetchAlbum(m.selectedAlbum)
		}
	}

	var cmd tea.Cmd
	m.albumList, cmd = m.albumList.Update(msg)
	return m, cmd
}

func (m *Model) handleAlbumDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ArtistDetailView
		m.notice = ""
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.reloadAlbum()
	case key.Matches(msg, m.keys.review):
		if err := m.dispatcher.Authorize(); err != nil {
			m.notice = styles.warn.Render(err.Error())
			return m, nil
		}
		m.startReviewForm(nil)
		return m, nil
	case key.Matches(msg, m.keys.edit):
		if r, ok := m.ownSelectedReview(); ok {
			m.startReviewForm(&r)
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if r, ok := m.ownSelectedReview(); ok {
			m.pendingDelete = r
			m.view = ConfirmDeleteView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.reviewList, cmd = m.reviewList.Update(msg)
	return m, cmd
}

// ownSelectedReview returns the selected review when the session user owns
// it. Edit and delete affordances do nothing on other users' reviews.
func (m *Model) ownSelectedReview() (models.Review, bool) {
	item, ok := m.reviewList.SelectedItem().(reviewItem)
	if !ok {
		return models.Review{}, false
	}
	if !item.review.OwnedBy(m.dispatcher.Username()) {
		m.notice = styles.warn.Render("You can only change your own reviews")
		return models.Review{}, false
	}
	return item.review, true
}

func (m *Model) startReviewForm(existing *models.Review) {
	m.editingID = ""
	m.formRating = 0
	m.formInput.SetValue("")
	if existing != nil {
		m.editingID = existing.ReviewID
		m.formRating = existing.Rating
		m.formInput.SetValue(existing.ReviewText)
	}
	m.formInput.Blur()
	m.notice = ""
	m.view = ReviewFormView
}

func (m *Model) handleReviewFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.formInput.Focused() {
		switch msg.String() {
		case "esc":
			m.formInput.Blur()
			return m, nil
		case "enter":
			m.formInput.Blur()
			return m, m.submitReview()
		}
		var cmd tea.Cmd
		m.formInput, cmd = m.formInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = AlbumDetailView
		return m, nil
	case "1", "2", "3", "4", "5":
		m.formRating, _ = strconv.Atoi(msg.String())
		return m, nil
	case "tab", "i":
		return m, m.formInput.Focus()
	case "enter":
		return m, m.submitReview()
	}
	return m, nil
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = AlbumDetailView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = AlbumDetailView
		return m, m.deleteReview(m.pendingDelete.ReviewID)
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.bioEditing {
		switch msg.String() {
		case "esc":
			m.bioEditing = false
			m.bioInput.Blur()
			return m, nil
		case "enter":
			m.bioInput.Blur()
			return m, m.saveBio()
		}
		var cmd tea.Cmd
		m.bioInput, cmd = m.bioInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ArtistListView
		m.notice = ""
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.reloadProfile()
	case key.Matches(msg, m.keys.edit):
		if payload, ok := m.profile.Result().Payload(); ok {
			m.bioInput.SetValue(payload.Bio)
			m.bioEditing = true
			return m, m.bioInput.Focus()
		}
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ArtistListView:
		m.artistList, cmd = m.artistList.Update(msg)
	case ArtistDetailView:
		m.albumList, cmd = m.albumList.Update(msg)
	case AlbumDetailView:
		m.reviewList, cmd = m.reviewList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchArtists() tea.Cmd {
	req, ok := m.artists.Begin(struct{}{})
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return artistsLoadedMsg{result: req.Run(m.ctx)}
	}
}

func (m *Model) reloadArtists() tea.Cmd {
	req, ok := m.artists.Reload()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return artistsLoadedMsg{result: req.Run(m.ctx)}
	}
}

func (m *Model) fetchArtist(name string) tea.Cmd {
	req, ok := m.artistPg.Begin(name)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return artistLoadedMsg{name: name, result: req.Run(m.ctx)}
	}
}

func (m *Model) reloadArtist() tea.Cmd {
	req, ok := m.artistPg.Reload()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return artistLoadedMsg{name: req.Params(), result: req.Run(m.ctx)}
	}
}

func (m *Model) fetchAlbum(key albumKey) tea.Cmd {
	req, ok := m.albumPg.Begin(key)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return albumLoadedMsg{key: key, result: req.Run(m.ctx)}
	}
}

func (m *Model) reloadAlbum() tea.Cmd {
	req, ok := m.albumPg.Reload()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return albumLoadedMsg{key: req.Params(), result: req.Run(m.ctx)}
	}
}

func (m *Model) fetchProfile() tea.Cmd {
	req, ok := m.profile.Begin(struct{}{})
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return profileLoadedMsg{result: req.Run(m.ctx)}
	}
}

func (m *Model) reloadProfile() tea.Cmd {
	req, ok := m.profile.Reload()
	if !ok {
		return m.fetchProfile()
	}
	return func() tea.Msg {
		return profileLoadedMsg{result: req.Run(m.ctx)}
	}
}

func (m *Model) submitReview() tea.Cmd {
	if m.formRating < models.MinRating || m.formRating > models.MaxRating {
		m.notice = styles.warn.Render("Pick a rating from 1 to 5 first")
		return nil
	}

	rating := m.formRating
	text := m.formInput.Value()
	current := m.reviews
	editingID := m.editingID
	key := m.selectedAlbum

	return func() tea.Msg {
		if editingID != "" {
			next, err := views.Update(m.ctx, m.dispatcher, current, reviewID, func(ctx context.Context) (*models.Review, error) {
				return m.catalog.UpdateReview(ctx, editingID, rating, text)
			})
			return reviewsChangedMsg{reviews: next, err: err}
		}

		review := models.Review{
			AlbumID:    key.ID,
			AlbumName:  key.Album,
			ArtistName: key.Artist,
			Rating:     rating,
			ReviewText: text,
		}
		next, err := views.Create(m.ctx, m.dispatcher, current, func(ctx context.Context) (*models.Review, error) {
			return m.catalog.CreateReview(ctx, review)
		})
		return reviewsChangedMsg{reviews: next, err: err}
	}
}

func (m *Model) deleteReview(id string) tea.Cmd {
	current := m.reviews
	return func() tea.Msg {
		// Confirmation already happened in ConfirmDeleteView.
		next, err := views.Delete(m.ctx, m.dispatcher, current, id, reviewID,
			func() bool { return true },
			func(ctx context.Context) error { return m.catalog.DeleteReview(ctx, id) })
		return reviewsChangedMsg{reviews: next, err: err}
	}
}

func (m *Model) saveBio() tea.Cmd {
	bio := m.bioInput.Value()
	return func() tea.Msg {
		user, err := views.Mutate(m.ctx, m.dispatcher, func(ctx context.Context) (*models.User, error) {
			return m.catalog.UpdateBio(ctx, bio)
		})
		return bioSavedMsg{user: user, err: err}
	}
}

func reviewID(r models.Review) string { return r.ReviewID }

func (m *Model) renderArtistList() string {
	result := m.artists.Result()
	switch result.Status() {
	case views.StatusLoading:
		return styles.help.Render("Loading artists...")
	case views.StatusFailed:
		return m.renderFailure("Could not load artists", result.Reason())
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.profile, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.artistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderArtistDetail() string {
	result := m.artistPg.Result()
	switch result.Status() {
	case views.StatusLoading:
		return styles.help.Render(fmt.Sprintf("Loading %s...", m.selectedArtist))
	case views.StatusFailed:
		return m.renderFailure("Could not load artist", result.Reason())
	}

	payload, _ := result.Payload()
	title := styles.title.Render(payload.Artist.Name)
	route := styles.help.Render(views.ArtistPath(payload.Artist.Name))

	var bio string
	if payload.Artist.Bio != "" {
		bio = payload.Artist.Bio + "\n\n"
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s %s\n\n%s%s\n\n%s",
		title, route, bio, m.albumList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAlbumDetail() string {
	result := m.albumPg.Result()
	switch result.Status() {
	case views.StatusLoading:
		return styles.help.Render(fmt.Sprintf("Loading %s...", m.selectedAlbum.Album))
	case views.StatusFailed:
		return m.renderFailure("Could not load album", result.Reason())
	}

	payload, _ := result.Payload()
	title := styles.title.Render(fmt.Sprintf("%s by %s", payload.Album.Title, payload.Album.Artist))
	route := styles.help.Render(views.AlbumPath(m.selectedAlbum.Artist, m.selectedAlbum.Album, m.selectedAlbum.ID))

	var desc string
	if payload.Album.Description != "" {
		desc = payload.Album.Description + "\n\n"
	}

	var notice string
	if m.notice != "" {
		notice = m.notice + "\n"
	}

	helpKeys := []key.Binding{m.keys.review, m.keys.edit, m.keys.delete, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s %s\n\n%s%s%s\n\n%s",
		title, route, desc, notice, m.reviewList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderReviewForm() string {
	action := "Write a review"
	if m.editingID != "" {
		action = "Edit your review"
	}
	title := styles.title.Render(fmt.Sprintf("%s for %s", action, m.selectedAlbum.Album))

	rating := "not set"
	if m.formRating > 0 {
		rating = formatter.Stars(m.formRating)
	}

	var notice string
	if m.notice != "" {
		notice = "\n" + m.notice
	}

	return fmt.Sprintf("%s\n\nRating: %s  (press 1-5)\n\n%s%s\n\n%s",
		title, rating, m.formInput.View(), notice,
		styles.help.Render("tab edit text • enter save • esc cancel"))
}

func (m *Model) renderConfirmDelete() string {
	title := styles.title.Render("Delete this review?")
	info := fmt.Sprintf("\n%s %s\n%s\n",
		m.pendingDelete.Username,
		formatter.Stars(m.pendingDelete.Rating),
		m.pendingDelete.ReviewText)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderProfile() string {
	result := m.profile.Result()
	switch result.Status() {
	case views.StatusLoading:
		return styles.help.Render("Loading profile...")
	case views.StatusFailed:
		return m.renderFailure("Could not load profile", result.Reason())
	}

	payload, _ := result.Payload()
	title := styles.title.Render(payload.Username)
	route := styles.help.Render(views.ProfilePath())

	bio := payload.Bio
	if bio == "" {
		bio = styles.help.Render("No bio yet")
	}
	if m.bioEditing {
		bio = m.bioInput.View()
	}

	var reviewLines string
	for _, r := range payload.ReviewedAlbums {
		reviewLines += fmt.Sprintf("  %s %s\n", formatter.Stars(r.Rating), r.AlbumName)
	}
	if reviewLines == "" {
		reviewLines = styles.help.Render("  No reviews yet") + "\n"
	}

	var notice string
	if m.notice != "" {
		notice = m.notice + "\n"
	}

	footer := styles.help.Render("e edit bio • esc back • q quit")
	if m.bioEditing {
		footer = styles.help.Render("enter save • esc cancel")
	}

	return fmt.Sprintf("%s %s\n\n%s\n\nReviews:\n%s%s\n%s",
		title, route, bio, reviewLines, notice, footer)
}

func (m *Model) renderFailure(heading, reason string) string {
	return fmt.Sprintf("%s\n%s\n\n%s",
		styles.err.Render(heading),
		reason,
		styles.help.Render("r retry • esc back • q quit"))
}
